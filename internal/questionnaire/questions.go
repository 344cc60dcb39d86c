package questionnaire

import (
	"github.com/asdscreen/asd-screening-api/internal/classifier"
)

// questions holds the fixed screening questions per age band, in the
// order of the A1..A10 features the models were trained on.
var questions = map[classifier.AgeBand][]string{
	classifier.Children: {
		"Does your child avoid eye contact?",
		"Does your child show interest in other children?",
		"Does your child engage in pretend play?",
		"Does your child repeat the same actions or words?",
		"Does your child have trouble understanding others' feelings?",
		"Does your child have trouble adjusting to changes in routine?",
		"Does your child flap their hands or spin objects?",
		"Does your child have difficulty with social interactions?",
		"Does your child appear oversensitive to noises or lights?",
		"Does your child have specific interests or routines?",
	},
	classifier.Adolescents: {
		"Do you have difficulty maintaining friendships?",
		"Do you prefer to spend time alone rather than with friends?",
		"Do you find it hard to understand what others are thinking or feeling?",
		"Do you have trouble understanding jokes or sarcasm?",
		"Do you find it difficult to adapt to changes?",
		"Do you engage in repetitive behaviors or have specific routines?",
		"Do you have intense interests in specific topics?",
		"Do you find social situations overwhelming?",
		"Do you avoid eye contact?",
		"Do you have difficulty with small talk or casual conversations?",
	},
	classifier.YoungAdults: {
		"Do you find it difficult to understand other people's emotions?",
		"Do you prefer to follow routines and find change difficult?",
		"Do you avoid social situations or find them overwhelming?",
		"Do you struggle with making eye contact during conversations?",
		"Do you have specific hobbies or interests that you focus on intensely?",
		"Do you find it challenging to engage in small talk?",
		"Do you often miss social cues, such as when someone is being sarcastic?",
		"Do you feel uncomfortable in group settings?",
		"Do you prefer to be alone rather than with others?",
		"Do you find loud noises or bright lights distressing?",
	},
	classifier.Adults: {
		"Do you often prefer to be alone rather than with others?",
		"Do you find it challenging to understand social cues?",
		"Do you have specific routines or rituals that you prefer not to break?",
		"Do you avoid eye contact in conversations?",
		"Do you feel overwhelmed in social situations?",
		"Do you have intense interests or hobbies?",
		"Do you struggle with changes to your routine?",
		"Do you find it hard to make friends?",
		"Do you have difficulty understanding jokes or sarcasm?",
		"Do you feel uncomfortable in new situations or with unfamiliar people?",
	},
}

// Questions returns a copy of the question list for band
func Questions(band classifier.AgeBand) []string {
	src := questions[band]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// ForAge classifies age and returns the band with its questions
func ForAge(age int) (classifier.AgeBand, []string) {
	band := classifier.Classify(age)
	return band, Questions(band)
}
