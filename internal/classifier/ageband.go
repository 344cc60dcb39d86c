package classifier

// AgeBand is one of the four fixed age categories used to pick a model,
// a scaler and a question set.
type AgeBand string

const (
	Children    AgeBand = "children"
	Adolescents AgeBand = "adolescents"
	YoungAdults AgeBand = "young_adults"
	Adults      AgeBand = "adults"
)

// AllBands lists every band in classification order
var AllBands = []AgeBand{Children, Adolescents, YoungAdults, Adults}

// Classify maps an age to its band. Rules apply in order and the first
// match wins; anything unmatched, including ages <= 0, is Adults.
func Classify(age int) AgeBand {
	switch {
	case age > 0 && age <= 10:
		return Children
	case age >= 11 && age <= 17:
		return Adolescents
	case age >= 18 && age <= 35:
		return YoungAdults
	default:
		return Adults
	}
}

// Valid reports whether b is one of the known bands
func (b AgeBand) Valid() bool {
	switch b {
	case Children, Adolescents, YoungAdults, Adults:
		return true
	}
	return false
}

func (b AgeBand) String() string {
	return string(b)
}

// FeatureNames is the fixed column order the artifacts were trained on
var FeatureNames = []string{
	"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8", "A9",
	"A10_Autism_Spectrum_Quotient",
}

// FeatureCount is the number of questionnaire answers per prediction
const FeatureCount = 10
