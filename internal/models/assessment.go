package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/classifier"
)

// Assessment is the persisted record of one prediction. Records are
// written once and never updated.
type Assessment struct {
	ID         uuid.UUID          `json:"id" db:"id"`
	UserID     uuid.UUID          `json:"-" db:"user_id"`
	Age        int                `json:"age" db:"age"`
	AgeGroup   classifier.AgeBand `json:"age_group" db:"age_group"`
	Responses  []int              `json:"responses" db:"responses"`
	Prediction bool               `json:"prediction" db:"prediction"`
	CreatedAt  time.Time          `json:"created_at" db:"created_at"`
}

// PredictRequest is the body of POST /predict. Age and responses are
// decoded loosely so that numeric strings are accepted as well as numbers.
type PredictRequest struct {
	Age       interface{}   `json:"age"`
	Responses []interface{} `json:"responses"`
}

// PredictionResult is the outcome of running a band's model
type PredictionResult struct {
	Outcome  bool
	AgeGroup classifier.AgeBand
}

// PredictResponse is the body returned by POST /predict
type PredictResponse struct {
	Prediction int                `json:"prediction"`
	AgeGroup   classifier.AgeBand `json:"age_group"`
}

// QuestionsResponse is the body returned by GET /get_questions
type QuestionsResponse struct {
	AgeGroup  classifier.AgeBand `json:"age_group"`
	Questions []string           `json:"questions"`
}
