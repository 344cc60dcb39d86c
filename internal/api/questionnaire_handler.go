package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/models"
	"github.com/asdscreen/asd-screening-api/internal/questionnaire"
	"github.com/asdscreen/asd-screening-api/internal/services"
)

// QuestionnaireHandler serves the age-appropriate question set
type QuestionnaireHandler struct{}

// NewQuestionnaireHandler creates a new questionnaire handler
func NewQuestionnaireHandler() *QuestionnaireHandler {
	return &QuestionnaireHandler{}
}

// GetQuestions returns the ten questions for ?age=
func (h *QuestionnaireHandler) GetQuestions(c *gin.Context) {
	raw, ok := c.GetQuery("age")
	if !ok || raw == "" {
		writeError(c, apperrors.MissingField("Missing parameters"))
		return
	}

	age, err := services.ParseAge(raw)
	if err != nil {
		writeError(c, err)
		return
	}

	band, questions := questionnaire.ForAge(age)
	c.JSON(http.StatusOK, models.QuestionsResponse{
		AgeGroup:  band,
		Questions: questions,
	})
}
