package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asdscreen/asd-screening-api/internal/auth"
	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/models"
	"github.com/asdscreen/asd-screening-api/internal/services"
)

// PredictionHandler runs predictions and lists stored assessments
type PredictionHandler struct {
	predictionService services.PredictionService
	assessmentService services.AssessmentService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService services.PredictionService, assessmentService services.AssessmentService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		assessmentService: assessmentService,
	}
}

// Predict classifies the caller's answers and records the assessment
func (h *PredictionHandler) Predict(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		writeError(c, apperrors.TokenMissing("Token is missing"))
		return
	}

	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, invalidBody(err))
		return
	}
	if req.Age == nil || req.Responses == nil {
		writeError(c, apperrors.MissingField("Missing parameters"))
		return
	}

	age, err := services.ParseAge(req.Age)
	if err != nil {
		writeError(c, err)
		return
	}

	assessment, err := h.predictionService.Assess(c.Request.Context(), userID, age, req.Responses)
	if err != nil {
		writeError(c, err)
		return
	}

	prediction := 0
	if assessment.Prediction {
		prediction = 1
	}
	c.JSON(http.StatusOK, models.PredictResponse{
		Prediction: prediction,
		AgeGroup:   assessment.AgeGroup,
	})
}

// ListAssessments returns the caller's assessments, newest first
func (h *PredictionHandler) ListAssessments(c *gin.Context) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		writeError(c, apperrors.TokenMissing("Token is missing"))
		return
	}

	assessments, err := h.assessmentService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if assessments == nil {
		assessments = []models.Assessment{}
	}

	c.JSON(http.StatusOK, assessments)
}
