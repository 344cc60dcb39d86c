package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/classifier"
	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/models"
	"github.com/asdscreen/asd-screening-api/internal/repository"
)

// assessmentServiceImpl implements AssessmentService
type assessmentServiceImpl struct {
	repos *repository.Repositories
	log   logger.Logger
}

func newAssessmentService(repos *repository.Repositories, log logger.Logger) *assessmentServiceImpl {
	return &assessmentServiceImpl{repos: repos, log: log}
}

// Record stores one assessment. The band must be the one Classify derives
// from age so stored records never drift from the routing rules.
func (s *assessmentServiceImpl) Record(ctx context.Context, userID uuid.UUID, age int, band classifier.AgeBand, responses []int, prediction bool) (*models.Assessment, error) {
	if userID == uuid.Nil {
		return nil, apperrors.InvalidInput("user is required", nil)
	}
	if len(responses) != classifier.FeatureCount {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("expected %d responses, got %d", classifier.FeatureCount, len(responses)), nil)
	}
	if expected := classifier.Classify(age); band != expected {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("age group %s does not match age %d (expected %s)", band, age, expected), nil)
	}

	stored := make([]int, len(responses))
	copy(stored, responses)

	assessment := &models.Assessment{
		UserID:     userID,
		Age:        age,
		AgeGroup:   band,
		Responses:  stored,
		Prediction: prediction,
	}
	if err := s.repos.Assessment.Create(ctx, assessment); err != nil {
		s.log.Error("failed to store assessment", err, "user_id", userID.String())
		return nil, apperrors.InternalError("Failed to store assessment", err).WithOperation("Record")
	}
	return assessment, nil
}

// ListByUser returns the user's assessments, newest first
func (s *assessmentServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assessment, error) {
	list, err := s.repos.Assessment.ListByUser(ctx, userID)
	if err != nil {
		s.log.Error("failed to list assessments", err, "user_id", userID.String())
		return nil, apperrors.InternalError("Failed to load assessments", err).WithOperation("ListByUser")
	}
	return list, nil
}
