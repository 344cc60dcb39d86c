package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/classifier"
	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/metrics"
	"github.com/asdscreen/asd-screening-api/internal/models"
)

// predictionServiceImpl implements PredictionService
type predictionServiceImpl struct {
	registry    *classifier.Registry
	assessments AssessmentService
	log         logger.Logger
}

func newPredictionService(registry *classifier.Registry, assessments AssessmentService, log logger.Logger) *predictionServiceImpl {
	return &predictionServiceImpl{
		registry:    registry,
		assessments: assessments,
		log:         log,
	}
}

// Predict implements PredictionService
func (s *predictionServiceImpl) Predict(age int, responses []interface{}) (*models.PredictionResult, error) {
	values, err := ParseResponses(responses)
	if err != nil {
		return nil, err
	}
	return s.predict(age, values)
}

// Assess implements PredictionService
func (s *predictionServiceImpl) Assess(ctx context.Context, userID uuid.UUID, age int, responses []interface{}) (*models.Assessment, error) {
	values, err := ParseResponses(responses)
	if err != nil {
		return nil, err
	}

	result, err := s.predict(age, values)
	if err != nil {
		return nil, err
	}

	return s.assessments.Record(ctx, userID, age, result.AgeGroup, values, result.Outcome)
}

func (s *predictionServiceImpl) predict(age int, values []int) (*models.PredictionResult, error) {
	band, artifacts, err := s.registry.Resolve(age)
	if err != nil {
		s.log.Error("failed to resolve model", err, "age", age)
		return nil, err
	}

	// features follow classifier.FeatureNames order: A1..A9, A10_Autism_Spectrum_Quotient
	features := make([]float64, len(values))
	for i, v := range values {
		features[i] = float64(v)
	}

	scaled, err := artifacts.Scaler.Transform(features)
	if err != nil {
		s.log.Error("failed to scale responses", err, "age_group", band.String())
		return nil, apperrors.InternalError("Failed to scale responses", err).WithOperation("Predict")
	}

	class, err := artifacts.Model.Predict(scaled)
	if err != nil {
		s.log.Error("model inference failed", err, "age_group", band.String())
		return nil, apperrors.InternalError("Model inference failed", err).WithOperation("Predict")
	}

	outcome := class != 0
	metrics.ObservePrediction(band.String(), outcome)
	s.log.Debug("prediction computed", "age_group", band.String(), "prediction", outcome)

	return &models.PredictionResult{Outcome: outcome, AgeGroup: band}, nil
}

// ParseResponses validates that exactly ten answers were given and that
// each one is an integer, either as a JSON number or a numeric string.
func ParseResponses(responses []interface{}) ([]int, error) {
	if responses == nil {
		return nil, apperrors.MissingField("Missing parameters")
	}
	if len(responses) != classifier.FeatureCount {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("Invalid response format: expected %d responses, got %d", classifier.FeatureCount, len(responses)), nil)
	}

	values := make([]int, len(responses))
	for i, raw := range responses {
		v, err := ParseInt(raw)
		if err != nil {
			return nil, apperrors.InvalidInput(
				fmt.Sprintf("Invalid response format: response %d (%v) is not an integer", i+1, raw), err)
		}
		values[i] = v
	}
	return values, nil
}

// ParseAge converts the raw age field into an integer
func ParseAge(raw interface{}) (int, error) {
	if raw == nil {
		return 0, apperrors.MissingField("Missing parameters")
	}
	age, err := ParseInt(raw)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("Invalid age: %v", raw), err)
	}
	return age, nil
}

// ParseInt accepts integral JSON numbers and strings holding an integer
func ParseInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, err
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}
