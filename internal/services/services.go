package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/auth"
	"github.com/asdscreen/asd-screening-api/internal/classifier"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/models"
	"github.com/asdscreen/asd-screening-api/internal/repository"
	"github.com/asdscreen/asd-screening-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Auth       AuthService
	Prediction PredictionService
	Assessment AssessmentService
	JWT        *auth.JWTService
}

// AuthService defines the interface for signup and login
type AuthService interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// PredictionService runs the age band's classifier on questionnaire answers
type PredictionService interface {
	// Predict validates raw answers and returns the model outcome without
	// persisting anything.
	Predict(age int, responses []interface{}) (*models.PredictionResult, error)
	// Assess predicts and records the outcome for userID. Nothing is
	// written when validation or inference fails.
	Assess(ctx context.Context, userID uuid.UUID, age int, responses []interface{}) (*models.Assessment, error)
}

// AssessmentService is the append-only store of prediction records
type AssessmentService interface {
	Record(ctx context.Context, userID uuid.UUID, age int, band classifier.AgeBand, responses []int, prediction bool) (*models.Assessment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assessment, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, registry *classifier.Registry, cfg *config.Config, log logger.Logger) *Services {
	repos := repository.NewRepositories(db)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	assessments := newAssessmentService(repos, log)

	return &Services{
		Auth:       newAuthService(repos, jwtService, log),
		Prediction: newPredictionService(registry, assessments, log),
		Assessment: assessments,
		JWT:        jwtService,
	}
}

// NewPredictionService creates a standalone prediction service
func NewPredictionService(registry *classifier.Registry, assessments AssessmentService, log logger.Logger) PredictionService {
	return newPredictionService(registry, assessments, log)
}
