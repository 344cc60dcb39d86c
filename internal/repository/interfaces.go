package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user with the same email exists
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AssessmentRepository defines the interface for assessment data access.
// Assessments are append-only.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assessment, error)
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	User       UserRepository
	Assessment AssessmentRepository
	Tx         TransactionManager
}
