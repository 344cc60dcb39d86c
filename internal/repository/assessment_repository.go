package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/classifier"
	"github.com/asdscreen/asd-screening-api/internal/models"
)

// assessmentRepository implements AssessmentRepository
type assessmentRepository struct {
	db  dbExecutor
	now func() time.Time
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db dbExecutor) AssessmentRepository {
	return &assessmentRepository{db: db, now: time.Now}
}

// Create inserts a single assessment row
func (r *assessmentRepository) Create(ctx context.Context, a *models.Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = r.now().UTC()

	responsesJSON, err := json.Marshal(a.Responses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}

	query := `
		INSERT INTO assessments (id, user_id, age, age_group, responses, prediction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Age, string(a.AgeGroup), responsesJSON, a.Prediction, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}

	return nil
}

// ListByUser returns a user's assessments, newest first
func (r *assessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assessment, error) {
	query := `
		SELECT id, user_id, age, age_group, responses, prediction, created_at
		FROM assessments
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	assessments := []models.Assessment{}
	for rows.Next() {
		var a models.Assessment
		var ageGroup string
		var responsesJSON []byte

		if err := rows.Scan(&a.ID, &a.UserID, &a.Age, &ageGroup, &responsesJSON, &a.Prediction, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		if err := json.Unmarshal(responsesJSON, &a.Responses); err != nil {
			return nil, fmt.Errorf("failed to decode responses of assessment %s: %w", a.ID, err)
		}
		a.AgeGroup = classifier.AgeBand(ageGroup)

		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}
