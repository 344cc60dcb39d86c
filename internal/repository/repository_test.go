package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdscreen/asd-screening-api/internal/classifier"
	"github.com/asdscreen/asd-screening-api/internal/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var userColumns = []string{"id", "name", "email", "password_hash", "created_at", "updated_at"}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, email, password_hash, created_at, updated_at\s+FROM users WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Ada", "ada@example.com", "hash", now, now))

	user, err := repo.GetByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO users \(id, name, email, password_hash, created_at, updated_at\)`).
		WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestUserRepository_Create_OtherError(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO users`).WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
}

func TestAssessmentRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssessmentRepository(db)
	userID := uuid.New()

	mock.ExpectExec(`INSERT INTO assessments \(id, user_id, age, age_group, responses, prediction, created_at\)`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 7, "children", []byte("[1,0,1,1,0,0,1,0,1,1]"), true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := &models.Assessment{
		UserID:     userID,
		Age:        7,
		AgeGroup:   classifier.Children,
		Responses:  []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1},
		Prediction: true,
	}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.False(t, a.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepository_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssessmentRepository(db)
	userID := uuid.New()
	newer := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	rows := sqlmock.NewRows([]string{"id", "user_id", "age", "age_group", "responses", "prediction", "created_at"}).
		AddRow(uuid.New().String(), userID.String(), 7, "children", []byte("[1,1,1,1,1,1,1,1,1,1]"), true, newer).
		AddRow(uuid.New().String(), userID.String(), 30, "young_adults", []byte("[0,0,0,0,0,0,0,0,0,0]"), false, older)

	mock.ExpectQuery(`FROM assessments\s+WHERE user_id = \$1\s+ORDER BY created_at DESC, id DESC`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, classifier.Children, list[0].AgeGroup)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, list[0].Responses)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.False(t, list[1].Prediction)
}

func TestAssessmentRepository_ListByUser_Empty(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAssessmentRepository(db)

	mock.ExpectQuery(`FROM assessments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "age", "age_group", "responses", "prediction", "created_at"}))

	list, err := repo.ListByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.WithTransaction(context.Background(), func(repos *Repositories) error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_Commits(t *testing.T) {
	db, mock := newMock(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(repos *Repositories) error {
		return repos.User.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@example.com"})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
