package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/asdscreen/asd-screening-api/internal/auth"
	"github.com/asdscreen/asd-screening-api/internal/classifier"
	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/logger/loggertest"
	"github.com/asdscreen/asd-screening-api/internal/models"
	"github.com/asdscreen/asd-screening-api/internal/repository"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mu      sync.Mutex
	users   map[string]*models.User
	lookErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*models.User)}
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookErr != nil {
		return nil, m.lookErr
	}
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	copied := *user
	m.users[user.Email] = &copied
	return nil
}

// MockAssessmentRepository implements AssessmentRepository for testing
type MockAssessmentRepository struct {
	mu        sync.Mutex
	stored    []models.Assessment
	createErr error
}

func (m *MockAssessmentRepository) Create(ctx context.Context, a *models.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now().UTC()
	m.stored = append(m.stored, *a)
	return nil
}

func (m *MockAssessmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Assessment{}
	for i := len(m.stored) - 1; i >= 0; i-- {
		if m.stored[i].UserID == userID {
			out = append(out, m.stored[i])
		}
	}
	return out, nil
}

func (m *MockAssessmentRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

// mockTxManager runs fn against the same repositories
type mockTxManager struct {
	repos *repository.Repositories
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return fn(m.repos)
}

func newMockRepositories() (*repository.Repositories, *MockUserRepository, *MockAssessmentRepository) {
	users := NewMockUserRepository()
	assessments := &MockAssessmentRepository{}
	repos := &repository.Repositories{User: users, Assessment: assessments}
	repos.Tx = &mockTxManager{repos: repos}
	return repos, users, assessments
}

// testRegistry predicts positive when at least five answers are 1
func testRegistry() *classifier.Registry {
	coef := make([]float64, classifier.FeatureCount)
	mean := make([]float64, classifier.FeatureCount)
	scale := make([]float64, classifier.FeatureCount)
	for i := range coef {
		coef[i] = 1
		scale[i] = 1
	}
	artifacts := map[classifier.AgeBand]classifier.Artifacts{}
	for _, band := range classifier.AllBands {
		artifacts[band] = classifier.Artifacts{
			Model:  &classifier.LogisticRegression{Coef: coef, Intercept: -5},
			Scaler: &classifier.StandardScaler{Mean: mean, Scale: scale},
		}
	}
	return classifier.NewRegistry(artifacts)
}

func newTestAuthService(t *testing.T) (*authServiceImpl, *MockUserRepository) {
	repos, users, _ := newMockRepositories()
	svc := newAuthService(repos, auth.NewJWTService("test-secret", time.Hour), loggertest.New(t))
	svc.hashPassword = func(p string) (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
		return string(b), err
	}
	return svc, users
}

func toInterfaces(values ...interface{}) []interface{} {
	return values
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Empty(t, user.PasswordHash)

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "ana@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, &models.SignupRequest{Name: "Other", Email: "ana@x.com", Password: "pw2"})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateEmail))
	assert.Len(t, users.users, 1)
}

func TestAuthService_SignupMissingFields(t *testing.T) {
	svc, users := newTestAuthService(t)

	tests := []struct {
		name string
		req  *models.SignupRequest
	}{
		{"nil request", nil},
		{"missing name", &models.SignupRequest{Email: "a@x.com", Password: "pw"}},
		{"missing email", &models.SignupRequest{Name: "A", Password: "pw"}},
		{"missing password", &models.SignupRequest{Name: "A", Email: "a@x.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingField))
		})
	}
	assert.Empty(t, users.users)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ana@x.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidCredentials))

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@x.com", Password: "pw1"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidCredentials))

	users.lookErr = errors.New("connection refused")
	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ana@x.com", Password: "pw1"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternalError))
	assert.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err))
	users.lookErr = nil

	_, err = svc.Login(ctx, &models.LoginRequest{Email: "ana@x.com"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeMissingField))
}

func TestAuthService_SignupPasswordTooLong(t *testing.T) {
	svc, users := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("a", 80)})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	assert.Equal(t, http.StatusBadRequest, apperrors.HTTPStatus(err))
	_, lookErr := users.GetByEmail(ctx, "ana@x.com")
	assert.Error(t, lookErr)

	_, err = svc.Signup(ctx, &models.SignupRequest{Name: "Ana", Email: "ana@x.com", Password: strings.Repeat("a", auth.MaxPasswordLength)})
	assert.NoError(t, err)
}

func TestPredictionService_Predict(t *testing.T) {
	repos, _, _ := newMockRepositories()
	svc := NewPredictionService(testRegistry(), newAssessmentService(repos, logger.NewNoOpLogger()), logger.NewNoOpLogger())

	result, err := svc.Predict(7, toInterfaces(1, 0, 1, 1, 0, 0, 1, 0, 1, 1))
	require.NoError(t, err)
	assert.True(t, result.Outcome)
	assert.Equal(t, classifier.Children, result.AgeGroup)

	result, err = svc.Predict(30, toInterfaces(0, 0, 0, 0, 0, 0, 0, 0, 0, 0))
	require.NoError(t, err)
	assert.False(t, result.Outcome)
	assert.Equal(t, classifier.Adults, result.AgeGroup)
}

func TestPredictionService_AssessPersists(t *testing.T) {
	repos, _, stored := newMockRepositories()
	svc := NewPredictionService(testRegistry(), newAssessmentService(repos, logger.NewNoOpLogger()), logger.NewNoOpLogger())
	userID := uuid.New()

	assessment, err := svc.Assess(context.Background(), userID, 7, toInterfaces(1, 0, 1, 1, 0, 0, 1, 0, 1, 1))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, assessment.ID)
	assert.Equal(t, userID, assessment.UserID)
	assert.Equal(t, 7, assessment.Age)
	assert.Equal(t, classifier.Children, assessment.AgeGroup)
	assert.Equal(t, []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1}, assessment.Responses)
	assert.True(t, assessment.Prediction)
	assert.Equal(t, 1, stored.count())
}

func TestPredictionService_AssessAcceptsNumericStrings(t *testing.T) {
	repos, _, stored := newMockRepositories()
	svc := NewPredictionService(testRegistry(), newAssessmentService(repos, logger.NewNoOpLogger()), logger.NewNoOpLogger())

	assessment, err := svc.Assess(context.Background(), uuid.New(), 15,
		toInterfaces("1", "1", float64(0), "0", 1, 0, 0, "1", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, classifier.Adolescents, assessment.AgeGroup)
	assert.Equal(t, []int{1, 1, 0, 0, 1, 0, 0, 1, 0, 0}, assessment.Responses)
	assert.False(t, assessment.Prediction)
	assert.Equal(t, 1, stored.count())
}

func TestPredictionService_InvalidInputWritesNothing(t *testing.T) {
	repos, _, stored := newMockRepositories()
	svc := NewPredictionService(testRegistry(), newAssessmentService(repos, logger.NewNoOpLogger()), logger.NewNoOpLogger())

	tests := []struct {
		name      string
		responses []interface{}
		code      string
	}{
		{"missing responses", nil, apperrors.ErrCodeMissingField},
		{"too few", toInterfaces(1, 0, 1), apperrors.ErrCodeInvalidInput},
		{"too many", toInterfaces(1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1), apperrors.ErrCodeInvalidInput},
		{"non numeric", toInterfaces("a", 0, 1, 1, 0, 0, 1, 0, 1, 1), apperrors.ErrCodeInvalidInput},
		{"fractional", toInterfaces(0.5, 0, 1, 1, 0, 0, 1, 0, 1, 1), apperrors.ErrCodeInvalidInput},
		{"bool", toInterfaces(true, 0, 1, 1, 0, 0, 1, 0, 1, 1), apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Assess(context.Background(), uuid.New(), 7, tt.responses)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
		})
	}
	assert.Equal(t, 0, stored.count())
}

func TestPredictionService_MissingBandWritesNothing(t *testing.T) {
	repos, _, stored := newMockRepositories()
	registry := classifier.NewRegistry(map[classifier.AgeBand]classifier.Artifacts{})
	svc := NewPredictionService(registry, newAssessmentService(repos, logger.NewNoOpLogger()), logger.NewNoOpLogger())

	_, err := svc.Assess(context.Background(), uuid.New(), 7, toInterfaces(1, 0, 1, 1, 0, 0, 1, 0, 1, 1))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternalError))
	assert.Equal(t, 0, stored.count())
}

func TestPredictionService_PersistenceFailure(t *testing.T) {
	repos, _, stored := newMockRepositories()
	stored.createErr = errors.New("disk full")
	svc := NewPredictionService(testRegistry(), newAssessmentService(repos, logger.NewNoOpLogger()), logger.NewNoOpLogger())

	assessment, err := svc.Assess(context.Background(), uuid.New(), 7, toInterfaces(1, 0, 1, 1, 0, 0, 1, 0, 1, 1))
	assert.Nil(t, assessment)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternalError))
}

func TestAssessmentService_Record(t *testing.T) {
	repos, _, stored := newMockRepositories()
	svc := newAssessmentService(repos, logger.NewNoOpLogger())
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Record(ctx, userID, 7, classifier.Adults, make([]int, 10), false)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = svc.Record(ctx, uuid.Nil, 7, classifier.Children, make([]int, 10), false)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))

	_, err = svc.Record(ctx, userID, 7, classifier.Children, make([]int, 9), false)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidInput))
	assert.Equal(t, 0, stored.count())

	first, err := svc.Record(ctx, userID, 7, classifier.Children, make([]int, 10), false)
	require.NoError(t, err)
	second, err := svc.Record(ctx, userID, 40, classifier.Adults, make([]int, 10), true)
	require.NoError(t, err)
	_, err = svc.Record(ctx, uuid.New(), 20, classifier.YoungAdults, make([]int, 10), true)
	require.NoError(t, err)

	list, err := svc.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	empty, err := svc.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		raw     interface{}
		want    int
		wantErr string
	}{
		{float64(7), 7, ""},
		{"15", 15, ""},
		{" 20 ", 20, ""},
		{float64(-3), -3, ""},
		{nil, 0, apperrors.ErrCodeMissingField},
		{"seven", 0, apperrors.ErrCodeInvalidInput},
		{7.5, 0, apperrors.ErrCodeInvalidInput},
		{[]interface{}{1}, 0, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		age, err := ParseAge(tt.raw)
		if tt.wantErr != "" {
			assert.True(t, apperrors.HasCode(err, tt.wantErr), "raw=%v", tt.raw)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, age)
	}
}
