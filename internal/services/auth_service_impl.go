package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/asdscreen/asd-screening-api/internal/auth"
	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/internal/models"
	"github.com/asdscreen/asd-screening-api/internal/repository"
)

// authServiceImpl implements AuthService
type authServiceImpl struct {
	repos        *repository.Repositories
	jwtService   *auth.JWTService
	log          logger.Logger
	hashPassword func(string) (string, error)
}

// newAuthService creates a new auth service implementation
func newAuthService(repos *repository.Repositories, jwtService *auth.JWTService, log logger.Logger) *authServiceImpl {
	return &authServiceImpl{
		repos:        repos,
		jwtService:   jwtService,
		log:          log,
		hashPassword: auth.HashPassword,
	}
}

// Signup creates a new user account
func (s *authServiceImpl) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req == nil || req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.MissingField("Missing required fields")
	}
	if len(req.Password) > auth.MaxPasswordLength {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("Password must be at most %d bytes", auth.MaxPasswordLength), nil)
	}
	email := strings.TrimSpace(req.Email)

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError("Failed to create user", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	err = s.repos.Tx.WithTransaction(ctx, func(repos *repository.Repositories) error {
		existing, err := repos.User.GetByEmail(ctx, email)
		if err == nil && existing != nil {
			return repository.ErrDuplicateEmail
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return repos.User.Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.DuplicateEmail("Email already exists", err)
		}
		s.log.Error("failed to create user", err, "email", email)
		return nil, apperrors.InternalError("Failed to create user", err)
	}

	s.log.Info("user created", "user_id", user.ID.String())

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a user and returns a token
func (s *authServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return nil, apperrors.MissingField("Missing required fields")
	}

	user, err := s.repos.User.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("failed to look up user", err)
			return nil, apperrors.InternalError("Failed to log in", err).WithOperation("Login")
		}
		return nil, apperrors.InvalidCredentials("Invalid credentials")
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials("Invalid credentials")
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.InternalError("Failed to generate token", err)
	}

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}
