// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and return domain models plus apperror
// sentinels. They have zero knowledge of HTTP; the handler layer
// translates domain errors to status codes. Every service takes its
// repository as an interface, so tests swap in in-memory fakes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/auth"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 100
)

// AuthService handles registration, login, and profile reads.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

func NewAuthService(users repository.UserRepository, passwords *auth.PasswordService, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates an account and returns the user with a fresh token.
// Email is normalized to lowercase so lookups are case-insensitive.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", apperror.ValidationFailed("email", "not a valid email address")
	}
	if len(password) < MinPasswordLength {
		return nil, "", apperror.ValidationFailed("password", "password must be at least 8 characters")
	}
	if len(name) > MaxNameLength {
		return nil, "", apperror.ValidationFailed("name", "name is too long")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			return nil, "", err
		}
		return nil, "", err
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		// Conflict from the unique email index passes through as-is.
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user registered", slog.String("userID", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// A wrong email and a wrong password produce the same error, so the
// response never reveals whether an account exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, "", apperror.Unauthorized("invalid email or password")
		}
		return nil, "", err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, "", apperror.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUser returns the profile for an authenticated user ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
