package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
	"github.com/sakif/jobassist/internal/secret"
)

// Key format checks. These catch paste accidents (a password, an empty
// field) before a useless key is encrypted and stored; they do not prove
// the key works upstream.
const (
	apiKeyPrefix    = "sk-"
	minAPIKeyLength = 20
)

// KeyStatus is what the status endpoint reports: whether a key is stored,
// never the key itself.
type KeyStatus struct {
	HasAPIKey bool   `json:"has_api_key"`
	KeyHint   string `json:"key_hint,omitempty"` // last 4 characters, for "is this the right key" UX
}

// APIKeyService stores, rotates, and deletes the per-user OpenAI API key.
// Keys are sealed with an AEAD cipher before touching the database and
// decrypted only at the point of use.
type APIKeyService struct {
	users  repository.UserRepository
	cipher *secret.Cipher
	logger *slog.Logger
}

func NewAPIKeyService(users repository.UserRepository, cipher *secret.Cipher, logger *slog.Logger) *APIKeyService {
	return &APIKeyService{
		users:  users,
		cipher: cipher,
		logger: logger,
	}
}

func validateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperror.ValidationFailed("api_key", "api key is required")
	}
	if !strings.HasPrefix(key, apiKeyPrefix) {
		return apperror.ValidationFailed("api_key", "api key must start with sk-")
	}
	if len(key) < minAPIKeyLength {
		return apperror.ValidationFailed("api_key", "api key is too short")
	}
	return nil
}

// Store encrypts and saves a user's API key, replacing any existing one.
func (s *APIKeyService) Store(ctx context.Context, userID, rawKey string) error {
	rawKey = strings.TrimSpace(rawKey)
	if err := validateAPIKey(rawKey); err != nil {
		return err
	}

	sealed, err := s.cipher.Encrypt(rawKey)
	if err != nil {
		return err
	}
	if err := s.users.SetAPIKey(ctx, userID, sealed); err != nil {
		return err
	}

	s.logger.Info("api key stored", slog.String("userID", userID))
	return nil
}

// Status reports whether the user has a key and a short hint of which one.
func (s *APIKeyService) Status(ctx context.Context, userID string) (KeyStatus, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return KeyStatus{}, err
	}
	if !user.HasAPIKey() {
		return KeyStatus{}, nil
	}

	status := KeyStatus{HasAPIKey: true}
	if raw, err := s.cipher.Decrypt(user.APIKeyEncrypted); err == nil && len(raw) >= 4 {
		status.KeyHint = raw[len(raw)-4:]
	}
	return status, nil
}

// Rotate replaces the stored key with a new one. Unlike Store it refuses
// when no key exists yet — rotating nothing is a client mistake.
func (s *APIKeyService) Rotate(ctx context.Context, userID, newKey string) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasAPIKey() {
		return apperror.ValidationFailed("api_key", "no api key stored to rotate")
	}
	return s.Store(ctx, userID, newKey)
}

// Delete removes the stored key. The onboarding guard's self-heal notices
// the absence on the user's next page load.
func (s *APIKeyService) Delete(ctx context.Context, userID string) error {
	if err := s.users.SetAPIKey(ctx, userID, ""); err != nil {
		return err
	}
	s.logger.Info("api key deleted", slog.String("userID", userID))
	return nil
}

// reveal decrypts the user's stored key for in-process use. Not exposed
// over HTTP.
func (s *APIKeyService) reveal(ctx context.Context, user *model.User) (string, error) {
	if !user.HasAPIKey() {
		return "", apperror.ValidationFailed("api_key", "no api key stored")
	}
	raw, err := s.cipher.Decrypt(user.APIKeyEncrypted)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// RequireKey returns the user's decrypted key, or a validation error when
// none is stored. Features that spend the user's OpenAI quota call this
// first.
func (s *APIKeyService) RequireKey(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.ValidationFailed("api_key", "no api key stored")
		}
		return "", err
	}
	return s.reveal(ctx, user)
}
