package service

import (
	"context"
	"log/slog"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/auth"
	"github.com/sakif/jobassist/internal/repository"
)

// LinkedInStatus is the automation status payload.
type LinkedInStatus struct {
	Enabled      bool `json:"enabled"`
	TotalEnabled int  `json:"totalEnabled"`
}

// LinkedInService manages the per-user automation flag and fronts the
// OAuth provider. The provider may be nil when the deployment has no
// LinkedIn credentials configured; OAuth operations then answer 503 while
// the plain enable/disable flag keeps working.
type LinkedInService struct {
	users    repository.UserRepository
	provider *auth.LinkedInProvider
	logger   *slog.Logger
}

func NewLinkedInService(users repository.UserRepository, provider *auth.LinkedInProvider, logger *slog.Logger) *LinkedInService {
	return &LinkedInService{users: users, provider: provider, logger: logger}
}

// SetEnabled flips LinkedIn automation for the user.
func (s *LinkedInService) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	if err := s.users.SetLinkedinEnabled(ctx, userID, enabled); err != nil {
		return err
	}
	s.logger.Info("linkedin automation toggled",
		slog.String("userID", userID),
		slog.Bool("enabled", enabled),
	)
	return nil
}

// Status reports the user's flag plus how many users have it on.
func (s *LinkedInService) Status(ctx context.Context, userID string) (LinkedInStatus, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return LinkedInStatus{}, err
	}
	total, err := s.users.CountLinkedinEnabled(ctx)
	if err != nil {
		return LinkedInStatus{}, err
	}
	return LinkedInStatus{Enabled: user.LinkedinEnabled, TotalEnabled: total}, nil
}

// AuthURL returns the OAuth consent URL and the state value to verify on
// callback.
func (s *LinkedInService) AuthURL() (url, state string, err error) {
	if s.provider == nil {
		return "", "", apperror.Unavailable("linkedin oauth")
	}
	state, err = auth.NewOAuthState()
	if err != nil {
		return "", "", err
	}
	return s.provider.AuthURL(state), state, nil
}

// HandleCallback exchanges the OAuth code and enables automation for the
// user on success.
func (s *LinkedInService) HandleCallback(ctx context.Context, userID, code string) (*auth.LinkedInProfile, error) {
	if s.provider == nil {
		return nil, apperror.Unavailable("linkedin oauth")
	}
	if code == "" {
		return nil, apperror.ValidationFailed("code", "authorization code is required")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Unauthorized("linkedin authorization failed")
	}
	if err := s.users.SetLinkedinEnabled(ctx, userID, true); err != nil {
		return nil, err
	}
	return profile, nil
}
