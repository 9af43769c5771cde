package onboarding

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// Store is the single source of truth for onboarding state.
//
// Every mutation is a state transition plus an implicit persist. If the
// backing repository fails, the store degrades to in-memory state for that
// user's session rather than surfacing the failure — losing onboarding
// progress on restart is acceptable, blocking the flow is not. The
// degradation is logged once per user at Warn level.
//
// Flags are monotonic during an onboarding pass: the setters are only ever
// called with true by the step pages and Reset is an explicit user action.
// The one sanctioned regression is ClearAPIKeyFlags, which exists solely
// for the guard's self-heal.
type Store struct {
	repo   repository.OnboardingRepository
	logger *slog.Logger

	mu       sync.Mutex
	degraded map[string]model.OnboardingState // sessions running in-memory after a persistence failure
}

// NewStore creates a Store over the given repository.
func NewStore(repo repository.OnboardingRepository, logger *slog.Logger) *Store {
	return &Store{
		repo:     repo,
		logger:   logger,
		degraded: make(map[string]model.OnboardingState),
	}
}

// State returns the user's current onboarding state. A user with no record
// gets the zero state (all flags false). Read errors degrade to in-memory.
func (s *Store) State(ctx context.Context, userID string) model.OnboardingState {
	s.mu.Lock()
	if st, ok := s.degraded[userID]; ok {
		s.mu.Unlock()
		return st
	}
	s.mu.Unlock()

	st, err := s.repo.GetState(ctx, userID)
	if err != nil {
		s.degrade(userID, model.OnboardingState{}, "read", err)
		return model.OnboardingState{}
	}
	return st
}

// SetApiKeySubmitted records that the user went through the key-entry step.
func (s *Store) SetApiKeySubmitted(ctx context.Context, userID string, v bool) model.OnboardingState {
	return s.mutate(ctx, userID, func(st *model.OnboardingState) {
		st.ApiKeySubmitted = v
	})
}

// SetResumeUploaded records that the user went through the resume step
// (upload or skip — both count).
func (s *Store) SetResumeUploaded(ctx context.Context, userID string, v bool) model.OnboardingState {
	return s.mutate(ctx, userID, func(st *model.OnboardingState) {
		st.ResumeUploaded = v
	})
}

// SetLinkedinEnabled records that the user went through the LinkedIn step.
func (s *Store) SetLinkedinEnabled(ctx context.Context, userID string, v bool) model.OnboardingState {
	return s.mutate(ctx, userID, func(st *model.OnboardingState) {
		st.LinkedinEnabled = v
	})
}

// CompleteOnboarding sets the terminal flag. It refuses when the api-key
// step was never passed — OnboardingComplete must imply ApiKeySubmitted at
// the moment completion is requested.
func (s *Store) CompleteOnboarding(ctx context.Context, userID string) (model.OnboardingState, error) {
	current := s.State(ctx, userID)
	if !current.ApiKeySubmitted {
		return current, apperror.Conflict("onboarding", "api key step not completed")
	}
	return s.mutate(ctx, userID, func(st *model.OnboardingState) {
		st.OnboardingComplete = true
	}), nil
}

// ResetOnboarding clears every flag back to the initial record. Used by
// the explicit reset action, never implicitly.
func (s *Store) ResetOnboarding(ctx context.Context, userID string) model.OnboardingState {
	return s.mutate(ctx, userID, func(st *model.OnboardingState) {
		*st = model.OnboardingState{}
	})
}

// ClearAPIKeyFlags is the self-heal regression: it resets ApiKeySubmitted
// and OnboardingComplete after the oracle reports no key stored, so the
// key-entry step becomes reachable again. Only the guard calls this.
func (s *Store) ClearAPIKeyFlags(ctx context.Context, userID string) model.OnboardingState {
	return s.mutate(ctx, userID, func(st *model.OnboardingState) {
		st.ApiKeySubmitted = false
		st.OnboardingComplete = false
	})
}

// mutate applies fn to the current state and persists the result.
// Mutations cannot fail from the caller's point of view: a persistence
// error moves the user's session to in-memory state.
func (s *Store) mutate(ctx context.Context, userID string, fn func(*model.OnboardingState)) model.OnboardingState {
	s.mu.Lock()
	if st, ok := s.degraded[userID]; ok {
		fn(&st)
		s.degraded[userID] = st
		s.mu.Unlock()
		return st
	}
	s.mu.Unlock()

	st, err := s.repo.GetState(ctx, userID)
	if err != nil {
		st = model.OnboardingState{}
		fn(&st)
		s.degrade(userID, st, "read", err)
		return st
	}

	fn(&st)
	if err := s.repo.SaveState(ctx, userID, st); err != nil {
		s.degrade(userID, st, "write", err)
	}
	return st
}

// degrade switches a user's session to in-memory state after a
// persistence failure. Logged once — the map check keeps later mutations
// quiet.
func (s *Store) degrade(userID string, st model.OnboardingState, op string, err error) {
	s.mu.Lock()
	_, already := s.degraded[userID]
	s.degraded[userID] = st
	s.mu.Unlock()

	if !already {
		s.logger.Warn("onboarding state persistence unavailable, continuing in memory",
			slog.String("userID", userID),
			slog.String("op", op),
			slog.String("error", fmt.Sprintf("%v", err)),
		)
	}
}
