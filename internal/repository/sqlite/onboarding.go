package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// compile-time check that *DB implements repository.OnboardingRepository
var _ repository.OnboardingRepository = (*DB)(nil)

// GetState returns a user's onboarding state. A user with no row yet gets
// the zero state, not an error — "never onboarded" is a normal condition.
func (db *DB) GetState(ctx context.Context, userID string) (model.OnboardingState, error) {
	var st model.OnboardingState

	err := db.conn.QueryRowContext(ctx,
		`SELECT api_key_submitted, resume_uploaded, linkedin_enabled, onboarding_complete
		 FROM onboarding_states WHERE user_id = ?`,
		userID,
	).Scan(
		&st.ApiKeySubmitted,
		&st.ResumeUploaded,
		&st.LinkedinEnabled,
		&st.OnboardingComplete,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.OnboardingState{}, nil
		}
		return model.OnboardingState{}, fmt.Errorf("sqlite: getting onboarding state for %s: %w", userID, err)
	}

	return st, nil
}

// SaveState writes the full state for a user, creating the row on first
// write. The upsert keys on user_id, so the write is a single statement.
func (db *DB) SaveState(ctx context.Context, userID string, state model.OnboardingState) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO onboarding_states (user_id, api_key_submitted, resume_uploaded, linkedin_enabled, onboarding_complete, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			api_key_submitted   = excluded.api_key_submitted,
			resume_uploaded     = excluded.resume_uploaded,
			linkedin_enabled    = excluded.linkedin_enabled,
			onboarding_complete = excluded.onboarding_complete,
			updated_at          = excluded.updated_at`,
		userID,
		state.ApiKeySubmitted,
		state.ResumeUploaded,
		state.LinkedinEnabled,
		state.OnboardingComplete,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving onboarding state for %s: %w", userID, err)
	}
	return nil
}
