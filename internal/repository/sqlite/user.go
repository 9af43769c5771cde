package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user. Emails are unique; inserting a duplicate
// returns apperror.ErrConflict so the handler can answer 409 instead of 500.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, api_key_encrypted, linkedin_enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.APIKeyEncrypted,
		user.LinkedinEnabled,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// The driver has no typed unique-violation error, so match the text.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return apperror.Conflict("user", "email already registered")
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by email (the login identifier).
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getUser(ctx, `WHERE email = ?`, email)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, api_key_encrypted, linkedin_enabled, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.APIKeyEncrypted,
		&u.LinkedinEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprintf("%v", arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// SetAPIKey stores the encrypted API key for a user. An empty string
// deletes the stored key.
func (db *DB) SetAPIKey(ctx context.Context, userID, encrypted string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET api_key_encrypted = ?, updated_at = ? WHERE id = ?`,
		encrypted, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting api key for user %s: %w", userID, err)
	}
	return requireRowAffected(res, "user", userID)
}

// SetLinkedinEnabled flips the LinkedIn automation flag for a user.
func (db *DB) SetLinkedinEnabled(ctx context.Context, userID string, enabled bool) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET linkedin_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting linkedin flag for user %s: %w", userID, err)
	}
	return requireRowAffected(res, "user", userID)
}

// CountLinkedinEnabled returns how many users have LinkedIn automation on.
func (db *DB) CountLinkedinEnabled(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE linkedin_enabled = 1`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting linkedin users: %w", err)
	}
	return n, nil
}

// requireRowAffected turns an UPDATE/DELETE that touched nothing into a
// not-found error, so callers never silently no-op on a bad ID.
func requireRowAffected(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
