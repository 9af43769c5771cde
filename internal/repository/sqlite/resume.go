package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// compile-time check that *DB implements repository.ResumeRepository
var _ repository.ResumeRepository = (*DB)(nil)

// CreateResume stores an uploaded resume's metadata and parsed fields.
// The file bytes themselves are not kept, only what was extracted.
func (db *DB) CreateResume(ctx context.Context, resume *model.Resume) error {
	resume.ID = xid.New().String()
	resume.CreatedAt = time.Now()

	parsed, err := json.Marshal(resume.Parsed)
	if err != nil {
		return fmt.Errorf("sqlite: encoding parsed resume: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, filename, file_size, parsed_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		resume.ID,
		resume.UserID,
		resume.Filename,
		resume.FileSize,
		string(parsed),
		resume.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting resume for user %s: %w", resume.UserID, err)
	}
	return nil
}

// GetLatestResume returns the user's most recent upload.
func (db *DB) GetLatestResume(ctx context.Context, userID string) (*model.Resume, error) {
	var (
		r      model.Resume
		parsed string
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, filename, file_size, parsed_data, created_at
		 FROM resumes WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		userID,
	).Scan(
		&r.ID,
		&r.UserID,
		&r.Filename,
		&r.FileSize,
		&parsed,
		&r.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("resume", userID)
		}
		return nil, fmt.Errorf("sqlite: getting latest resume for %s: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(parsed), &r.Parsed); err != nil {
		return nil, fmt.Errorf("sqlite: decoding parsed resume %s: %w", r.ID, err)
	}
	return &r, nil
}
