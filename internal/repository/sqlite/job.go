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

// compile-time check that *DB implements repository.JobRepository
var _ repository.JobRepository = (*DB)(nil)

// CreateJob inserts a saved job for a user. Requirements and any generated
// outreach content are serialized to JSON text columns.
func (db *DB) CreateJob(ctx context.Context, job *model.Job) error {
	now := time.Now()
	job.ID = xid.New().String()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.Stage == "" {
		job.Stage = model.StageSaved
	}

	reqs, err := json.Marshal(job.Requirements)
	if err != nil {
		return fmt.Errorf("sqlite: encoding requirements: %w", err)
	}
	content, err := encodeContent(job.GeneratedContent)
	if err != nil {
		return err
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, user_id, title, company, location, salary, description, requirements, url, stage, notes, generated_content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.UserID,
		job.Title,
		job.Company,
		job.Location,
		job.Salary,
		job.Description,
		string(reqs),
		job.URL,
		job.Stage,
		job.Notes,
		content,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting job for user %s: %w", job.UserID, err)
	}
	return nil
}

// GetJobByID retrieves one saved job.
func (db *DB) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, company, location, salary, description, requirements, url, stage, notes, generated_content, created_at, updated_at
		 FROM jobs WHERE id = ?`,
		id,
	)

	job, err := scanJob(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}
	return job, nil
}

// ListJobs returns a user's saved jobs, newest first, optionally filtered
// to one stage and capped at opts.Limit.
func (db *DB) ListJobs(ctx context.Context, userID string, opts repository.ListJobsOptions) ([]model.Job, error) {
	query := `SELECT id, user_id, title, company, location, salary, description, requirements, url, stage, notes, generated_content, created_at, updated_at
		 FROM jobs WHERE user_id = ?`
	args := []any{userID}

	if opts.Stage != "" {
		query += ` AND stage = ?`
		args = append(args, opts.Stage)
	}
	query += ` ORDER BY created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs for user %s: %w", userID, err)
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, nil
}

// UpdateJobStage moves a job to a new pipeline stage.
func (db *DB) UpdateJobStage(ctx context.Context, id, stage string) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE jobs SET stage = ?, updated_at = ? WHERE id = ?`,
		stage, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating stage for job %s: %w", id, err)
	}
	return requireRowAffected(res, "job", id)
}

// DeleteJob removes a saved job.
func (db *DB) DeleteJob(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}
	return requireRowAffected(res, "job", id)
}

// scanJob reads one row into a model.Job, decoding the JSON columns.
// Taking the Scan func lets it work for both QueryRow and Rows.
func scanJob(scan func(...any) error) (*model.Job, error) {
	var (
		job     model.Job
		reqs    string
		content sql.NullString
	)

	err := scan(
		&job.ID,
		&job.UserID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Salary,
		&job.Description,
		&reqs,
		&job.URL,
		&job.Stage,
		&job.Notes,
		&content,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(reqs), &job.Requirements); err != nil {
		return nil, fmt.Errorf("decoding requirements for job %s: %w", job.ID, err)
	}
	if content.Valid && content.String != "" {
		var oc model.OutreachContent
		if err := json.Unmarshal([]byte(content.String), &oc); err != nil {
			return nil, fmt.Errorf("decoding generated content for job %s: %w", job.ID, err)
		}
		job.GeneratedContent = &oc
	}

	return &job, nil
}

func encodeContent(oc *model.OutreachContent) (sql.NullString, error) {
	if oc == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(oc)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("sqlite: encoding generated content: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// SetJobContent attaches generated outreach content to a job.
func (db *DB) SetJobContent(ctx context.Context, id string, oc *model.OutreachContent) error {
	content, err := encodeContent(oc)
	if err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx,
		`UPDATE jobs SET generated_content = ?, updated_at = ? WHERE id = ?`,
		content, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: setting content for job %s: %w", id, err)
	}
	return requireRowAffected(res, "job", id)
}
