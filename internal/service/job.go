package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

const (
	DefaultJobListLimit = 50
	MaxJobListLimit     = 200
)

// JobService parses job postings and manages the user's saved-job pipeline.
//
// Parsing is a simulation: real scraping needs browser automation, which
// is out of scope, so ParseJobURL fabricates a plausible posting keyed off
// the URL's hostname. The rest of the pipeline (save, list, stage moves)
// is fully real.
type JobService struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewJobService(jobs repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, logger: logger}
}

// ParseJobURL validates the URL and returns the posting details "scraped"
// from it.
func (s *JobService) ParseJobURL(ctx context.Context, rawURL string) (*model.JobPosting, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, apperror.ValidationFailed("url", "not a valid job posting URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, apperror.ValidationFailed("url", "job posting URL must be http or https")
	}

	if !strings.Contains(strings.ToLower(parsed.Host), "linkedin.com") {
		s.logger.Warn("non-linkedin job URL submitted", slog.String("host", parsed.Host))
	}

	posting := mockPosting(rawURL)
	s.logger.Info("parsed job posting",
		slog.String("title", posting.Title),
		slog.String("company", posting.Company),
	)
	return posting, nil
}

// mockPosting fabricates posting details from the URL. Matching the whole
// URL rather than just the host keeps company slugs in the path working
// (e.g. linkedin.com/jobs/view/...-at-google-...).
func mockPosting(rawURL string) *model.JobPosting {
	company := "TechCorp Inc."
	title := "Senior Frontend Engineer"

	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, "microsoft"):
		company, title = "Microsoft", "Software Engineer"
	case strings.Contains(lower, "google"):
		company, title = "Google", "Software Developer"
	case strings.Contains(lower, "meta"):
		company, title = "Meta", "Frontend Engineer"
	}

	return &model.JobPosting{
		Title:    title,
		Company:  company,
		Location: "San Francisco, CA (Remote)",
		Salary:   "$140k - $180k",
		Description: fmt.Sprintf(
			"Join %s as a %s and help build amazing products that impact millions of users. "+
				"We're looking for passionate developers with strong technical skills and a collaborative mindset.",
			company, title),
		Requirements: []string{"React", "TypeScript", "5+ years experience", "System design", "Testing"},
		URL:          rawURL,
		PostedDate:   "2 days ago",
	}
}

// SaveJob adds a posting to the user's dashboard in the initial stage.
func (s *JobService) SaveJob(ctx context.Context, userID string, posting model.JobPosting) (*model.Job, error) {
	if strings.TrimSpace(posting.Title) == "" {
		return nil, apperror.ValidationFailed("title", "job title is required")
	}
	if strings.TrimSpace(posting.Company) == "" {
		return nil, apperror.ValidationFailed("company", "company is required")
	}

	job := &model.Job{
		UserID:       userID,
		Title:        posting.Title,
		Company:      posting.Company,
		Location:     posting.Location,
		Salary:       posting.Salary,
		Description:  posting.Description,
		Requirements: posting.Requirements,
		URL:          posting.URL,
		Stage:        model.StageSaved,
	}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("job saved",
		slog.String("userID", userID),
		slog.String("jobID", job.ID),
	)
	return job, nil
}

// ListJobs returns the user's saved jobs, optionally filtered by stage.
func (s *JobService) ListJobs(ctx context.Context, userID, stage string, limit int) ([]model.Job, error) {
	if stage != "" && !model.ValidStage(stage) {
		return nil, apperror.ValidationFailed("stage", "unknown job stage")
	}
	if limit <= 0 {
		limit = DefaultJobListLimit
	}
	if limit > MaxJobListLimit {
		limit = MaxJobListLimit
	}
	return s.jobs.ListJobs(ctx, userID, repository.ListJobsOptions{Stage: stage, Limit: limit})
}

// UpdateStage moves a job through the pipeline. Ownership is enforced:
// a user can only move their own jobs.
func (s *JobService) UpdateStage(ctx context.Context, userID, jobID, stage string) (*model.Job, error) {
	if !model.ValidStage(stage) {
		return nil, apperror.ValidationFailed("stage", "unknown job stage")
	}

	job, err := s.getOwned(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.UpdateJobStage(ctx, job.ID, stage); err != nil {
		return nil, err
	}
	job.Stage = stage
	return job, nil
}

// DeleteJob removes a saved job from the user's dashboard.
func (s *JobService) DeleteJob(ctx context.Context, userID, jobID string) error {
	job, err := s.getOwned(ctx, userID, jobID)
	if err != nil {
		return err
	}
	return s.jobs.DeleteJob(ctx, job.ID)
}

// getOwned fetches a job and verifies it belongs to the user. A foreign
// job answers not-found, not forbidden, so job IDs can't be probed.
func (s *JobService) getOwned(ctx context.Context, userID, jobID string) (*model.Job, error) {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, apperror.NotFound("job", jobID)
	}
	return job, nil
}
