package repository

import (
	"context"

	"github.com/sakif/jobassist/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// SetAPIKey stores the encrypted API key ("" deletes it).
	SetAPIKey(ctx context.Context, userID, encrypted string) error
	SetLinkedinEnabled(ctx context.Context, userID string, enabled bool) error
	CountLinkedinEnabled(ctx context.Context) (int, error)
}

// OnboardingRepository persists one OnboardingState record per user.
// GetState returns the zero state (all flags false) when no record exists.
type OnboardingRepository interface {
	GetState(ctx context.Context, userID string) (model.OnboardingState, error)
	SaveState(ctx context.Context, userID string, state model.OnboardingState) error
}

type ListJobsOptions struct {
	Stage string // filter to one stage; "" means all
	Limit int
}

type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, userID string, opts ListJobsOptions) ([]model.Job, error)
	UpdateJobStage(ctx context.Context, id, stage string) error
	// SetJobContent attaches generated outreach content to a job
	// (nil clears it).
	SetJobContent(ctx context.Context, id string, content *model.OutreachContent) error
	DeleteJob(ctx context.Context, id string) error
}

type ResumeRepository interface {
	CreateResume(ctx context.Context, resume *model.Resume) error
	// GetLatestResume returns the most recently uploaded resume for a user.
	GetLatestResume(ctx context.Context, userID string) (*model.Resume, error)
}
