package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// Hand-written in-memory mocks shared by the service tests. They
// implement the same repository interfaces as the sqlite package, so the
// services under test can't tell the difference.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---- users ----

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
	err    error // when set, every method fails with it
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", "email already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) SetAPIKey(_ context.Context, userID, encrypted string) error {
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.APIKeyEncrypted = encrypted
	return nil
}

func (m *mockUserRepo) SetLinkedinEnabled(_ context.Context, userID string, enabled bool) error {
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	u.LinkedinEnabled = enabled
	return nil
}

func (m *mockUserRepo) CountLinkedinEnabled(context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for _, u := range m.users {
		if u.LinkedinEnabled {
			n++
		}
	}
	return n, nil
}

// ---- jobs ----

type mockJobRepo struct {
	jobs   map[string]*model.Job
	nextID int
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (m *mockJobRepo) CreateJob(_ context.Context, job *model.Job) error {
	m.nextID++
	job.ID = fmt.Sprintf("job-%d", m.nextID)
	if job.Stage == "" {
		job.Stage = model.StageSaved
	}
	stored := *job
	m.jobs[job.ID] = &stored
	return nil
}

func (m *mockJobRepo) GetJobByID(_ context.Context, id string) (*model.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job", id)
	}
	result := *j
	return &result, nil
}

func (m *mockJobRepo) ListJobs(_ context.Context, userID string, opts repository.ListJobsOptions) ([]model.Job, error) {
	var out []model.Job
	for _, j := range m.jobs {
		if j.UserID != userID {
			continue
		}
		if opts.Stage != "" && j.Stage != opts.Stage {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID > out[k].ID })
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *mockJobRepo) UpdateJobStage(_ context.Context, id, stage string) error {
	j, ok := m.jobs[id]
	if !ok {
		return apperror.NotFound("job", id)
	}
	j.Stage = stage
	return nil
}

func (m *mockJobRepo) SetJobContent(_ context.Context, id string, content *model.OutreachContent) error {
	j, ok := m.jobs[id]
	if !ok {
		return apperror.NotFound("job", id)
	}
	j.GeneratedContent = content
	return nil
}

func (m *mockJobRepo) DeleteJob(_ context.Context, id string) error {
	if _, ok := m.jobs[id]; !ok {
		return apperror.NotFound("job", id)
	}
	delete(m.jobs, id)
	return nil
}

// ---- resumes ----

type mockResumeRepo struct {
	resumes []*model.Resume
	nextID  int
}

func newMockResumeRepo() *mockResumeRepo {
	return &mockResumeRepo{}
}

func (m *mockResumeRepo) CreateResume(_ context.Context, resume *model.Resume) error {
	m.nextID++
	resume.ID = fmt.Sprintf("resume-%d", m.nextID)
	stored := *resume
	m.resumes = append(m.resumes, &stored)
	return nil
}

func (m *mockResumeRepo) GetLatestResume(_ context.Context, userID string) (*model.Resume, error) {
	for i := len(m.resumes) - 1; i >= 0; i-- {
		if m.resumes[i].UserID == userID {
			result := *m.resumes[i]
			return &result, nil
		}
	}
	return nil, apperror.NotFound("resume", userID)
}
