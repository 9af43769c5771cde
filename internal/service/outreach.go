package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/repository"
)

// OutreachService generates the outreach bundle (cold email, LinkedIn
// message, resume suggestions) for a job.
//
// Generation is templated, not a real model call, but the feature still
// requires a stored API key: the product gates every "AI" surface behind
// the key the user configured, and enforcing that here keeps the mock and
// a future real implementation behaviorally identical.
type OutreachService struct {
	keys   *APIKeyService
	jobs   repository.JobRepository
	logger *slog.Logger
}

func NewOutreachService(keys *APIKeyService, jobs repository.JobRepository, logger *slog.Logger) *OutreachService {
	return &OutreachService{keys: keys, jobs: jobs, logger: logger}
}

// Generate produces outreach content for a job title/company pair.
func (s *OutreachService) Generate(ctx context.Context, userID, jobTitle, company, description string) (*model.OutreachContent, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	company = strings.TrimSpace(company)
	if jobTitle == "" {
		return nil, apperror.ValidationFailed("job_title", "job title is required")
	}
	if company == "" {
		return nil, apperror.ValidationFailed("company", "company is required")
	}

	if _, err := s.keys.RequireKey(ctx, userID); err != nil {
		return nil, err
	}

	content := renderOutreach(jobTitle, company)
	s.logger.Info("generated outreach content",
		slog.String("userID", userID),
		slog.String("company", company),
	)
	return content, nil
}

// GenerateForJob generates content for a saved job and persists it on the
// job record, so the dashboard can re-show it without regenerating.
func (s *OutreachService) GenerateForJob(ctx context.Context, userID, jobID string) (*model.OutreachContent, error) {
	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, apperror.NotFound("job", jobID)
	}

	content, err := s.Generate(ctx, userID, job.Title, job.Company, job.Description)
	if err != nil {
		return nil, err
	}
	if err := s.jobs.SetJobContent(ctx, job.ID, content); err != nil {
		return nil, err
	}
	return content, nil
}

func renderOutreach(jobTitle, company string) *model.OutreachContent {
	coldEmail := fmt.Sprintf(`Subject: Excited about the %[1]s opportunity at %[2]s

Hi [Hiring Manager],

I hope this email finds you well. I came across the %[1]s position at %[2]s and I'm genuinely excited about the opportunity to contribute to your team.

With my background in frontend development and experience with React and TypeScript, I believe I would be a strong fit for this role. I'm particularly drawn to %[2]s's mission and innovative approach to technology.

I would love to discuss how my skills and passion could help drive your team's objectives forward. Would you be available for a brief conversation about this position?

Thank you for your time and consideration.

Best regards,
[Your Name]`, jobTitle, company)

	linkedinMessage := fmt.Sprintf(`Hi [Name],

I noticed the %[1]s opening at %[2]s and was impressed by the role's focus on cutting-edge technology. My experience with React and TypeScript aligns well with your requirements.

Would you be open to a brief chat about the position and %[2]s's engineering culture?

Best,
[Your Name]`, jobTitle, company)

	return &model.OutreachContent{
		ColdEmail:       coldEmail,
		LinkedinMessage: linkedinMessage,
		ResumeSuggestions: []string{
			fmt.Sprintf("Highlight experience relevant to %s role", jobTitle),
			"Emphasize React and TypeScript projects prominently",
			"Include specific metrics and achievements",
			fmt.Sprintf("Mention any experience with %s's tech stack", company),
			"Add system design and scalability examples",
		},
	}
}
