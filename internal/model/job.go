package model

import "time"

// Job stages. A saved job moves through these as the user progresses
// with an application.
const (
	StageSaved     = "saved"
	StageApplied   = "applied"
	StageInterview = "interview"
	StageOffer     = "offer"
	StageRejected  = "rejected"
)

// ValidStage reports whether s is one of the known job stages.
func ValidStage(s string) bool {
	switch s {
	case StageSaved, StageApplied, StageInterview, StageOffer, StageRejected:
		return true
	}
	return false
}

// JobPosting is the result of parsing a job URL — the details extracted
// from the posting before the user decides to save it.
type JobPosting struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Salary       string   `json:"salary,omitempty"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	URL          string   `json:"url"`
	PostedDate   string   `json:"postedDate,omitempty"`
}

// OutreachContent is the generated outreach bundle attached to a job:
// a cold email, a LinkedIn message, and resume tailoring suggestions.
type OutreachContent struct {
	ColdEmail         string   `json:"coldEmail"`
	LinkedinMessage   string   `json:"linkedinMessage"`
	ResumeSuggestions []string `json:"resumeSuggestions"`
}

// Job is a posting saved to a user's dashboard, tracked by stage.
type Job struct {
	ID               string           `json:"id"               db:"id"`
	UserID           string           `json:"userId"           db:"user_id"`
	Title            string           `json:"title"            db:"title"`
	Company          string           `json:"company"          db:"company"`
	Location         string           `json:"location"         db:"location"`
	Salary           string           `json:"salary,omitempty" db:"salary"`
	Description      string           `json:"description"      db:"description"`
	Requirements     []string         `json:"requirements"     db:"requirements"`
	URL              string           `json:"url"              db:"url"`
	Stage            string           `json:"stage"            db:"stage"`
	Notes            string           `json:"notes,omitempty"  db:"notes"`
	GeneratedContent *OutreachContent `json:"generatedContent,omitempty" db:"generated_content"`
	CreatedAt        time.Time        `json:"createdAt"        db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt"        db:"updated_at"`
}
