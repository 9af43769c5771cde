package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/onboarding"
	"github.com/sakif/jobassist/internal/service"
)

// ResumeHandler serves resume upload and retrieval. A successful upload
// also marks the resume onboarding step done.
type ResumeHandler struct {
	resumes    *service.ResumeService
	onboarding *onboarding.Store
	logger     *slog.Logger
}

func NewResumeHandler(resumes *service.ResumeService, onboardingStore *onboarding.Store, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{resumes: resumes, onboarding: onboardingStore, logger: logger}
}

type resumeUploadResponse struct {
	Success    bool               `json:"success"`
	ParsedData model.ParsedResume `json:"parsed_data"`
	Message    string             `json:"message"`
}

// Upload handles POST /api/resume/upload (multipart, field name "resume").
func (h *ResumeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	// The byte cap applies to the whole request, enforced while reading.
	r.Body = http.MaxBytesReader(w, r.Body, h.resumes.MaxBytes()+4096)

	file, header, err := r.FormFile("resume")
	if err != nil {
		writeError(w, apperror.ValidationFailed("resume", "multipart file field 'resume' is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperror.ValidationFailed("resume", "could not read uploaded file"))
		return
	}

	resume, err := h.resumes.Upload(r.Context(), userID, header.Filename, content)
	if err != nil {
		writeError(w, err)
		return
	}
	h.onboarding.SetResumeUploaded(r.Context(), userID, true)

	writeJSON(w, http.StatusOK, resumeUploadResponse{
		Success:    true,
		ParsedData: resume.Parsed,
		Message:    "Resume parsed successfully",
	})
}

// Latest handles GET /api/resume/latest. Answers 200 with null when the
// user never uploaded one — the step is skippable, so that's not an error.
func (h *ResumeHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resume, err := h.resumes.Latest(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"resume": resume})
}
