package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/service"
)

// JobHandler serves job parsing, saving, listing, stage moves, and the
// outreach generator.
type JobHandler struct {
	jobs     *service.JobService
	outreach *service.OutreachService
	logger   *slog.Logger
}

func NewJobHandler(jobs *service.JobService, outreach *service.OutreachService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, outreach: outreach, logger: logger}
}

type parseJobRequest struct {
	URL string `json:"url"`
}

type parseJobResponse struct {
	Success bool              `json:"success"`
	JobData *model.JobPosting `json:"job_data"`
}

// Parse handles POST /api/job: extract posting details from a URL.
func (h *JobHandler) Parse(w http.ResponseWriter, r *http.Request) {
	if _, err := requireUserID(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	var req parseJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	posting, err := h.jobs.ParseJobURL(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, parseJobResponse{Success: true, JobData: posting})
}

// Save handles POST /api/job/save: add a posting to the dashboard.
func (h *JobHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var posting model.JobPosting
	if err := decodeJSON(r, &posting); err != nil {
		writeError(w, err)
		return
	}

	job, err := h.jobs.SaveJob(r.Context(), userID, posting)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

type listJobsResponse struct {
	Jobs  []model.Job `json:"jobs"`
	Count int         `json:"count"`
}

// List handles GET /api/jobs?stage=&limit=.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw) // bad input falls back to the default
	}

	jobs, err := h.jobs.ListJobs(r.Context(), userID, r.URL.Query().Get("stage"), limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listJobsResponse{Jobs: jobs, Count: len(jobs)})
}

type updateStageRequest struct {
	Stage string `json:"stage"`
}

// UpdateStage handles PATCH /api/jobs/{id}/stage.
func (h *JobHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateStageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	job, err := h.jobs.UpdateStage(r.Context(), userID, chi.URLParam(r, "id"), req.Stage)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.jobs.DeleteJob(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type outreachRequest struct {
	JobID          string `json:"job_id,omitempty"`
	JobTitle       string `json:"job_title"`
	Company        string `json:"company"`
	JobDescription string `json:"job_description"`
}

// GenerateOutreach handles POST /api/generate-outreach. With a job_id the
// content is generated from the saved job and persisted on it; otherwise
// it's generated ad hoc from the submitted title and company.
func (h *JobHandler) GenerateOutreach(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req outreachRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var content *model.OutreachContent
	if req.JobID != "" {
		content, err = h.outreach.GenerateForJob(r.Context(), userID, req.JobID)
	} else {
		content, err = h.outreach.Generate(r.Context(), userID, req.JobTitle, req.Company, req.JobDescription)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, content)
}
