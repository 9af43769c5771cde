package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jobassist/internal/onboarding"
	"github.com/sakif/jobassist/internal/service"
)

// LinkedInHandler serves the automation settings and the OAuth handshake.
// Toggling automation on also marks the LinkedIn onboarding step done.
type LinkedInHandler struct {
	linkedin   *service.LinkedInService
	onboarding *onboarding.Store
	logger     *slog.Logger
}

func NewLinkedInHandler(linkedin *service.LinkedInService, onboardingStore *onboarding.Store, logger *slog.Logger) *LinkedInHandler {
	return &LinkedInHandler{linkedin: linkedin, onboarding: onboardingStore, logger: logger}
}

type linkedinSettingsRequest struct {
	Enabled bool `json:"enabled"`
}

// Settings handles POST /api/linkedin-settings.
func (h *LinkedInHandler) Settings(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req linkedinSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.linkedin.SetEnabled(r.Context(), userID, req.Enabled); err != nil {
		writeError(w, err)
		return
	}
	// Going through the step counts either way; only enabling is recorded
	// as done because disabling is a settings action, not a step visit.
	if req.Enabled {
		h.onboarding.SetLinkedinEnabled(r.Context(), userID, true)
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "enabled": req.Enabled})
}

// Status handles GET /api/linkedin-status.
func (h *LinkedInHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := h.linkedin.Status(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

type authURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// AuthURL handles GET /api/linkedin/auth-url. 503 when the deployment has
// no LinkedIn OAuth credentials configured.
func (h *LinkedInHandler) AuthURL(w http.ResponseWriter, r *http.Request) {
	if _, err := requireUserID(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	url, state, err := h.linkedin.AuthURL()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authURLResponse{URL: url, State: state})
}

// Callback handles GET /api/linkedin/callback?code=.
func (h *LinkedInHandler) Callback(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.linkedin.HandleCallback(r.Context(), userID, r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.onboarding.SetLinkedinEnabled(r.Context(), userID, true)

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "profile": profile})
}
