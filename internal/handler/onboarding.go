package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/onboarding"
)

// OnboardingHandler exposes the onboarding state machine over HTTP: the
// state document, the per-step setters, completion, reset, and the
// forward-navigation resolver the step pages' Continue buttons use.
type OnboardingHandler struct {
	store  *onboarding.Store
	logger *slog.Logger
}

func NewOnboardingHandler(store *onboarding.Store, logger *slog.Logger) *OnboardingHandler {
	return &OnboardingHandler{store: store, logger: logger}
}

// State handles GET /api/onboarding/state.
func (h *OnboardingHandler) State(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.store.State(r.Context(), userID))
}

type stepDoneRequest struct {
	Done bool `json:"done"`
}

// stepSetter builds the handler for one step's setter endpoint. Skipping
// a step submits the same {"done": true} as finishing it — the flag
// records "went through the step", not "produced an artifact".
func (h *OnboardingHandler) stepSetter(set func(r *http.Request, userID string, v bool) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		var req stepDoneRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, set(r, userID, req.Done))
	}
}

// SetAPIKeySubmitted handles POST /api/onboarding/api-key-submitted.
func (h *OnboardingHandler) SetAPIKeySubmitted() http.HandlerFunc {
	return h.stepSetter(func(r *http.Request, userID string, v bool) any {
		return h.store.SetApiKeySubmitted(r.Context(), userID, v)
	})
}

// SetResumeUploaded handles POST /api/onboarding/resume-uploaded.
func (h *OnboardingHandler) SetResumeUploaded() http.HandlerFunc {
	return h.stepSetter(func(r *http.Request, userID string, v bool) any {
		return h.store.SetResumeUploaded(r.Context(), userID, v)
	})
}

// SetLinkedinEnabled handles POST /api/onboarding/linkedin-enabled.
func (h *OnboardingHandler) SetLinkedinEnabled() http.HandlerFunc {
	return h.stepSetter(func(r *http.Request, userID string, v bool) any {
		return h.store.SetLinkedinEnabled(r.Context(), userID, v)
	})
}

// Complete handles POST /api/onboarding/complete. Answers 409 when the
// api-key step was never passed.
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.store.CompleteOnboarding(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

// Reset handles POST /api/onboarding/reset.
func (h *OnboardingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.store.ResetOnboarding(r.Context(), userID))
}

type nextStepResponse struct {
	Next string `json:"next"`
}

// Next handles GET /api/onboarding/next?current=<path>. It answers where
// the Continue button on the given step page should lead — always
// forward, regardless of earlier unmet steps.
func (h *OnboardingHandler) Next(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	current := r.URL.Query().Get("current")
	if current != onboarding.PathDashboard && !onboarding.IsStepPath(current) {
		writeError(w, apperror.ValidationFailed("current", "unknown onboarding path"))
		return
	}

	state := h.store.State(r.Context(), userID)
	writeJSON(w, http.StatusOK, nextStepResponse{Next: onboarding.NextForwardStep(state, current)})
}
