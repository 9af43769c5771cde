package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/auth"
	"github.com/sakif/jobassist/internal/onboarding"
	"github.com/sakif/jobassist/internal/service"
)

// APIKeyHandler serves key storage, status, rotation, and deletion.
//
// Storing a key also marks the api-key onboarding step done — the step
// page's submit is this endpoint, so the flag rides along instead of
// requiring a second call.
type APIKeyHandler struct {
	keys       *service.APIKeyService
	onboarding *onboarding.Store
	logger     *slog.Logger
}

func NewAPIKeyHandler(keys *service.APIKeyService, onboardingStore *onboarding.Store, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{keys: keys, onboarding: onboardingStore, logger: logger}
}

type storeKeyRequest struct {
	APIKey string `json:"api_key"`
}

func requireUserID(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", apperror.Unauthorized("authentication required")
	}
	return userID, nil
}

// Store handles POST /api/store-api-key.
func (h *APIKeyHandler) Store(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req storeKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.keys.Store(r.Context(), userID, req.APIKey); err != nil {
		writeError(w, err)
		return
	}
	h.onboarding.SetApiKeySubmitted(r.Context(), userID, true)

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Status handles GET /api/api-key-status. This is the endpoint the
// onboarding guard's oracle consults.
func (h *APIKeyHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	status, err := h.keys.Status(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Rotate handles POST /api/rotate-api-key.
func (h *APIKeyHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	var req storeKeyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.keys.Rotate(r.Context(), userID, req.APIKey); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete handles DELETE /api/api-key. Onboarding flags are not touched
// here; the guard's self-heal repairs them on the next page load.
func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.keys.Delete(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
