package handler

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/sakif/jobassist/internal/repository"
)

// Pinger is the slice of the database the features and health endpoints
// need: just connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// featuresResponse reports which product features this deployment can
// actually serve, so the frontend can hide dead surfaces.
type featuresResponse struct {
	AI          bool   `json:"ai"`
	Email       bool   `json:"email"`
	Linkedin    bool   `json:"linkedin"`
	Database    bool   `json:"database"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// FeaturesHandler serves GET /api/features.
type FeaturesHandler struct {
	users       repository.UserRepository
	db          Pinger
	version     string
	environment string
	logger      *slog.Logger
}

func NewFeaturesHandler(users repository.UserRepository, db Pinger, version, environment string, logger *slog.Logger) *FeaturesHandler {
	return &FeaturesHandler{
		users:       users,
		db:          db,
		version:     version,
		environment: environment,
		logger:      logger,
	}
}

// Features reports deployment-level availability. Per-user state (a
// stored key) doesn't belong here; this is about what the server can do.
func (h *FeaturesHandler) Features(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbOK := h.db.Ping(ctx) == nil

	linkedinUsers := 0
	if n, err := h.users.CountLinkedinEnabled(ctx); err == nil {
		linkedinUsers = n
	}

	writeJSON(w, http.StatusOK, featuresResponse{
		AI:          os.Getenv("OPENAI_API_KEY") != "",
		Email:       os.Getenv("SMTP_HOST") != "" || os.Getenv("GMAIL_CLIENT_ID") != "",
		Linkedin:    linkedinUsers > 0,
		Database:    dbOK,
		Version:     h.version,
		Environment: h.environment,
	})
}
