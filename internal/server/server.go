// Package server is the composition root: it wires the database,
// services, handlers, and middleware into one chi router and owns the
// server lifecycle. All dependency injection happens here, so the rest
// of the codebase never constructs its own collaborators.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/jobassist/internal/auth"
	"github.com/sakif/jobassist/internal/config"
	"github.com/sakif/jobassist/internal/handler"
	"github.com/sakif/jobassist/internal/middleware"
	"github.com/sakif/jobassist/internal/onboarding"
	sqliteRepo "github.com/sakif/jobassist/internal/repository/sqlite"
	"github.com/sakif/jobassist/internal/secret"
	"github.com/sakif/jobassist/internal/service"
)

// Version is reported by /api/features.
const Version = "1.0.0"

// Secrets carries the credentials that never live in the config file.
type Secrets struct {
	JWTSecret     string
	EncryptionKey string

	LinkedInClientID     string
	LinkedInClientSecret string
	LinkedInCallbackURL  string
}

// Server owns the router, the database, and the shutdown sequence.
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and assembles the full dependency chain:
// repositories → services → handlers → routes. Each layer receives only
// the interfaces it needs.
func New(cfg config.Config, secrets Secrets, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.App.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(secrets); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes(secrets Secrets) error {
	tokens, err := auth.NewTokenService(secrets.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	cipher, err := secret.NewCipher(secrets.EncryptionKey)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	var linkedinProvider *auth.LinkedInProvider
	if secrets.LinkedInClientID != "" && secrets.LinkedInClientSecret != "" {
		linkedinProvider = auth.NewLinkedInProvider(
			secrets.LinkedInClientID,
			secrets.LinkedInClientSecret,
			secrets.LinkedInCallbackURL,
		)
	} else {
		s.logger.Warn("linkedin oauth credentials not set, oauth endpoints will answer 503")
	}

	// Services, all backed by the one sqlite.DB through its repository
	// interfaces.
	authService := service.NewAuthService(s.db, auth.NewPasswordService(), tokens, s.logger)
	keyService := service.NewAPIKeyService(s.db, cipher, s.logger)
	jobService := service.NewJobService(s.db, s.logger)
	outreachService := service.NewOutreachService(keyService, s.db, s.logger)
	resumeService := service.NewResumeService(s.db, s.cfg.Resume.MaxUploadBytes, s.logger)
	linkedinService := service.NewLinkedInService(s.db, linkedinProvider, s.logger)

	// Onboarding core. By default the oracle answers from the user table
	// directly, so the guard and the /api/api-key-status endpoint agree
	// by construction. A configured oracle_url swaps in the HTTP oracle
	// for deployments where key custody lives in another service.
	onboardingStore := onboarding.NewStore(s.db, s.logger)
	var oracle onboarding.KeyOracle = onboarding.NewRepositoryOracle(s.db)
	if s.cfg.Onboarding.OracleURL != "" {
		oracle = onboarding.NewHTTPOracle(
			s.cfg.Onboarding.OracleURL,
			time.Duration(s.cfg.Onboarding.OracleTimeoutSeconds)*time.Second,
			func(userID string) string {
				tok, err := tokens.Generate(userID)
				if err != nil {
					return ""
				}
				return tok
			},
			s.logger,
		)
	}
	guard := onboarding.NewGuard(onboardingStore, oracle, s.logger)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, s.logger)
	keyHandler := handler.NewAPIKeyHandler(keyService, onboardingStore, s.logger)
	onboardingHandler := handler.NewOnboardingHandler(onboardingStore, s.logger)
	jobHandler := handler.NewJobHandler(jobService, outreachService, s.logger)
	resumeHandler := handler.NewResumeHandler(resumeService, onboardingStore, s.logger)
	linkedinHandler := handler.NewLinkedInHandler(linkedinService, onboardingStore, s.logger)
	featuresHandler := handler.NewFeaturesHandler(s.db, s.db, Version, s.cfg.App.Environment, s.logger)

	// Global middleware, in execution order.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.HTTP.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Get("/health", s.handleHealth)

	limiter := middleware.NewClientLimiter(s.cfg.HTTP.RateLimitPerMinute)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Get("/", s.handleInfo)
		r.Get("/features", featuresHandler.Features)

		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Everything below requires a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.Me)

			r.Post("/store-api-key", keyHandler.Store)
			r.Get("/api-key-status", keyHandler.Status)
			r.Post("/rotate-api-key", keyHandler.Rotate)
			r.Delete("/api-key", keyHandler.Delete)

			r.Route("/onboarding", func(r chi.Router) {
				r.Get("/state", onboardingHandler.State)
				r.Get("/next", onboardingHandler.Next)
				r.Post("/api-key-submitted", onboardingHandler.SetAPIKeySubmitted())
				r.Post("/resume-uploaded", onboardingHandler.SetResumeUploaded())
				r.Post("/linkedin-enabled", onboardingHandler.SetLinkedinEnabled())
				r.Post("/complete", onboardingHandler.Complete)
				r.Post("/reset", onboardingHandler.Reset)
			})

			r.Post("/job", jobHandler.Parse)
			r.Post("/job/save", jobHandler.Save)
			r.Get("/jobs", jobHandler.List)
			r.Patch("/jobs/{id}/stage", jobHandler.UpdateStage)
			r.Delete("/jobs/{id}", jobHandler.Delete)
			r.Post("/generate-outreach", jobHandler.GenerateOutreach)

			r.Post("/resume/upload", resumeHandler.Upload)
			r.Get("/resume/latest", resumeHandler.Latest)

			r.Post("/linkedin-settings", linkedinHandler.Settings)
			r.Get("/linkedin-status", linkedinHandler.Status)
			r.Get("/linkedin/auth-url", linkedinHandler.AuthURL)
			r.Get("/linkedin/callback", linkedinHandler.Callback)
		})
	})

	// Page routes. The guard decides, per request, whether the user may
	// be where they are; OptionalAuth runs first so the guard sees who
	// they are. Anonymous users carry the zero state and land on the
	// first step.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(tokens))

		r.With(guard.OnboardingOnly()).Get(onboarding.PathAPIKeyStep, pageHandler("api-key-setup"))
		r.With(guard.OnboardingOnly()).Get(onboarding.PathResumeStep, pageHandler("resume-upload"))
		r.With(guard.OnboardingOnly()).Get(onboarding.PathLinkedinStep, pageHandler("linkedin-setup"))
		r.With(guard.Protected()).Get(onboarding.PathDashboard, pageHandler("dashboard"))
	})

	return nil
}

// pageHandler stands in for the SPA's server-rendered shell: it answers
// which page the client should mount. The redirect logic lives entirely
// in the guard, so these never run for a user who shouldn't be here.
func pageHandler(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"page":%q,"path":%q}`, page, r.URL.Path)
	}
}

// handleInfo answers GET /api with a small identity payload.
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"name":"jobassist","version":%q,"environment":%q}`, Version, s.cfg.App.Environment)
}

// handleHealth pings the database. 503 here tells the load balancer to
// pull the instance.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":"unhealthy"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

// Start runs the server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.App.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.Int("port", s.cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
