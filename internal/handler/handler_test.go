package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sakif/jobassist/internal/auth"
	"github.com/sakif/jobassist/internal/handler"
	"github.com/sakif/jobassist/internal/model"
	"github.com/sakif/jobassist/internal/onboarding"
	"github.com/sakif/jobassist/internal/repository/sqlite"
	"github.com/sakif/jobassist/internal/secret"
	"github.com/sakif/jobassist/internal/service"
)

// testEnv wires the full stack over an in-memory database: real services,
// real repositories, no HTTP server. Handlers are exercised directly with
// httptest, with the authenticated user injected into the request context
// the way the auth middleware would.
type testEnv struct {
	db         *sqlite.DB
	auths      *service.AuthService
	keys       *service.APIKeyService
	jobs       *service.JobService
	outreach   *service.OutreachService
	resumes    *service.ResumeService
	linkedin   *service.LinkedInService
	onboarding *onboarding.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-32-bytes-long!!")
	if err != nil {
		t.Fatal(err)
	}
	encKey, err := secret.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	cipher, err := secret.NewCipher(encKey)
	if err != nil {
		t.Fatal(err)
	}

	keys := service.NewAPIKeyService(db, cipher, logger)
	jobs := service.NewJobService(db, logger)
	return &testEnv{
		db:         db,
		auths:      service.NewAuthService(db, auth.NewPasswordServiceForTest(4), tokens, logger),
		keys:       keys,
		jobs:       jobs,
		outreach:   service.NewOutreachService(keys, db, logger),
		resumes:    service.NewResumeService(db, 0, logger),
		linkedin:   service.NewLinkedInService(db, nil, logger),
		onboarding: onboarding.NewStore(db, logger),
	}
}

func (e *testEnv) logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// register creates a user directly through the service and returns its ID.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	user, _, err := e.auths.Register(context.Background(), email, "Test User", "hunter2hunter2")
	if err != nil {
		t.Fatalf("registering test user: %v", err)
	}
	return user.ID
}

// request builds a JSON request authenticated as userID ("" for anonymous).
func request(method, target, userID string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
	return out
}

// mustState reads the user's onboarding state through the store.
func (e *testEnv) mustState(t *testing.T, userID string) model.OnboardingState {
	t.Helper()
	return e.onboarding.State(context.Background(), userID)
}

func assertErrorType(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantType string) {
	t.Helper()
	if rr.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, wantStatus, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), wantType) {
		t.Fatalf("body %q missing error type %q", rr.Body.String(), wantType)
	}
}

func newHandlers(e *testEnv) (*handler.AuthHandler, *handler.APIKeyHandler, *handler.OnboardingHandler, *handler.JobHandler, *handler.ResumeHandler, *handler.LinkedInHandler) {
	logger := e.logger()
	return handler.NewAuthHandler(e.auths, logger),
		handler.NewAPIKeyHandler(e.keys, e.onboarding, logger),
		handler.NewOnboardingHandler(e.onboarding, logger),
		handler.NewJobHandler(e.jobs, e.outreach, logger),
		handler.NewResumeHandler(e.resumes, e.onboarding, logger),
		handler.NewLinkedInHandler(e.linkedin, e.onboarding, logger)
}
