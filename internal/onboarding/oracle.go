package onboarding

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/jobassist/internal/repository"
)

// KeyOracle answers "does this user currently have a usable API key stored
// server-side?" — independent of whatever the cached onboarding flags
// claim.
//
// FAIL-CLOSED: implementations must return false on any failure. It is
// safer to re-ask the user for a key than to let them into AI features
// with none configured.
type KeyOracle interface {
	HasAPIKey(ctx context.Context, userID string) bool
}

// defaultOracleTimeout bounds the remote check so the guard's self-heal
// can never hang a page load indefinitely. Timeout counts as "no key".
const defaultOracleTimeout = 3 * time.Second

// HTTPOracle asks a remote api-key-status endpoint. Used when the guard
// runs in a different process from the API (e.g. an edge gateway).
type HTTPOracle struct {
	client  *http.Client
	url     string
	logger  *slog.Logger
	timeout time.Duration
	// bearerToken returns the Authorization bearer value for a user's
	// check, or "" when the endpoint is called unauthenticated.
	bearerToken func(userID string) string
}

// NewHTTPOracle creates an oracle client for the given status URL.
// A zero timeout selects the default (3s). tokenFn may be nil.
func NewHTTPOracle(url string, timeout time.Duration, tokenFn func(userID string) string, logger *slog.Logger) *HTTPOracle {
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &HTTPOracle{
		client:      &http.Client{Timeout: timeout},
		url:         url,
		logger:      logger,
		timeout:     timeout,
		bearerToken: tokenFn,
	}
}

// keyStatusResponse is the endpoint's wire shape.
type keyStatusResponse struct {
	HasAPIKey bool `json:"has_api_key"`
}

// HasAPIKey performs one GET against the status endpoint. Transport
// errors, timeouts, non-2xx responses, and malformed bodies are all
// treated as "no key".
func (o *HTTPOracle) HasAPIKey(ctx context.Context, userID string) bool {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url, nil)
	if err != nil {
		o.logger.Warn("oracle: building request", slog.String("error", err.Error()))
		return false
	}
	if o.bearerToken != nil {
		if tok := o.bearerToken(userID); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := o.client.Do(req)
	if err != nil {
		o.logger.Warn("oracle: key status check failed, treating as absent",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		o.logger.Warn("oracle: key status check returned non-2xx, treating as absent",
			slog.String("userID", userID),
			slog.Int("status", resp.StatusCode),
		)
		return false
	}

	var body keyStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		o.logger.Warn("oracle: decoding key status response", slog.String("error", err.Error()))
		return false
	}
	return body.HasAPIKey
}

// RepositoryOracle answers from the user table directly. This is the
// wiring used when the guard and the API share a process — same answer as
// the HTTP endpoint, no loopback request.
type RepositoryOracle struct {
	users repository.UserRepository
}

func NewRepositoryOracle(users repository.UserRepository) *RepositoryOracle {
	return &RepositoryOracle{users: users}
}

func (o *RepositoryOracle) HasAPIKey(ctx context.Context, userID string) bool {
	user, err := o.users.GetUserByID(ctx, userID)
	if err != nil {
		return false // fail-closed, including "user not found"
	}
	return user.HasAPIKey()
}
