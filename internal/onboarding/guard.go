package onboarding

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sakif/jobassist/internal/auth"
	"github.com/sakif/jobassist/internal/model"
)

// Guard enforces the access invariant: a user may only be on a main-app
// route once onboarding is complete, and may only be on an onboarding
// route while it is not.
//
// The redirect decision itself is the pure function Decide; the Guard adds
// state reads and the one side-effect it owns exclusively — re-verifying a
// claimed completion against the key oracle and repairing stale state.
type Guard struct {
	store  *Store
	oracle KeyOracle
	logger *slog.Logger

	// sf collapses concurrent first requests for the same user into a
	// single oracle call; verified remembers who has been checked for the
	// lifetime of this Guard, so the check runs at most once per mount.
	sf       singleflight.Group
	mu       sync.Mutex
	verified map[string]struct{}
}

// NewGuard creates a Guard over the given store and oracle.
func NewGuard(store *Store, oracle KeyOracle, logger *slog.Logger) *Guard {
	return &Guard{
		store:    store,
		oracle:   oracle,
		logger:   logger,
		verified: make(map[string]struct{}),
	}
}

// Decide computes the redirect for a (state, path) pair.
//
// Rules, in order:
//  1. On an onboarding step path with onboarding complete → dashboard.
//  2. On a protected path with onboarding incomplete → RequiredStep,
//     unless that is already the current path.
//  3. Otherwise render in place.
//
// Redirecting only when the target differs from the current path is what
// makes the rule converge: any chain of redirects reaches a fixed point in
// at most two hops, so no loop is possible.
func Decide(state model.OnboardingState, currentPath string) (target string, redirect bool) {
	if IsStepPath(currentPath) {
		if state.OnboardingComplete {
			return PathDashboard, true
		}
		return "", false
	}
	if !state.OnboardingComplete {
		if t := RequiredStep(state); t != currentPath {
			return t, true
		}
	}
	return "", false
}

// Protected wraps main-app routes: users who have not completed
// onboarding are redirected to their first unmet step.
func (g *Guard) Protected() func(http.Handler) http.Handler {
	return g.middleware()
}

// OnboardingOnly wraps the step routes: users who already completed
// onboarding are redirected to the dashboard.
func (g *Guard) OnboardingOnly() func(http.Handler) http.Handler {
	return g.middleware()
}

// middleware is shared by both variants — Decide classifies by path, so
// the difference between them is only which routes they are mounted on.
func (g *Guard) middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, _ := auth.UserIDFromContext(r.Context())

			state := g.resolve(r.Context(), userID)
			if target, redirect := Decide(state, r.URL.Path); redirect {
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve reads the user's state, running the self-heal check first when
// it applies.
//
// SELF-HEAL:
// A state claiming OnboardingComplete && ApiKeySubmitted is only as good
// as the key actually stored server-side — the key may have been deleted
// since. The first time such a user shows up, the oracle is consulted
// once (singleflight de-duplicates concurrent arrivals); if it reports no
// key, both flags are cleared so the key-entry step is reachable again.
// Later requests skip the check entirely — at most one oracle call per
// user per Guard lifetime.
func (g *Guard) resolve(ctx context.Context, userID string) model.OnboardingState {
	state := g.store.State(ctx, userID)
	if !state.OnboardingComplete || !state.ApiKeySubmitted {
		return state
	}

	g.mu.Lock()
	_, done := g.verified[userID]
	g.mu.Unlock()
	if done {
		return state
	}

	v, _, _ := g.sf.Do(userID, func() (any, error) {
		g.mu.Lock()
		g.verified[userID] = struct{}{}
		g.mu.Unlock()

		// Detached from the request so a client disconnect can't abort
		// the check midway and masquerade as "key absent". The oracle's
		// own timeout still bounds it.
		checkCtx := context.WithoutCancel(ctx)
		if g.oracle.HasAPIKey(checkCtx, userID) {
			return state, nil
		}

		g.logger.Warn("completed onboarding state is stale, clearing api key flags",
			slog.String("userID", userID),
		)
		return g.store.ClearAPIKeyFlags(checkCtx, userID), nil
	})
	return v.(model.OnboardingState)
}
