package onboarding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/sakif/jobassist/internal/apperror"
	"github.com/sakif/jobassist/internal/model"
)

// fakeOnboardingRepo is an in-memory OnboardingRepository with injectable
// failures.
type fakeOnboardingRepo struct {
	states  map[string]model.OnboardingState
	saves   int
	readErr error
	saveErr error
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{states: make(map[string]model.OnboardingState)}
}

func (r *fakeOnboardingRepo) GetState(_ context.Context, userID string) (model.OnboardingState, error) {
	if r.readErr != nil {
		return model.OnboardingState{}, r.readErr
	}
	return r.states[userID], nil
}

func (r *fakeOnboardingRepo) SaveState(_ context.Context, userID string, st model.OnboardingState) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.states[userID] = st
	return nil
}

func newTestStore(repo *fakeOnboardingRepo) (*Store, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewStore(repo, logger), &buf
}

// =========================================================================
// Basic transitions
// =========================================================================

func TestStore_ZeroStateForNewUser(t *testing.T) {
	store, _ := newTestStore(newFakeOnboardingRepo())

	st := store.State(context.Background(), "u1")
	if st != (model.OnboardingState{}) {
		t.Fatalf("new user state = %+v, want zero", st)
	}
}

func TestStore_SettersPersist(t *testing.T) {
	repo := newFakeOnboardingRepo()
	store, _ := newTestStore(repo)
	ctx := context.Background()

	store.SetApiKeySubmitted(ctx, "u1", true)
	store.SetResumeUploaded(ctx, "u1", true)
	st := store.SetLinkedinEnabled(ctx, "u1", true)

	want := model.OnboardingState{ApiKeySubmitted: true, ResumeUploaded: true, LinkedinEnabled: true}
	if st != want {
		t.Fatalf("state after setters = %+v, want %+v", st, want)
	}
	if repo.states["u1"] != want {
		t.Fatalf("persisted state = %+v, want %+v", repo.states["u1"], want)
	}
}

func TestStore_StatesAreIsolatedPerUser(t *testing.T) {
	store, _ := newTestStore(newFakeOnboardingRepo())
	ctx := context.Background()

	store.SetApiKeySubmitted(ctx, "u1", true)

	if st := store.State(ctx, "u2"); st.ApiKeySubmitted {
		t.Fatal("u2 observed u1's mutation")
	}
}

// Re-applying a setter with the same value leaves the serialized state
// byte-identical. Revisiting a completed step must not change anything.
func TestStore_SetterIdempotence(t *testing.T) {
	store, _ := newTestStore(newFakeOnboardingRepo())
	ctx := context.Background()

	first := store.SetApiKeySubmitted(ctx, "u1", true)
	second := store.SetApiKeySubmitted(ctx, "u1", true)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("serialized state changed on repeat set: %s vs %s", a, b)
	}
}

func TestOnboardingState_JSONRoundTrip(t *testing.T) {
	in := model.OnboardingState{ApiKeySubmitted: true, LinkedinEnabled: true}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"apiKeySubmitted", "resumeUploaded", "linkedinEnabled", "onboardingComplete"} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("serialized state missing field %q: %s", key, data)
		}
	}

	var out model.OnboardingState
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Fatalf("round trip: got %+v, want %+v", out, in)
	}
}

// Unknown fields in a stored payload are ignored, known fields survive.
// This is what loading state written by an older or newer build looks like.
func TestOnboardingState_TolerantDecode(t *testing.T) {
	raw := []byte(`{"apiKeySubmitted":true,"someFutureFlag":42}`)

	var st model.OnboardingState
	if err := json.Unmarshal(raw, &st); err != nil {
		t.Fatal(err)
	}
	if !st.ApiKeySubmitted || st.ResumeUploaded || st.OnboardingComplete {
		t.Fatalf("decoded state = %+v", st)
	}
}

// =========================================================================
// Completion and reset
// =========================================================================

func TestStore_CompleteRequiresAPIKeyStep(t *testing.T) {
	store, _ := newTestStore(newFakeOnboardingRepo())
	ctx := context.Background()

	_, err := store.CompleteOnboarding(ctx, "u1")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("CompleteOnboarding on fresh state: err = %v, want conflict", err)
	}

	store.SetApiKeySubmitted(ctx, "u1", true)
	st, err := store.CompleteOnboarding(ctx, "u1")
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !st.OnboardingComplete {
		t.Fatal("OnboardingComplete not set")
	}
}

func TestStore_Reset(t *testing.T) {
	store, _ := newTestStore(newFakeOnboardingRepo())
	ctx := context.Background()

	store.SetApiKeySubmitted(ctx, "u1", true)
	store.SetResumeUploaded(ctx, "u1", true)
	if _, err := store.CompleteOnboarding(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	st := store.ResetOnboarding(ctx, "u1")
	if st != (model.OnboardingState{}) {
		t.Fatalf("state after reset = %+v, want zero", st)
	}
}

func TestStore_ClearAPIKeyFlags(t *testing.T) {
	store, _ := newTestStore(newFakeOnboardingRepo())
	ctx := context.Background()

	store.SetApiKeySubmitted(ctx, "u1", true)
	store.SetResumeUploaded(ctx, "u1", true)
	if _, err := store.CompleteOnboarding(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	st := store.ClearAPIKeyFlags(ctx, "u1")
	if st.ApiKeySubmitted || st.OnboardingComplete {
		t.Fatalf("key flags not cleared: %+v", st)
	}
	if !st.ResumeUploaded {
		t.Fatal("ResumeUploaded must survive the self-heal")
	}
}

// =========================================================================
// Degradation
// =========================================================================

func TestStore_WriteFailureDegradesToMemory(t *testing.T) {
	repo := newFakeOnboardingRepo()
	repo.saveErr = errors.New("disk full")
	store, buf := newTestStore(repo)
	ctx := context.Background()

	// The mutation still takes effect from the caller's point of view.
	st := store.SetApiKeySubmitted(ctx, "u1", true)
	if !st.ApiKeySubmitted {
		t.Fatal("mutation lost on persistence failure")
	}

	// And later reads see it, served from memory.
	if got := store.State(ctx, "u1"); !got.ApiKeySubmitted {
		t.Fatal("degraded state not visible on read")
	}

	if !strings.Contains(buf.String(), "continuing in memory") {
		t.Fatalf("expected degradation warning, log: %s", buf.String())
	}
}

func TestStore_DegradationLoggedOncePerUser(t *testing.T) {
	repo := newFakeOnboardingRepo()
	repo.saveErr = errors.New("disk full")
	store, buf := newTestStore(repo)
	ctx := context.Background()

	store.SetApiKeySubmitted(ctx, "u1", true)
	store.SetResumeUploaded(ctx, "u1", true)
	store.SetLinkedinEnabled(ctx, "u1", true)

	if n := strings.Count(buf.String(), "continuing in memory"); n != 1 {
		t.Fatalf("degradation warning logged %d times, want 1", n)
	}
}

func TestStore_ReadFailureDegradesToMemory(t *testing.T) {
	repo := newFakeOnboardingRepo()
	repo.readErr = errors.New("database locked")
	store, _ := newTestStore(repo)
	ctx := context.Background()

	if st := store.State(ctx, "u1"); st != (model.OnboardingState{}) {
		t.Fatalf("read failure state = %+v, want zero", st)
	}

	// Mutations keep working in memory.
	st := store.SetApiKeySubmitted(ctx, "u1", true)
	if !st.ApiKeySubmitted {
		t.Fatal("mutation lost after read failure")
	}
}

func TestStore_DegradedSessionStopsWritingToRepo(t *testing.T) {
	repo := newFakeOnboardingRepo()
	store, _ := newTestStore(repo)
	ctx := context.Background()

	store.SetApiKeySubmitted(ctx, "u1", true)
	before := repo.saves

	repo.saveErr = errors.New("disk full")
	store.SetResumeUploaded(ctx, "u1", true)
	repo.saveErr = nil

	// Once degraded, the session stays in memory.
	store.SetLinkedinEnabled(ctx, "u1", true)
	if repo.saves != before {
		t.Fatalf("degraded session wrote to repo: %d saves after, %d before", repo.saves, before)
	}
}
