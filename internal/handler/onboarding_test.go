package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobassist/internal/model"
)

func TestOnboardingHandler_StateAndSetters(t *testing.T) {
	env := newTestEnv(t)
	_, _, onbH, _, _, _ := newHandlers(env)
	userID := env.register(t, "sam@example.com")

	t.Run("fresh state", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.State(rr, request(http.MethodGet, "/api/onboarding/state", userID, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		st := decodeBody[model.OnboardingState](t, rr)
		assert.Equal(t, model.OnboardingState{}, st)
	})

	t.Run("setters flip flags", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.SetAPIKeySubmitted()(rr, request(http.MethodPost, "/api/onboarding/api-key-submitted", userID,
			map[string]bool{"done": true}))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		onbH.SetResumeUploaded()(rr, request(http.MethodPost, "/api/onboarding/resume-uploaded", userID,
			map[string]bool{"done": true}))
		require.Equal(t, http.StatusOK, rr.Code)

		st := decodeBody[model.OnboardingState](t, rr)
		assert.True(t, st.ApiKeySubmitted)
		assert.True(t, st.ResumeUploaded)
		assert.False(t, st.OnboardingComplete)
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.State(rr, request(http.MethodGet, "/api/onboarding/state", "", nil))
		assertErrorType(t, rr, http.StatusUnauthorized, "unauthorized")
	})
}

func TestOnboardingHandler_Complete(t *testing.T) {
	env := newTestEnv(t)
	_, _, onbH, _, _, _ := newHandlers(env)
	userID := env.register(t, "sam@example.com")

	t.Run("refused before api key step", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.Complete(rr, request(http.MethodPost, "/api/onboarding/complete", userID, nil))
		assertErrorType(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("allowed after api key step", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.SetAPIKeySubmitted()(rr, request(http.MethodPost, "/api/onboarding/api-key-submitted", userID,
			map[string]bool{"done": true}))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		onbH.Complete(rr, request(http.MethodPost, "/api/onboarding/complete", userID, nil))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		st := decodeBody[model.OnboardingState](t, rr)
		assert.True(t, st.OnboardingComplete)
	})

	t.Run("reset clears everything", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.Reset(rr, request(http.MethodPost, "/api/onboarding/reset", userID, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		st := decodeBody[model.OnboardingState](t, rr)
		assert.Equal(t, model.OnboardingState{}, st)
	})
}

func TestOnboardingHandler_Next(t *testing.T) {
	env := newTestEnv(t)
	_, _, onbH, _, _, _ := newHandlers(env)
	userID := env.register(t, "sam@example.com")

	next := func(t *testing.T, current string) string {
		t.Helper()
		rr := httptest.NewRecorder()
		onbH.Next(rr, request(http.MethodGet, "/api/onboarding/next?current="+current, userID, nil))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		return decodeBody[map[string]string](t, rr)["next"]
	}

	// Continue always moves forward, regardless of flag state.
	assert.Equal(t, "/onboard/resume", next(t, "/"))
	assert.Equal(t, "/onboard/linkedin", next(t, "/onboard/resume"))
	assert.Equal(t, "/dashboard", next(t, "/onboard/linkedin"))

	t.Run("unknown path rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		onbH.Next(rr, request(http.MethodGet, "/api/onboarding/next?current=/bogus", userID, nil))
		assertErrorType(t, rr, http.StatusBadRequest, "validation_error")
	})
}
