package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/jobassist/internal/auth"
)

// multipartUpload builds a multipart request with one file field named
// "resume", authenticated as userID.
func multipartUpload(t *testing.T, userID, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("resume", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resume/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func TestResumeHandler_Upload(t *testing.T) {
	env := newTestEnv(t)
	_, _, _, _, resumeH, _ := newHandlers(env)
	userID := env.register(t, "sam@example.com")

	resumeText := []byte("Sam Chowdhury\nsam@example.com\nPython, Docker, PostgreSQL developer")

	t.Run("success", func(t *testing.T) {
		rr := httptest.NewRecorder()
		resumeH.Upload(rr, multipartUpload(t, userID, "resume.txt", resumeText))

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		res := decodeBody[map[string]any](t, rr)
		assert.Equal(t, true, res["success"])
		parsed := res["parsed_data"].(map[string]any)
		assert.Equal(t, "sam@example.com", parsed["email"])

		// Upload marks the onboarding step done.
		assert.True(t, env.mustState(t, userID).ResumeUploaded)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		rr := httptest.NewRecorder()
		resumeH.Upload(rr, multipartUpload(t, userID, "resume.exe", resumeText))
		assertErrorType(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("empty file", func(t *testing.T) {
		rr := httptest.NewRecorder()
		resumeH.Upload(rr, multipartUpload(t, userID, "resume.pdf", nil))
		assertErrorType(t, rr, http.StatusBadRequest, "validation_error")
	})

	t.Run("missing file field", func(t *testing.T) {
		req := request(http.MethodPost, "/api/resume/upload", userID, map[string]string{"not": "a file"})
		rr := httptest.NewRecorder()
		resumeH.Upload(rr, req)
		assertErrorType(t, rr, http.StatusBadRequest, "validation_error")
	})
}

func TestResumeHandler_Latest(t *testing.T) {
	env := newTestEnv(t)
	_, _, _, _, resumeH, _ := newHandlers(env)
	userID := env.register(t, "sam@example.com")

	t.Run("none uploaded", func(t *testing.T) {
		rr := httptest.NewRecorder()
		resumeH.Latest(rr, request(http.MethodGet, "/api/resume/latest", userID, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		res := decodeBody[map[string]any](t, rr)
		assert.Nil(t, res["resume"])
	})

	t.Run("after upload", func(t *testing.T) {
		rr := httptest.NewRecorder()
		resumeH.Upload(rr, multipartUpload(t, userID, "cv.txt", []byte("sam@example.com")))
		require.Equal(t, http.StatusOK, rr.Code)

		rr = httptest.NewRecorder()
		resumeH.Latest(rr, request(http.MethodGet, "/api/resume/latest", userID, nil))
		require.Equal(t, http.StatusOK, rr.Code)

		res := decodeBody[map[string]any](t, rr)
		resume := res["resume"].(map[string]any)
		assert.Equal(t, "cv.txt", resume["filename"])
	})
}
