package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-copilot/internal/server/middleware"
	"github.com/jonathan/job-copilot/internal/types"
)

func TestPutProfile(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()

	profile := types.Profile{Summary: "Go developer", Skills: []string{"Go"}}
	body, _ := json.Marshal(profile)
	req := authedRequest(http.MethodPut, "/profile", body, userID)
	w := httptest.NewRecorder()
	ts.handlePutProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	saved := ts.store.profiles[userID]
	require.NotNil(t, saved)
	assert.Equal(t, "Go developer", saved.Summary)
}

func TestPutProfileEmpty(t *testing.T) {
	ts := newTestServer(t)

	req := authedRequest(http.MethodPut, "/profile", []byte(`{}`), uuid.New())
	w := httptest.NewRecorder()
	ts.handlePutProfile(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProfile(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()
	ts.store.profiles[userID] = &types.Profile{Summary: "Go developer"}

	req := authedRequest(http.MethodGet, "/profile", nil, userID)
	w := httptest.NewRecorder()
	ts.handleGetProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Go developer")
}

func TestGetProfileNotSaved(t *testing.T) {
	ts := newTestServer(t)

	req := authedRequest(http.MethodGet, "/profile", nil, uuid.New())
	w := httptest.NewRecorder()
	ts.handleGetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// resumeUploadRequest builds a multipart request with one "resume" file part.
func resumeUploadRequest(t *testing.T, userID uuid.UUID, filename, contentType string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="resume"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	ctx := context.WithValue(req.Context(), middleware.UserIDKey(), userID)
	return req.WithContext(ctx)
}

func TestUploadResume(t *testing.T) {
	ts := newTestServer(t)
	userID := uuid.New()

	req := resumeUploadRequest(t, userID, "resume.txt", "text/plain", []byte("Jane Doe\nGo developer since 2018"))
	w := httptest.NewRecorder()
	ts.handleUploadResume(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	saved := ts.store.profiles[userID]
	require.NotNil(t, saved)
	assert.Equal(t, "parsed", saved.Summary)
}

func TestUploadResumeUnsupportedType(t *testing.T) {
	ts := newTestServer(t)

	req := resumeUploadRequest(t, uuid.New(), "photo.png", "image/png", []byte{0x89, 0x50, 0x4e, 0x47})
	w := httptest.NewRecorder()
	ts.handleUploadResume(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestUploadResumeMissingFile(t *testing.T) {
	ts := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	ctx := context.WithValue(req.Context(), middleware.UserIDKey(), uuid.New())
	w := httptest.NewRecorder()
	ts.handleUploadResume(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadResumeEmptyText(t *testing.T) {
	ts := newTestServer(t)

	req := resumeUploadRequest(t, uuid.New(), "resume.txt", "text/plain", []byte("   \n  "))
	w := httptest.NewRecorder()
	ts.handleUploadResume(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
