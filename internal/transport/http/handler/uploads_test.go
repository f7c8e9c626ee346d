package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drehill/site-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- mock ---

type mockFileSvc struct{ mock.Mock }

func (m *mockFileSvc) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	args := m.Called(ctx, r, filename, contentType)
	return args.String(0), args.Error(1)
}
func (m *mockFileSvc) UploadAttachment(ctx context.Context, r io.Reader, filename, contentType string) (domain.Attachment, error) {
	args := m.Called(ctx, r, filename, contentType)
	return args.Get(0).(domain.Attachment), args.Error(1)
}
func (m *mockFileSvc) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}

func newUploadRouter(svc *mockFileSvc) http.Handler {
	h := NewUploadHandler(svc)
	r := chi.NewRouter()
	r.Get("/uploads/*", h.Serve)
	return r
}

// --- Serve ---

func TestServe_StreamsObject(t *testing.T) {
	svc := &mockFileSvc{}
	body := io.NopCloser(bytes.NewReader([]byte("png-bytes")))
	svc.On("Download", mock.Anything, "images/abc-cover.png").Return(body, "image/png", nil)

	rec := httptest.NewRecorder()
	newUploadRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/abc-cover.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestServe_MissingObjectIs404(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Download", mock.Anything, "images/gone.png").
		Return(nil, "", fmt.Errorf("s3 object %q: %w", "images/gone.png", domain.ErrNotFound))

	rec := httptest.NewRecorder()
	newUploadRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/gone.png", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "File not found")
}

func TestServe_StorageFailureIs500(t *testing.T) {
	svc := &mockFileSvc{}
	svc.On("Download", mock.Anything, "images/abc-cover.png").
		Return(nil, "", fmt.Errorf("s3 get object: connection reset"))

	rec := httptest.NewRecorder()
	newUploadRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/images/abc-cover.png", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "File not found")
}
