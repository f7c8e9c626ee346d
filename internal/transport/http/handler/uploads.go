package handler

import (
	"errors"
	"io"
	"net/http"

	fileapp "github.com/drehill/site-api/internal/application/file"
	"github.com/drehill/site-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	maxUploadMemory = 32 << 20
	maxAttachments  = 5
)

// UploadHandler handles post asset uploads and serving.
type UploadHandler struct {
	svc fileapp.Service
}

func NewUploadHandler(svc fileapp.Service) *UploadHandler { return &UploadHandler{svc: svc} }

// UploadImage accepts a single multipart "image" field and stores it.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer f.Close()

	url, err := h.svc.UploadImage(r.Context(), f, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Image uploaded successfully",
		"imageUrl": url,
	})
}

// UploadAttachments accepts up to five multipart "files" entries.
func (h *UploadHandler) UploadAttachments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(files) > maxAttachments {
		writeError(w, http.StatusBadRequest, "too many files")
		return
	}

	attachments := make([]domain.Attachment, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "unreadable file: "+header.Filename)
			return
		}
		att, err := h.svc.UploadAttachment(r.Context(), f, header.Filename, header.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			httpError(w, err)
			return
		}
		attachments = append(attachments, att)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Files uploaded successfully",
		"attachments": attachments,
	})
}

// Serve streams a stored object back to the client.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	rc, contentType, err := h.svc.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		httpError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, rc)
}
