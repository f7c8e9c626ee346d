package handler

import (
	"net/http"
	"time"
)

// HealthHandler handles the root info and health-check endpoints.
type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler { return &HealthHandler{startedAt: time.Now()} }

func (h *HealthHandler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "Drehill API is running",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"blog":    "/api/blog",
			"auth":    "/api/auth",
			"contact": "/api/contact",
		},
	})
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Seconds(),
	})
}
