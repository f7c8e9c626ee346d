package handler

import (
	"encoding/json"
	"net/http"

	"github.com/drehill/site-api/internal/application/contact"
	"github.com/drehill/site-api/internal/domain"
)

// ContactHandler handles contact-form, application, booking and subscription
// endpoints.
type ContactHandler struct {
	svc contact.Service
}

func NewContactHandler(svc contact.Service) *ContactHandler { return &ContactHandler{svc: svc} }

func (h *ContactHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SubmitContactForm(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Form submitted and email sent successfully."})
}

func (h *ContactHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	var req domain.ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SubmitApplication(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Application submitted and email sent successfully."})
}

func (h *ContactHandler) BookCall(w http.ResponseWriter, r *http.Request) {
	var req domain.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.BookCall(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Call booking submitted and email sent successfully."})
}

func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	already, err := h.svc.Subscribe(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	if already {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Already subscribed."})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Subscribed successfully."})
}

func (h *ContactHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = domain.SubmissionContact
	}
	subs, err := h.svc.ListSubmissions(r.Context(), kind)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}
