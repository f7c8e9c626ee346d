package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drehill/site-api/internal/application/auth"
)

// AuthHandler handles the OTP login flow.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler { return &AuthHandler{svc: svc} }

// SendOTP issues a fresh code for the configured admin identity. The request
// carries no body: the subject is fixed server-side.
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.IssueOTP(r.Context()); err != nil {
		if errors.Is(err, auth.ErrConfigMissing) {
			writeError(w, http.StatusInternalServerError, "email configuration is missing")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to send OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "OTP sent successfully"})
}

// VerifyOTP exchanges a valid code for a session token. All rejection
// reasons collapse into one response so the endpoint is not an oracle for
// which codes are pending.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OTP string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.svc.VerifyOTP(r.Context(), req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoPendingCode),
			errors.Is(err, auth.ErrCodeExpired),
			errors.Is(err, auth.ErrCodeMismatch):
			writeError(w, http.StatusBadRequest, "invalid or expired OTP")
		case errors.Is(err, auth.ErrConfigMissing):
			writeError(w, http.StatusInternalServerError, "server configuration error")
		default:
			writeError(w, http.StatusInternalServerError, "failed to verify OTP")
		}
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{Token: token})
}

// Verify confirms that the presented session token is valid. The auth
// middleware has already done the work by the time this runs.
func (h *AuthHandler) Verify(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Token is valid"})
}
