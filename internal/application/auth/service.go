package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/drehill/site-api/internal/domain"
	"github.com/drehill/site-api/internal/infrastructure/smtp"
)

// OTP verification rejections. Handlers collapse all three into one opaque
// response so callers cannot distinguish them.
var (
	ErrNoPendingCode = errors.New("no pending code")
	ErrCodeExpired   = errors.New("code expired")
	ErrCodeMismatch  = errors.New("code mismatch")
)

// ErrConfigMissing means the admin identity or a transport collaborator is
// not configured; the operation fails without touching the store.
var ErrConfigMissing = errors.New("login configuration is missing")

// OTPStore holds at most one pending code per subject. CompareAndDelete is
// the atomic check-and-consume step: it must remove the record only on an
// exact code match, and at most one concurrent caller may observe success
// for a given record.
type OTPStore interface {
	Put(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, subject string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, subject string) error
	CompareAndDelete(ctx context.Context, subject, code string) error
}

// TokenSigner mints a signed session token for a verified identity.
type TokenSigner interface {
	Sign(email, role string) (string, error)
}

type Service interface {
	// IssueOTP generates a fresh code for the admin subject, stores it and
	// emails it. Any previous pending code is superseded. The operation
	// fails as a whole if the email cannot be sent.
	IssueOTP(ctx context.Context) error
	// VerifyOTP checks the submitted code against the pending record,
	// consumes it exactly once on success and returns a session token.
	VerifyOTP(ctx context.Context, code string) (string, error)
}

// ServiceDeps wires the auth service's collaborators.
type ServiceDeps struct {
	Store     OTPStore
	Mailer    smtp.Mailer
	Signer    TokenSigner
	Subject   string // the single admin email
	OTPExpiry time.Duration
}

type service struct {
	store     OTPStore
	mailer    smtp.Mailer
	signer    TokenSigner
	subject   string
	otpExpiry time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		store:     deps.Store,
		mailer:    deps.Mailer,
		signer:    deps.Signer,
		subject:   deps.Subject,
		otpExpiry: deps.OTPExpiry,
	}
}

func (s *service) IssueOTP(ctx context.Context) error {
	if s.subject == "" || s.mailer == nil {
		return ErrConfigMissing
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	now := time.Now()
	rec := &domain.OTPRecord{
		Subject:   s.subject,
		Code:      code,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.otpExpiry).Unix(),
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	minutes := int(s.otpExpiry.Minutes())
	err = s.mailer.Send(smtp.Email{
		To:      []string{s.subject},
		Subject: "Admin Login OTP",
		Text:    fmt.Sprintf("Your OTP for admin login is: %s. This OTP will expire in %d minutes.", code, minutes),
		HTML: fmt.Sprintf("<h1>Admin Login</h1><p>Your OTP for admin login is: <strong>%s</strong></p><p>This OTP will expire in %d minutes.</p>",
			code, minutes),
	})
	if err != nil {
		// The code was never delivered, so it must not remain redeemable.
		if delErr := s.store.Delete(ctx, s.subject); delErr != nil {
			slog.Warn("failed to evict undelivered OTP", "err", delErr)
		}
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

func (s *service) VerifyOTP(ctx context.Context, code string) (string, error) {
	if s.subject == "" {
		return "", ErrConfigMissing
	}

	rec, err := s.store.Get(ctx, s.subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrNoPendingCode
		}
		return "", err
	}
	if time.Now().Unix() > rec.ExpiresAt {
		if delErr := s.store.Delete(ctx, s.subject); delErr != nil {
			slog.Warn("failed to evict expired OTP", "err", delErr)
		}
		return "", ErrCodeExpired
	}

	// Atomic consume: a concurrent verification of the same code loses the
	// race here and sees the record gone.
	if err := s.store.CompareAndDelete(ctx, s.subject, code); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return "", ErrNoPendingCode
		case errors.Is(err, domain.ErrUnauthorized):
			return "", ErrCodeMismatch
		default:
			return "", err
		}
	}

	if s.signer == nil {
		return "", ErrConfigMissing
	}
	token, err := s.signer.Sign(s.subject, domain.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
