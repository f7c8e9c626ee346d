package contact

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/drehill/site-api/internal/domain"
	"github.com/drehill/site-api/internal/infrastructure/smtp"
	"github.com/drehill/site-api/internal/infrastructure/sns"
	"github.com/drehill/site-api/internal/pkg/id"
	"github.com/drehill/site-api/internal/pkg/validate"
)

// SubmissionStore persists form submissions.
type SubmissionStore interface {
	Put(ctx context.Context, s *domain.Submission) error
	ListByKind(ctx context.Context, kind string) ([]domain.Submission, error)
}

// SubscriberStore persists mailing-list entries.
type SubscriberStore interface {
	Put(ctx context.Context, s *domain.Subscriber) error
}

// ResumeStore keeps uploaded résumés.
type ResumeStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) error
}

type Service interface {
	SubmitContactForm(ctx context.Context, req domain.ContactFormRequest) error
	SubmitApplication(ctx context.Context, req domain.ApplicationRequest) error
	BookCall(ctx context.Context, req domain.BookingRequest) error
	// Subscribe adds the email to the mailing list. Reports whether the
	// address was already subscribed; that case is not an error.
	Subscribe(ctx context.Context, email string) (bool, error)
	ListSubmissions(ctx context.Context, kind string) ([]domain.Submission, error)
}

// ServiceDeps wires the contact service's collaborators. SMSSender and
// AdminPhone are optional; when both are set, new submissions also trigger
// an SMS alert.
type ServiceDeps struct {
	Submissions SubmissionStore
	Subscribers SubscriberStore
	Resumes     ResumeStore
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender
	AdminEmail  string
	AdminPhone  string
}

type service struct {
	submissions SubmissionStore
	subscribers SubscriberStore
	resumes     ResumeStore
	mailer      smtp.Mailer
	smsSender   sns.SMSSender
	adminEmail  string
	adminPhone  string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		submissions: deps.Submissions,
		subscribers: deps.Subscribers,
		resumes:     deps.Resumes,
		mailer:      deps.Mailer,
		smsSender:   deps.SMSSender,
		adminEmail:  deps.AdminEmail,
		adminPhone:  deps.AdminPhone,
	}
}

func (s *service) SubmitContactForm(ctx context.Context, req domain.ContactFormRequest) error {
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	sub := &domain.Submission{
		SubmissionID: id.New(),
		Kind:         domain.SubmissionContact,
		FullName:     req.FullName,
		Email:        req.Email,
		Company:      req.Company,
		Phone:        req.Phone,
		Country:      req.Country,
		Service:      req.Service,
		Message:      req.Message,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.submissions.Put(ctx, sub); err != nil {
		return err
	}

	fields := []field{
		{"Name", req.FullName},
		{"Email", req.Email},
		{"Phone", req.Phone},
		{"Company", req.Company},
		{"Country/Market of Interest", req.Country},
		{"Service Interest", req.Service},
		{"Message", req.Message},
	}
	if err := s.notifyAdmin(ctx, "New Contact Form Submission", fields); err != nil {
		return err
	}
	return nil
}

func (s *service) SubmitApplication(ctx context.Context, req domain.ApplicationRequest) error {
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	sub := &domain.Submission{
		SubmissionID: id.New(),
		Kind:         domain.SubmissionApplication,
		FullName:     req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     req.Position,
		CreatedAt:    time.Now().UTC(),
	}

	var resume []byte
	if req.Resume != "" {
		decoded, err := decodeResume(req.Resume)
		if err != nil {
			return fmt.Errorf("invalid resume encoding: %w", domain.ErrBadRequest)
		}
		resume = decoded
		sub.ResumeKey = "resumes/" + sub.SubmissionID + ".pdf"
		if err := s.resumes.UploadBase64(ctx, sub.ResumeKey, req.Resume); err != nil {
			return err
		}
	}
	if err := s.submissions.Put(ctx, sub); err != nil {
		return err
	}

	fields := []field{
		{"Name", req.Name},
		{"Email", req.Email},
		{"Phone", req.Phone},
		{"Position", req.Position},
	}
	email := buildAdminEmail(s.adminEmail, "New Job Application: "+req.Position, "New Job Application", fields)
	if resume != nil {
		email.Attachments = []smtp.EmailAttachment{{Filename: "resume.pdf", Content: resume}}
	}
	return s.mailer.Send(email)
}

func (s *service) BookCall(ctx context.Context, req domain.BookingRequest) error {
	if err := validate.Struct(&req); err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	sub := &domain.Submission{
		SubmissionID: id.New(),
		Kind:         domain.SubmissionBooking,
		FullName:     req.FullName,
		Email:        req.Email,
		Company:      req.Company,
		Phone:        req.Phone,
		Products:     req.Products,
		Markets:      req.Markets,
		Experience:   req.Experience,
		CallTime:     req.CallTime,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.submissions.Put(ctx, sub); err != nil {
		return err
	}

	fields := []field{
		{"Name", req.FullName},
		{"Email", req.Email},
		{"Phone", req.Phone},
		{"Company", req.Company},
		{"Products", req.Products},
		{"Target Markets", req.Markets},
		{"Experience Level", req.Experience},
		{"Preferred Call Time", req.CallTime},
	}
	return s.notifyAdmin(ctx, "New Free Consultation Call Booking", fields)
}

func (s *service) Subscribe(ctx context.Context, email string) (bool, error) {
	req := struct {
		Email string `validate:"required,email"`
	}{Email: email}
	if err := validate.Struct(&req); err != nil {
		return false, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	err := s.subscribers.Put(ctx, &domain.Subscriber{
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

func (s *service) ListSubmissions(ctx context.Context, kind string) ([]domain.Submission, error) {
	switch kind {
	case domain.SubmissionContact, domain.SubmissionApplication, domain.SubmissionBooking:
		return s.submissions.ListByKind(ctx, kind)
	default:
		return nil, fmt.Errorf("unknown submission kind %q: %w", kind, domain.ErrBadRequest)
	}
}

type field struct {
	label string
	value string
}

// notifyAdmin emails the admin and, when SMS alerting is configured, also
// sends a short text. SMS failure is logged but never fails the submission.
func (s *service) notifyAdmin(ctx context.Context, subject string, fields []field) error {
	if err := s.mailer.Send(buildAdminEmail(s.adminEmail, subject, subject, fields)); err != nil {
		return err
	}
	if s.smsSender != nil && s.adminPhone != "" {
		if err := s.smsSender.SendSMS(ctx, s.adminPhone, subject+" — check your inbox"); err != nil {
			slog.Warn("failed to send admin SMS alert", "err", err)
		}
	}
	return nil
}

func buildAdminEmail(to, subject, heading string, fields []field) smtp.Email {
	var text, html strings.Builder
	text.WriteString(heading + ":\n\n")
	html.WriteString("<h2>" + heading + "</h2>")
	for _, f := range fields {
		text.WriteString(fmt.Sprintf("%s: %s\n", f.label, f.value))
		html.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>", f.label, f.value))
	}
	return smtp.Email{
		To:      []string{to},
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}
}

// decodeResume accepts a bare base64 string or a data URI and returns the
// decoded bytes.
func decodeResume(b64 string) ([]byte, error) {
	if idx := strings.Index(b64, ","); idx != -1 && strings.HasPrefix(b64, "data:") {
		b64 = b64[idx+1:]
	}
	return base64.StdEncoding.DecodeString(b64)
}
