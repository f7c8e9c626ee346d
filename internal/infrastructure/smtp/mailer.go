package smtp

import (
	"io"

	"github.com/drehill/site-api/internal/config"
	"gopkg.in/gomail.v2"
)

// EmailAttachment is an in-memory file attached to an outgoing message.
type EmailAttachment struct {
	Filename string
	Content  []byte
}

// Email is one outgoing message. Either To or Bcc must be set. Text is the
// plain body; HTML, when non-empty, is added as the rich alternative.
type Email struct {
	To          []string
	Bcc         []string
	Subject     string
	Text        string
	HTML        string
	Attachments []EmailAttachment
}

// Mailer sends emails.
type Mailer interface {
	Send(e Email) error
}

type mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer builds a Mailer over the configured SMTP relay.
func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

func (m *mailer) Send(e Email) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	if len(e.To) > 0 {
		msg.SetHeader("To", e.To...)
	}
	if len(e.Bcc) > 0 {
		msg.SetHeader("Bcc", e.Bcc...)
	}
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.Text)
	if e.HTML != "" {
		msg.AddAlternative("text/html", e.HTML)
	}
	for _, att := range e.Attachments {
		content := att.Content
		msg.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	return m.dialer.DialAndSend(msg)
}
