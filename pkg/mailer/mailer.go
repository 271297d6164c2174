package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/tourhub-io/tourhub-backend/pkg/config"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

// Email is a single outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Sender is the delivery surface consumed by services. The password reset
// flow depends on delivery outcome, so failures must surface as errors
// rather than being logged and swallowed.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// Mailer delivers mail over SMTP via gomail.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// New builds a Mailer from SMTP configuration.
func New(cfg config.MailConfig) (*Mailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
	}, nil
}

// Send delivers one email, honoring context cancellation while the SMTP
// exchange runs on its own goroutine.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return pkgerrors.New(pkgerrors.CodeDelivery, "no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeDelivery, ctx.Err(), "email delivery canceled")
	case err := <-done:
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDelivery, err, "email delivery failed")
		}
		return nil
	}
}

// PasswordResetEmail renders the reset message sent to a user who requested
// a password reset. The link embeds the raw token and expires quickly.
func PasswordResetEmail(to, resetURL string, ttl time.Duration) Email {
	minutes := int(ttl.Minutes())
	return Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Your password reset token (valid for %d min)", minutes),
		Body: fmt.Sprintf(
			"Forgot your password? Submit a PATCH request with your new password and passwordConfirm to: %s\n"+
				"If you didn't forget your password, please ignore this email.", resetURL),
	}
}
