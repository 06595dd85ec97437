// File: utils/mailer.go
package utils

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer wraps the SendGrid client. A nil *Mailer means no email provider is
// configured and the email channel is unavailable.
type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewMailer builds a Mailer, or nil when no API key is configured.
func NewMailer(apiKey, fromAddr, fromName string) *Mailer {
	if apiKey == "" {
		return nil
	}
	return &Mailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddr),
	}
}

// Send delivers a single email. The plain body is the text fallback for
// clients that do not render HTML.
func (m *Mailer) Send(ctx context.Context, to, subject, html, plain string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), plain, html)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("email provider rejected message to %s: status %d", to, resp.StatusCode)
	}
	return nil
}
