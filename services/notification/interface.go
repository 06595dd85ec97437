package notification

import (
	"context"
	"errors"

	"finbook/models"
)

// Engine decides whether a reminder should go out, renders it, and
// dispatches it across the push and email channels.
type Engine interface {
	// DeliverReminder processes one reminder event. Operational failures
	// (missing recipients, transport errors) are logged and swallowed per
	// channel; only a contract violation such as an unhandled template kind
	// returns an error.
	DeliverReminder(ctx context.Context, event models.ReminderEvent) error
	// SendTestPush pushes a test notification to all of the user's devices.
	SendTestPush(ctx context.Context, userID string) error
	// SendTestEmail sends a test email to the user's verified address.
	SendTestEmail(ctx context.Context, userID string) error
}

// PushSender is the outbound push transport. Per-token failures are reported
// in the failure count, not as an error; err is reserved for total transport
// failure.
type PushSender interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (success, failure int, err error)
}

// EmailSender is the outbound email transport. plain is the text fallback
// for the html body.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html, plain string) error
}

// Errors surfaced by the synchronous test-send paths.
var (
	ErrNoRecipient     = errors.New("no recipient configured")
	ErrEmailDisabled   = errors.New("email transport not configured")
	ErrTransportFailed = errors.New("transport failed")
)
