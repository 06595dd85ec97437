// models/notification.go
package models

import "time"

// Delivery channels. Each channel keeps its own dedup record.
const (
	ChannelPush  = "push"
	ChannelEmail = "email"
)

// NotificationLog is the audit trail entry written after every successful
// channel dispatch. Read is flipped later by the client marking it seen.
type NotificationLog struct {
	ID       string    `bson:"id" json:"id"`
	UserID   string    `bson:"userId" json:"userId"`
	Type     string    `bson:"type" json:"type"`
	Message  string    `bson:"message" json:"message"`
	Channel  string    `bson:"channel" json:"channel"`
	EventKey string    `bson:"eventKey" json:"eventKey"`
	Locale   string    `bson:"locale" json:"locale"`
	CardID   string    `bson:"cardId,omitempty" json:"cardId,omitempty"`
	BudgetID string    `bson:"budgetId,omitempty" json:"budgetId,omitempty"`
	Read     bool      `bson:"read" json:"read"`
	SentAt   time.Time `bson:"sentAt" json:"sentAt"`
}

// DedupRecord marks that a (user, eventKey, channel) triple was notified.
// Records are never deleted; freshness is a read-time window check.
type DedupRecord struct {
	Key      string    `bson:"key" json:"key"`
	UserID   string    `bson:"userId" json:"userId"`
	EventKey string    `bson:"eventKey" json:"eventKey"`
	Channel  string    `bson:"channel" json:"channel"`
	SentAt   time.Time `bson:"sentAt" json:"sentAt"`
}

// NotificationContent is the locale-specific render of a reminder template,
// carrying everything both channels need.
type NotificationContent struct {
	Summary string
	Push    PushContent
	Email   EmailContent
	URL     string
}

// PushContent is the visible part of an FCM message.
type PushContent struct {
	Title string
	Body  string
}

// EmailContent is the subject plus HTML body of an outbound email. Summary on
// the enclosing content doubles as the plain-text fallback.
type EmailContent struct {
	Subject string
	HTML    string
}
