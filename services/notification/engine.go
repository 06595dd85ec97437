package notification

import (
	"context"
	"fmt"
	"time"

	notificationRepo "finbook/database/repository/notification"
	userRepo "finbook/database/repository/user"
	"finbook/models"
	"finbook/services/notification/templates"
	"finbook/utils"

	"github.com/google/uuid"
)

// DefaultEngine is the production Engine. One instance serves one scan batch:
// the locale, token and email caches live only as long as the instance, so a
// fresh engine sees fresh data.
//
// Within one DeliverReminder call the push branch always runs before the
// email branch; the branches never observe each other, only their own dedup
// records.
type DefaultEngine struct {
	Users         userRepo.UserRepository
	Notifications notificationRepo.NotificationRepository
	Dedup         *DedupStore
	Push          PushSender
	Email         EmailSender // nil disables the email channel
	Registry      *templates.Registry
	Now           func() time.Time

	localeCache map[string]string
	tokenCache  map[string][]string
	emailCache  map[string]*string
}

// NewEngine builds an engine with empty per-run caches.
func NewEngine(
	users userRepo.UserRepository,
	notifications notificationRepo.NotificationRepository,
	dedup *DedupStore,
	push PushSender,
	email EmailSender,
	registry *templates.Registry,
) *DefaultEngine {
	return &DefaultEngine{
		Users:         users,
		Notifications: notifications,
		Dedup:         dedup,
		Push:          push,
		Email:         email,
		Registry:      registry,
		Now:           time.Now,
		localeCache:   make(map[string]string),
		tokenCache:    make(map[string][]string),
		emailCache:    make(map[string]*string),
	}
}

// DeliverReminder resolves locale, renders content, and runs both channel
// branches. Only an unhandled template kind escapes as an error; everything
// operational is logged and contained per channel.
func (e *DefaultEngine) DeliverReminder(ctx context.Context, event models.ReminderEvent) error {
	locale := e.resolveLocale(event.UserID)
	set := e.Registry.ForLocale(locale)

	var content models.NotificationContent
	switch t := event.Template.(type) {
	case models.DueReminderTemplate:
		content = set.DueReminder(t)
	case models.UtilizationTemplate:
		content = set.UtilizationAlert(t)
	case models.BudgetAlertTemplate:
		content = set.BudgetAlert(t)
	default:
		return fmt.Errorf("unhandled reminder template %T for event %s", event.Template, event.EventKey)
	}

	e.deliverPush(ctx, event, locale, content)
	e.deliverEmail(ctx, event, locale, content)
	return nil
}

func (e *DefaultEngine) deliverPush(ctx context.Context, event models.ReminderEvent, locale string, content models.NotificationContent) {
	sugar := utils.GetLogger().Sugar()

	recent, err := e.Dedup.WasRecentlySent(event.UserID, event.EventKey, models.ChannelPush)
	if err != nil {
		sugar.Errorw("dedup check failed, skipping push", "userId", event.UserID, "eventKey", event.EventKey, "error", err)
		return
	}
	if recent {
		sugar.Debugw("push suppressed by dedup window", "userId", event.UserID, "eventKey", event.EventKey)
		return
	}

	tokens := e.deviceTokens(event.UserID)
	if len(tokens) == 0 {
		sugar.Debugw("no device tokens, skipping push", "userId", event.UserID)
		return
	}

	success, failure, err := e.Push.SendMulticast(ctx, tokens, content.Push.Title, content.Push.Body, e.pushData(event, locale, content))
	if err != nil {
		sugar.Errorw("push dispatch failed", "userId", event.UserID, "eventKey", event.EventKey, "error", err)
		return
	}
	sugar.Infow("push sent", "userId", event.UserID, "eventKey", event.EventKey, "success", success, "failure", failure)

	e.recordDelivery(event, models.ChannelPush, locale, content.Summary)
}

func (e *DefaultEngine) deliverEmail(ctx context.Context, event models.ReminderEvent, locale string, content models.NotificationContent) {
	if e.Email == nil {
		return
	}
	sugar := utils.GetLogger().Sugar()

	recent, err := e.Dedup.WasRecentlySent(event.UserID, event.EventKey, models.ChannelEmail)
	if err != nil {
		sugar.Errorw("dedup check failed, skipping email", "userId", event.UserID, "eventKey", event.EventKey, "error", err)
		return
	}
	if recent {
		sugar.Debugw("email suppressed by dedup window", "userId", event.UserID, "eventKey", event.EventKey)
		return
	}

	addr := e.email(event.UserID)
	if addr == "" {
		sugar.Debugw("no verified email, skipping email", "userId", event.UserID)
		return
	}

	if err := e.Email.Send(ctx, addr, content.Email.Subject, content.Email.HTML, content.Summary); err != nil {
		sugar.Errorw("email dispatch failed", "userId", event.UserID, "eventKey", event.EventKey, "error", err)
		return
	}
	sugar.Infow("email sent", "userId", event.UserID, "eventKey", event.EventKey)

	e.recordDelivery(event, models.ChannelEmail, locale, content.Summary)
}

// recordDelivery writes the audit log entry and marks the dedup key. Both
// writes happen only after a successful dispatch; their own failures are
// logged, leaving a retry to the next scan.
func (e *DefaultEngine) recordDelivery(event models.ReminderEvent, channel, locale, summary string) {
	sugar := utils.GetLogger().Sugar()

	entry := &models.NotificationLog{
		ID:       uuid.NewString(),
		UserID:   event.UserID,
		Type:     event.Type,
		Message:  summary,
		Channel:  channel,
		EventKey: event.EventKey,
		Locale:   locale,
		CardID:   event.CardID,
		BudgetID: event.BudgetID,
		Read:     false,
		SentAt:   e.Now(),
	}
	if err := e.Notifications.InsertLog(entry); err != nil {
		sugar.Errorw("failed to write notification log", "userId", event.UserID, "eventKey", event.EventKey, "error", err)
	}
	if err := e.Dedup.MarkSent(event.UserID, event.EventKey, channel); err != nil {
		sugar.Errorw("failed to mark dedup", "userId", event.UserID, "eventKey", event.EventKey, "error", err)
	}
}

func (e *DefaultEngine) pushData(event models.ReminderEvent, locale string, content models.NotificationContent) map[string]string {
	data := map[string]string{
		"type":     event.Type,
		"eventKey": event.EventKey,
		"locale":   locale,
		"url":      content.URL,
	}
	if event.CardID != "" {
		data["cardId"] = event.CardID
	}
	if event.BudgetID != "" {
		data["budgetId"] = event.BudgetID
	}
	return data
}

// resolveLocale returns the user's locale, cached per run, defaulting to en
// on any missing or malformed data.
func (e *DefaultEngine) resolveLocale(userID string) string {
	if locale, ok := e.localeCache[userID]; ok {
		return locale
	}
	locale, err := e.Users.GetLocale(userID)
	if err != nil || locale == "" {
		locale = templates.LocaleEnglish
	}
	e.localeCache[userID] = locale
	return locale
}

// deviceTokens returns the user's push targets, cached per run. Lookup
// errors degrade to "no tokens".
func (e *DefaultEngine) deviceTokens(userID string) []string {
	if tokens, ok := e.tokenCache[userID]; ok {
		return tokens
	}
	tokens, err := e.Users.GetDeviceTokens(userID)
	if err != nil {
		utils.GetLogger().Sugar().Warnw("failed to resolve device tokens", "userId", userID, "error", err)
		tokens = nil
	}
	e.tokenCache[userID] = tokens
	return tokens
}

// email returns the user's verified address, cached per run. Lookup errors
// degrade to "no email".
func (e *DefaultEngine) email(userID string) string {
	if addr, ok := e.emailCache[userID]; ok {
		if addr == nil {
			return ""
		}
		return *addr
	}
	addr, err := e.Users.GetVerifiedEmail(userID)
	if err != nil {
		utils.GetLogger().Sugar().Warnw("failed to resolve email", "userId", userID, "error", err)
		addr = ""
	}
	if addr == "" {
		e.emailCache[userID] = nil
		return ""
	}
	e.emailCache[userID] = &addr
	return addr
}

// SendTestPush pushes a fixed test notification to the user's devices,
// bypassing dedup through a unique event key.
func (e *DefaultEngine) SendTestPush(ctx context.Context, userID string) error {
	tokens := e.deviceTokens(userID)
	if len(tokens) == 0 {
		return fmt.Errorf("user %s: %w", userID, ErrNoRecipient)
	}

	const title = "Test notification"
	const body = "Push notifications are set up correctly."
	eventKey := fmt.Sprintf("test:push:%d", e.Now().Unix())

	_, _, err := e.Push.SendMulticast(ctx, tokens, title, body, map[string]string{
		"type":     models.TypeTestPush,
		"eventKey": eventKey,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransportFailed, err)
	}

	e.recordDelivery(models.ReminderEvent{
		UserID:   userID,
		Type:     models.TypeTestPush,
		EventKey: eventKey,
	}, models.ChannelPush, e.resolveLocale(userID), body)
	return nil
}

// SendTestEmail sends a fixed test email to the user's verified address.
func (e *DefaultEngine) SendTestEmail(ctx context.Context, userID string) error {
	if e.Email == nil {
		return ErrEmailDisabled
	}
	addr := e.email(userID)
	if addr == "" {
		return fmt.Errorf("user %s: %w", userID, ErrNoRecipient)
	}

	const subject = "Test email"
	const body = "Email notifications are set up correctly."
	eventKey := fmt.Sprintf("test:email:%d", e.Now().Unix())

	if err := e.Email.Send(ctx, addr, subject, "<p>"+body+"</p>", body); err != nil {
		return fmt.Errorf("%w: %v", ErrTransportFailed, err)
	}

	e.recordDelivery(models.ReminderEvent{
		UserID:   userID,
		Type:     models.TypeTestEmail,
		EventKey: eventKey,
	}, models.ChannelEmail, e.resolveLocale(userID), body)
	return nil
}
