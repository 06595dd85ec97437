package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"finbook/models"
	"finbook/services/notification/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// --- fakes ---

type fakeNotificationRepo struct {
	mu    sync.Mutex
	dedup map[string]models.DedupRecord
	logs  []models.NotificationLog
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{dedup: make(map[string]models.DedupRecord)}
}

func (f *fakeNotificationRepo) GetDedup(key string) (*models.DedupRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.dedup[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeNotificationRepo) UpsertDedup(rec *models.DedupRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dedup[rec.Key] = *rec
	return nil
}

func (f *fakeNotificationRepo) InsertLog(entry *models.NotificationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, *entry)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(userID string, limit int64) ([]models.NotificationLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.NotificationLog
	for _, e := range f.logs {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(userID string) (int64, error) {
	entries, _ := f.ListByUser(userID, 0)
	var n int64
	for _, e := range entries {
		if !e.Read {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkRead(userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.logs {
		if f.logs[i].ID == id && f.logs[i].UserID == userID {
			f.logs[i].Read = true
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeNotificationRepo) logsOnChannel(channel string) []models.NotificationLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.NotificationLog
	for _, e := range f.logs {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

type fakeUserRepo struct {
	locale string
	tokens []string
	email  string
}

func (f *fakeUserRepo) GetByID(id string) (*models.User, error)       { return nil, errors.New("unused") }
func (f *fakeUserRepo) GetByEmail(email string) (*models.User, error) { return nil, nil }
func (f *fakeUserRepo) Create(user *models.User) error                { return nil }
func (f *fakeUserRepo) Update(user *models.User) error                { return nil }
func (f *fakeUserRepo) Delete(id string) error                        { return nil }
func (f *fakeUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return nil, errors.New("unused")
}
func (f *fakeUserRepo) GetLocale(id string) (string, error)           { return f.locale, nil }
func (f *fakeUserRepo) GetDeviceTokens(id string) ([]string, error)   { return f.tokens, nil }
func (f *fakeUserRepo) GetVerifiedEmail(id string) (string, error)    { return f.email, nil }
func (f *fakeUserRepo) SetEmailVerified(id string) error              { return nil }
func (f *fakeUserRepo) UpsertDevice(id string, d models.Device) error { return nil }

type pushCall struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

type fakePushSender struct {
	calls []pushCall
	err   error
}

func (f *fakePushSender) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) (int, int, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.calls = append(f.calls, pushCall{tokens: tokens, title: title, body: body, data: data})
	return len(tokens), 0, nil
}

type emailCall struct {
	to      string
	subject string
	html    string
	plain   string
}

type fakeEmailSender struct {
	calls []emailCall
	err   error
}

func (f *fakeEmailSender) Send(ctx context.Context, to, subject, html, plain string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, emailCall{to: to, subject: subject, html: html, plain: plain})
	return nil
}

// --- harness ---

type engineFixture struct {
	engine *DefaultEngine
	users  *fakeUserRepo
	repo   *fakeNotificationRepo
	push   *fakePushSender
	email  *fakeEmailSender
	now    time.Time
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		users: &fakeUserRepo{
			locale: "en",
			tokens: []string{"token-a", "token-b"},
			email:  "user@example.com",
		},
		repo:  newFakeNotificationRepo(),
		push:  &fakePushSender{},
		email: &fakeEmailSender{},
		now:   time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC),
	}
	dedup := &DedupStore{Repo: f.repo, Window: 24 * time.Hour, Now: func() time.Time { return f.now }}
	f.engine = NewEngine(f.users, f.repo, dedup, f.push, f.email, templates.NewRegistry("https://app.finbook.test"))
	f.engine.Now = func() time.Time { return f.now }
	return f
}

// fresh rebuilds the engine as a new scan batch would, keeping the stores.
func (f *engineFixture) fresh() {
	dedup := &DedupStore{Repo: f.repo, Window: 24 * time.Hour, Now: func() time.Time { return f.now }}
	f.engine = NewEngine(f.users, f.repo, dedup, f.push, f.email, templates.NewRegistry("https://app.finbook.test"))
	f.engine.Now = func() time.Time { return f.now }
}

func dueEvent() models.ReminderEvent {
	return models.ReminderEvent{
		UserID:   "user-1",
		Type:     models.TypeDueReminder,
		EventKey: "card:card-1:due:0",
		CardID:   "card-1",
		Template: models.DueReminderTemplate{
			CardName:   "Travel Card",
			DaysToDue:  0,
			DueDate:    time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			CurrentDue: 950,
		},
	}
}

// --- tests ---

func TestDeliverReminderDispatchesBothChannels(t *testing.T) {
	f := newEngineFixture()

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	require.Len(t, f.push.calls, 1)
	require.Len(t, f.email.calls, 1)
	assert.Equal(t, []string{"token-a", "token-b"}, f.push.calls[0].tokens)
	assert.Equal(t, "user@example.com", f.email.calls[0].to)

	// One audit entry per channel, both marked in dedup.
	assert.Len(t, f.repo.logsOnChannel(models.ChannelPush), 1)
	assert.Len(t, f.repo.logsOnChannel(models.ChannelEmail), 1)
}

func TestDeliverReminderPushDataPayload(t *testing.T) {
	f := newEngineFixture()

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	data := f.push.calls[0].data
	assert.Equal(t, models.TypeDueReminder, data["type"])
	assert.Equal(t, "card:card-1:due:0", data["eventKey"])
	assert.Equal(t, "en", data["locale"])
	assert.Equal(t, "https://app.finbook.test/cards", data["url"])
	assert.Equal(t, "card-1", data["cardId"])
	_, hasBudget := data["budgetId"]
	assert.False(t, hasBudget)
}

func TestDeliverReminderIdempotentWithinWindow(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.engine.DeliverReminder(ctx, dueEvent()))

	// Second submission on a later run, same key, inside the window.
	f.now = f.now.Add(6 * time.Hour)
	f.fresh()
	require.NoError(t, f.engine.DeliverReminder(ctx, dueEvent()))

	assert.Len(t, f.push.calls, 1, "push suppressed")
	assert.Len(t, f.email.calls, 1, "email suppressed")
	assert.Len(t, f.repo.logsOnChannel(models.ChannelPush), 1)
	assert.Len(t, f.repo.logsOnChannel(models.ChannelEmail), 1)
}

func TestDeliverReminderResendsAfterWindow(t *testing.T) {
	f := newEngineFixture()
	ctx := context.Background()

	require.NoError(t, f.engine.DeliverReminder(ctx, dueEvent()))

	f.now = f.now.Add(25 * time.Hour)
	f.fresh()
	require.NoError(t, f.engine.DeliverReminder(ctx, dueEvent()))

	assert.Len(t, f.push.calls, 2, "expired window re-enables push")
	assert.Len(t, f.email.calls, 2, "expired window re-enables email")
}

func TestDeliverReminderChannelIndependence(t *testing.T) {
	// No email on file: push must still go out.
	f := newEngineFixture()
	f.users.email = ""

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	assert.Len(t, f.push.calls, 1)
	assert.Empty(t, f.email.calls)
	assert.Len(t, f.repo.logsOnChannel(models.ChannelPush), 1)
	assert.Empty(t, f.repo.logsOnChannel(models.ChannelEmail))

	// No push tokens: email must still go out.
	g := newEngineFixture()
	g.users.tokens = nil

	require.NoError(t, g.engine.DeliverReminder(context.Background(), dueEvent()))

	assert.Empty(t, g.push.calls)
	assert.Len(t, g.email.calls, 1)
}

func TestDeliverReminderEmailFailureDoesNotMark(t *testing.T) {
	f := newEngineFixture()
	f.email.err = errors.New("provider down")

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	// Push went through; the email branch left no trace, so the next run
	// retries it.
	assert.Len(t, f.repo.logsOnChannel(models.ChannelPush), 1)
	assert.Empty(t, f.repo.logsOnChannel(models.ChannelEmail))

	f.email.err = nil
	f.fresh()
	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	assert.Len(t, f.email.calls, 1, "email retried on the next run")
	assert.Len(t, f.push.calls, 1, "push still deduped")
}

func TestDeliverReminderPushFailureDoesNotMark(t *testing.T) {
	f := newEngineFixture()
	f.push.err = errors.New("fcm unreachable")

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	assert.Empty(t, f.repo.logsOnChannel(models.ChannelPush))
	assert.Len(t, f.repo.logsOnChannel(models.ChannelEmail), 1, "email branch unaffected")
}

func TestDeliverReminderNilEmailTransportSkips(t *testing.T) {
	f := newEngineFixture()
	f.engine.Email = nil

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	assert.Len(t, f.push.calls, 1)
	assert.Empty(t, f.repo.logsOnChannel(models.ChannelEmail))
}

func TestDeliverReminderUnhandledTemplate(t *testing.T) {
	f := newEngineFixture()
	event := dueEvent()
	event.Template = nil

	err := f.engine.DeliverReminder(context.Background(), event)
	require.Error(t, err)
	assert.Empty(t, f.push.calls)
	assert.Empty(t, f.email.calls)
}

func TestDeliverReminderLocalizedContent(t *testing.T) {
	f := newEngineFixture()
	f.users.locale = "zh-TW"

	require.NoError(t, f.engine.DeliverReminder(context.Background(), dueEvent()))

	require.Len(t, f.push.calls, 1)
	assert.Contains(t, f.push.calls[0].title, "今天到期")
	assert.Equal(t, "zh-TW", f.push.calls[0].data["locale"])

	entries := f.repo.logsOnChannel(models.ChannelPush)
	require.Len(t, entries, 1)
	assert.Equal(t, "zh-TW", entries[0].Locale)
}

func TestSendTestPush(t *testing.T) {
	f := newEngineFixture()

	require.NoError(t, f.engine.SendTestPush(context.Background(), "user-1"))
	require.Len(t, f.push.calls, 1)

	entries := f.repo.logsOnChannel(models.ChannelPush)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TypeTestPush, entries[0].Type)
}

func TestSendTestPushNoTokens(t *testing.T) {
	f := newEngineFixture()
	f.users.tokens = nil

	err := f.engine.SendTestPush(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSendTestPushTransportFailure(t *testing.T) {
	f := newEngineFixture()
	f.push.err = errors.New("fcm unreachable")

	err := f.engine.SendTestPush(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrTransportFailed)
	assert.Empty(t, f.repo.logsOnChannel(models.ChannelPush))
}

func TestSendTestEmailDisabled(t *testing.T) {
	f := newEngineFixture()
	f.engine.Email = nil

	err := f.engine.SendTestEmail(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrEmailDisabled)
}

func TestSendTestEmailNoAddress(t *testing.T) {
	f := newEngineFixture()
	f.users.email = ""

	err := f.engine.SendTestEmail(context.Background(), "user-1")
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSendTestEmail(t *testing.T) {
	f := newEngineFixture()

	require.NoError(t, f.engine.SendTestEmail(context.Background(), "user-1"))
	require.Len(t, f.email.calls, 1)
	assert.Equal(t, "user@example.com", f.email.calls[0].to)

	entries := f.repo.logsOnChannel(models.ChannelEmail)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TypeTestEmail, entries[0].Type)
}
