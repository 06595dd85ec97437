// models/reminder.go
package models

import (
	"fmt"
	"time"
)

// Reminder event types.
const (
	TypeDueReminder   = "due-reminder"
	TypeUtilization80 = "utilization-80"
	TypeUtilization95 = "utilization-95"
	TypeTestPush      = "test-push"
	TypeTestEmail     = "test-email"
)

// BudgetAlertType returns the event type for a crossed budget threshold,
// e.g. "budget-80".
func BudgetAlertType(threshold int) string {
	return fmt.Sprintf("budget-%d", threshold)
}

// ReminderEvent instructs the notification engine to notify one user about
// one condition occurrence. Events are built fresh on every scan and are
// never persisted; EventKey is deterministic so repeated scans converge on
// the same dedup key.
type ReminderEvent struct {
	UserID   string
	Type     string
	EventKey string
	Template ReminderTemplate
	CardID   string
	BudgetID string
}

// ReminderTemplate is the closed set of renderable reminder payloads. The
// unexported marker keeps the set closed: a new kind cannot reach the engine
// without a rendering arm for it.
type ReminderTemplate interface {
	reminderTemplate()
}

// DueReminderTemplate renders a payment due-date reminder.
type DueReminderTemplate struct {
	CardName   string
	DaysToDue  int
	DueDate    time.Time
	CurrentDue float64
}

// UtilizationTemplate renders a credit utilization alert. Threshold is the
// crossed boundary (80 or 95); Percent is the actual utilization.
type UtilizationTemplate struct {
	CardName    string
	Percent     float64
	Threshold   int
	CurrentDue  float64
	LimitAmount float64
}

// BudgetAlertTemplate renders a budget usage alert for one crossed threshold.
type BudgetAlertTemplate struct {
	BudgetName  string
	Percent     float64
	Threshold   int
	SpentAmount float64
	LimitAmount float64
}

func (DueReminderTemplate) reminderTemplate() {}
func (UtilizationTemplate) reminderTemplate() {}
func (BudgetAlertTemplate) reminderTemplate() {}
