package templates

import (
	"testing"
	"time"

	"finbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		tag  string
		want string
	}{
		{"en", LocaleEnglish},
		{"en-US", LocaleEnglish},
		{"EN-gb", LocaleEnglish},
		{"zh-TW", LocaleHant},
		{"zh-HK", LocaleHant},
		{"zh-Hant", LocaleHant},
		{"zh-Hant-TW", LocaleHant}, // primary subtag match
		{"zh_CN", LocaleHant},
		{"fr", LocaleEnglish}, // unsupported falls back
		{"", LocaleEnglish},
		{"  en  ", LocaleEnglish},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Resolve(c.tag), "tag %q", c.tag)
	}
}

func TestForLocaleAlwaysReturnsSet(t *testing.T) {
	r := NewRegistry("https://app.finbook.test")
	for _, tag := range []string{"en", "zh-TW", "ko", "garbage", ""} {
		require.NotNil(t, r.ForLocale(tag), "tag %q", tag)
	}
}

func TestDueReminderPhrasing(t *testing.T) {
	r := NewRegistry("https://app.finbook.test")
	set := r.ForLocale("en")

	base := models.DueReminderTemplate{
		CardName:   "Travel Card",
		DueDate:    time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC),
		CurrentDue: 1234.5,
	}

	overdue := base
	overdue.DaysToDue = -3
	c := set.DueReminder(overdue)
	assert.Equal(t, "Travel Card payment overdue", c.Push.Title)
	assert.Contains(t, c.Push.Body, "was due on May 5, 2025")
	assert.Contains(t, c.Push.Body, "$1,234.5")

	today := base
	today.DaysToDue = 0
	c = set.DueReminder(today)
	assert.Equal(t, "Travel Card payment due today", c.Push.Title)

	tomorrow := base
	tomorrow.DaysToDue = 1
	c = set.DueReminder(tomorrow)
	assert.Equal(t, "Travel Card payment due tomorrow", c.Push.Title)

	soon := base
	soon.DaysToDue = 7
	c = set.DueReminder(soon)
	assert.Equal(t, "Travel Card payment due in 7 days", c.Push.Title)
	assert.Contains(t, c.Push.Body, "in 7 days (May 5, 2025)")
}

func TestDueReminderDeepLink(t *testing.T) {
	r := NewRegistry("https://app.finbook.test")
	in := models.DueReminderTemplate{CardName: "Travel Card", DaysToDue: 3, CurrentDue: 100,
		DueDate: time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)}

	c := r.ForLocale("en").DueReminder(in)
	assert.Equal(t, "https://app.finbook.test/cards", c.URL)
	assert.Contains(t, c.Email.HTML, `href="https://app.finbook.test/cards"`)
}

func TestUtilizationSeverityWording(t *testing.T) {
	r := NewRegistry("https://app.finbook.test")
	set := r.ForLocale("en")

	in := models.UtilizationTemplate{
		CardName:    "Travel Card",
		Percent:     97.0,
		Threshold:   95,
		CurrentDue:  970,
		LimitAmount: 1000,
	}
	c := set.UtilizationAlert(in)
	assert.Equal(t, "Travel Card is almost maxed out", c.Push.Title)
	assert.Equal(t, "Urgent: Travel Card is at 97% utilization", c.Email.Subject)

	in.Percent = 81.0
	in.Threshold = 80
	in.CurrentDue = 810
	c = set.UtilizationAlert(in)
	assert.Equal(t, "High utilization on Travel Card", c.Push.Title)
	assert.Equal(t, "Heads up: Travel Card is at 81% utilization", c.Email.Subject)
}

func TestBudgetAlertWording(t *testing.T) {
	r := NewRegistry("https://app.finbook.test")
	set := r.ForLocale("en")

	exceeded := models.BudgetAlertTemplate{
		BudgetName:  "Dining",
		Percent:     120,
		Threshold:   100,
		SpentAmount: 600,
		LimitAmount: 500,
	}
	c := set.BudgetAlert(exceeded)
	assert.Equal(t, "Dining budget exceeded", c.Push.Title)
	assert.Equal(t, "https://app.finbook.test/budgets", c.URL)

	// Rounded percent below the threshold reports the threshold, not 79%.
	nearThreshold := models.BudgetAlertTemplate{
		BudgetName:  "Dining",
		Percent:     79.4,
		Threshold:   80,
		SpentAmount: 397,
		LimitAmount: 500,
	}
	c = set.BudgetAlert(nearThreshold)
	assert.Equal(t, "Dining budget at 80%", c.Push.Title)

	aboveThreshold := models.BudgetAlertTemplate{
		BudgetName:  "Dining",
		Percent:     86.0,
		Threshold:   80,
		SpentAmount: 430,
		LimitAmount: 500,
	}
	c = set.BudgetAlert(aboveThreshold)
	assert.Equal(t, "Dining budget at 86%", c.Push.Title)
}

func TestHantContent(t *testing.T) {
	r := NewRegistry("https://app.finbook.test")
	set := r.ForLocale("zh-TW")

	c := set.DueReminder(models.DueReminderTemplate{
		CardName:   "旅遊卡",
		DaysToDue:  0,
		DueDate:    time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC),
		CurrentDue: 1234.5,
	})
	assert.Equal(t, "旅遊卡 帳單今天到期", c.Push.Title)
	assert.Contains(t, c.Push.Body, "NT$1,234.5")
	require.Equal(t, "https://app.finbook.test/cards", c.URL)

	u := set.UtilizationAlert(models.UtilizationTemplate{
		CardName: "旅遊卡", Percent: 97, Threshold: 95, CurrentDue: 970, LimitAmount: 1000,
	})
	assert.Contains(t, u.Email.Subject, "緊急")
}
