package templates

import (
	"fmt"
	"math"
	"time"

	"finbook/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// englishSet is the default template set.
type englishSet struct {
	base string
}

var enPrinter = message.NewPrinter(language.English)

func enMoney(v float64) string {
	return enPrinter.Sprintf("$%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func enDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func (s englishSet) DueReminder(in models.DueReminderTemplate) models.NotificationContent {
	var title, body string
	switch {
	case in.DaysToDue < 0:
		title = fmt.Sprintf("%s payment overdue", in.CardName)
		body = fmt.Sprintf("Your %s payment was due on %s. Outstanding balance %s.",
			in.CardName, enDate(in.DueDate), enMoney(in.CurrentDue))
	case in.DaysToDue == 0:
		title = fmt.Sprintf("%s payment due today", in.CardName)
		body = fmt.Sprintf("Your %s payment of %s is due today.",
			in.CardName, enMoney(in.CurrentDue))
	case in.DaysToDue == 1:
		title = fmt.Sprintf("%s payment due tomorrow", in.CardName)
		body = fmt.Sprintf("Your %s payment of %s is due tomorrow.",
			in.CardName, enMoney(in.CurrentDue))
	default:
		title = fmt.Sprintf("%s payment due in %d days", in.CardName, in.DaysToDue)
		body = fmt.Sprintf("Your %s payment of %s is due in %d days (%s).",
			in.CardName, enMoney(in.CurrentDue), in.DaysToDue, enDate(in.DueDate))
	}

	link := deepLink(s.base, "/cards")
	return models.NotificationContent{
		Summary: body,
		Push:    models.PushContent{Title: title, Body: body},
		Email: models.EmailContent{
			Subject: title,
			HTML:    emailHTML(body, link, "View your cards"),
		},
		URL: link,
	}
}

func (s englishSet) UtilizationAlert(in models.UtilizationTemplate) models.NotificationContent {
	pct := int(math.Round(in.Percent))
	body := fmt.Sprintf("You've used %d%% of your %s limit (%s of %s).",
		pct, in.CardName, enMoney(in.CurrentDue), enMoney(in.LimitAmount))

	var title, subject string
	if in.Threshold >= 95 {
		title = fmt.Sprintf("%s is almost maxed out", in.CardName)
		subject = fmt.Sprintf("Urgent: %s is at %d%% utilization", in.CardName, pct)
	} else {
		title = fmt.Sprintf("High utilization on %s", in.CardName)
		subject = fmt.Sprintf("Heads up: %s is at %d%% utilization", in.CardName, pct)
	}

	link := deepLink(s.base, "/cards")
	return models.NotificationContent{
		Summary: body,
		Push:    models.PushContent{Title: title, Body: body},
		Email: models.EmailContent{
			Subject: subject,
			HTML:    emailHTML(body, link, "View your cards"),
		},
		URL: link,
	}
}

func (s englishSet) BudgetAlert(in models.BudgetAlertTemplate) models.NotificationContent {
	var title, subject, body string
	if in.Percent >= 100 {
		title = fmt.Sprintf("%s budget exceeded", in.BudgetName)
		subject = fmt.Sprintf("Budget exceeded: %s", in.BudgetName)
		body = fmt.Sprintf("You've spent %s of your %s budget (limit %s).",
			enMoney(in.SpentAmount), in.BudgetName, enMoney(in.LimitAmount))
	} else {
		reached := int(math.Round(in.Percent))
		if reached < in.Threshold {
			reached = in.Threshold
		}
		title = fmt.Sprintf("%s budget at %d%%", in.BudgetName, reached)
		subject = fmt.Sprintf("Budget alert: %s reached %d%%", in.BudgetName, reached)
		body = fmt.Sprintf("You've reached %d%% of your %s budget (%s of %s).",
			reached, in.BudgetName, enMoney(in.SpentAmount), enMoney(in.LimitAmount))
	}

	link := deepLink(s.base, "/budgets")
	return models.NotificationContent{
		Summary: body,
		Push:    models.PushContent{Title: title, Body: body},
		Email: models.EmailContent{
			Subject: subject,
			HTML:    emailHTML(body, link, "View your budgets"),
		},
		URL: link,
	}
}

// emailHTML wraps a rendered body and deep link in the shared email markup.
func emailHTML(body, link, linkText string) string {
	return fmt.Sprintf("<p>%s</p><p><a href=%q>%s</a></p>", body, link, linkText)
}
