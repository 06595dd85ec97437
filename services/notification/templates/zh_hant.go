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

// hantSet renders Traditional Chinese content.
type hantSet struct {
	base string
}

var hantPrinter = message.NewPrinter(language.TraditionalChinese)

func hantMoney(v float64) string {
	return hantPrinter.Sprintf("NT$%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func hantDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

func (s hantSet) DueReminder(in models.DueReminderTemplate) models.NotificationContent {
	var title, body string
	switch {
	case in.DaysToDue < 0:
		title = fmt.Sprintf("%s 帳單已逾期", in.CardName)
		body = fmt.Sprintf("%s 的帳單已於 %s 到期，未繳金額 %s。",
			in.CardName, hantDate(in.DueDate), hantMoney(in.CurrentDue))
	case in.DaysToDue == 0:
		title = fmt.Sprintf("%s 帳單今天到期", in.CardName)
		body = fmt.Sprintf("%s 的帳單 %s 今天到期，請記得繳款。",
			in.CardName, hantMoney(in.CurrentDue))
	case in.DaysToDue == 1:
		title = fmt.Sprintf("%s 帳單明天到期", in.CardName)
		body = fmt.Sprintf("%s 的帳單 %s 明天到期。",
			in.CardName, hantMoney(in.CurrentDue))
	default:
		title = fmt.Sprintf("%s 帳單 %d 天後到期", in.CardName, in.DaysToDue)
		body = fmt.Sprintf("%s 的帳單 %s 將於 %d 天後（%s）到期。",
			in.CardName, hantMoney(in.CurrentDue), in.DaysToDue, hantDate(in.DueDate))
	}

	link := deepLink(s.base, "/cards")
	return models.NotificationContent{
		Summary: body,
		Push:    models.PushContent{Title: title, Body: body},
		Email: models.EmailContent{
			Subject: title,
			HTML:    emailHTML(body, link, "查看我的卡片"),
		},
		URL: link,
	}
}

func (s hantSet) UtilizationAlert(in models.UtilizationTemplate) models.NotificationContent {
	pct := int(math.Round(in.Percent))
	body := fmt.Sprintf("%s 已使用 %d%% 的信用額度（%s / %s）。",
		in.CardName, pct, hantMoney(in.CurrentDue), hantMoney(in.LimitAmount))

	var title, subject string
	if in.Threshold >= 95 {
		title = fmt.Sprintf("%s 額度即將用罄", in.CardName)
		subject = fmt.Sprintf("緊急：%s 使用率已達 %d%%", in.CardName, pct)
	} else {
		title = fmt.Sprintf("%s 使用率偏高", in.CardName)
		subject = fmt.Sprintf("提醒：%s 使用率已達 %d%%", in.CardName, pct)
	}

	link := deepLink(s.base, "/cards")
	return models.NotificationContent{
		Summary: body,
		Push:    models.PushContent{Title: title, Body: body},
		Email: models.EmailContent{
			Subject: subject,
			HTML:    emailHTML(body, link, "查看我的卡片"),
		},
		URL: link,
	}
}

func (s hantSet) BudgetAlert(in models.BudgetAlertTemplate) models.NotificationContent {
	var title, subject, body string
	if in.Percent >= 100 {
		title = fmt.Sprintf("%s 預算已超支", in.BudgetName)
		subject = fmt.Sprintf("預算超支：%s", in.BudgetName)
		body = fmt.Sprintf("%s 預算已花費 %s（上限 %s）。",
			in.BudgetName, hantMoney(in.SpentAmount), hantMoney(in.LimitAmount))
	} else {
		reached := int(math.Round(in.Percent))
		if reached < in.Threshold {
			reached = in.Threshold
		}
		title = fmt.Sprintf("%s 預算已達 %d%%", in.BudgetName, reached)
		subject = fmt.Sprintf("預算提醒：%s 已達 %d%%", in.BudgetName, reached)
		body = fmt.Sprintf("%s 預算已使用 %d%%（%s / %s）。",
			in.BudgetName, reached, hantMoney(in.SpentAmount), hantMoney(in.LimitAmount))
	}

	link := deepLink(s.base, "/budgets")
	return models.NotificationContent{
		Summary: body,
		Push:    models.PushContent{Title: title, Body: body},
		Email: models.EmailContent{
			Subject: subject,
			HTML:    emailHTML(body, link, "查看我的預算"),
		},
		URL: link,
	}
}
