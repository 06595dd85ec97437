package reminder

import (
	"context"
	"fmt"
	"time"

	cardRepo "finbook/database/repository/card"
	transactionRepo "finbook/database/repository/transaction"
	"finbook/models"
	"finbook/utils"
)

// Days-to-due values that trigger a due reminder. Overdue cards (negative
// days) remind on every scan; the dedup window is the only throttle there.
var dueReminderDays = map[int]bool{7: true, 3: true, 1: true, 0: true}

// Utilization boundaries, highest first. A card crossing 95 emits only the
// 95 event.
const (
	utilizationCritical = 0.95
	utilizationWarning  = 0.80
)

// CardScanner produces due-date and utilization events for all billable cards.
type CardScanner struct {
	Cards        cardRepo.CardRepository
	Transactions transactionRepo.TransactionRepository
}

// Scan walks every card, computes its current billing cycle and spend, and
// collects the events due now. Cards without a complete billing
// configuration, and cards whose spend lookup fails, are skipped.
func (s *CardScanner) Scan(ctx context.Context, now time.Time) ([]models.ReminderEvent, error) {
	sugar := utils.GetLogger().Sugar()

	cards, err := s.Cards.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to scan cards: %w", err)
	}

	var events []models.ReminderEvent
	for i := range cards {
		card := &cards[i]
		if !card.HasBillingConfig() {
			continue
		}

		cycle := ComputeBillingCycle(now, card.StatementDay, card.DueDay)
		spend, err := s.Transactions.SumCardSpend(card.ID, cycle.Start, cycle.End.AddDate(0, 0, 1))
		if err != nil {
			sugar.Warnw("skipping card, spend lookup failed", "cardId", card.ID, "error", err)
			continue
		}

		events = append(events, CardEvents(card, cycle, spend)...)
	}
	return events, nil
}

// CardEvents derives the reminder events for one card given its cycle and
// current-bill spend. Pure.
func CardEvents(card *models.Card, cycle BillingCycle, spend float64) []models.ReminderEvent {
	var events []models.ReminderEvent

	if cycle.DaysToDue < 0 || dueReminderDays[cycle.DaysToDue] {
		events = append(events, models.ReminderEvent{
			UserID:   card.UserID,
			Type:     models.TypeDueReminder,
			EventKey: fmt.Sprintf("card:%s:due:%d", card.ID, cycle.DaysToDue),
			CardID:   card.ID,
			Template: models.DueReminderTemplate{
				CardName:   card.Name,
				DaysToDue:  cycle.DaysToDue,
				DueDate:    cycle.DueDate,
				CurrentDue: spend,
			},
		})
	}

	utilization := spend / card.LimitAmount
	var threshold int
	var eventType string
	switch {
	case utilization >= utilizationCritical:
		threshold, eventType = 95, models.TypeUtilization95
	case utilization >= utilizationWarning:
		threshold, eventType = 80, models.TypeUtilization80
	default:
		return events
	}

	events = append(events, models.ReminderEvent{
		UserID:   card.UserID,
		Type:     eventType,
		EventKey: fmt.Sprintf("card:%s:utilization:%d", card.ID, threshold),
		CardID:   card.ID,
		Template: models.UtilizationTemplate{
			CardName:    card.Name,
			Percent:     utilization * 100,
			Threshold:   threshold,
			CurrentDue:  spend,
			LimitAmount: card.LimitAmount,
		},
	})
	return events
}
