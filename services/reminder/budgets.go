package reminder

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	budgetRepo "finbook/database/repository/budget"
	"finbook/models"
)

// BudgetScanner produces usage alerts for budgets crossing their configured
// thresholds. DefaultThresholds applies to budgets without their own list.
type BudgetScanner struct {
	Budgets           budgetRepo.BudgetRepository
	DefaultThresholds []int
}

// Scan walks every budget and collects one event per crossed threshold.
// Budgets with neither a positive limit nor positive spend are skipped.
func (s *BudgetScanner) Scan(ctx context.Context, now time.Time) ([]models.ReminderEvent, error) {
	budgets, err := s.Budgets.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to scan budgets: %w", err)
	}

	var events []models.ReminderEvent
	for i := range budgets {
		events = append(events, BudgetEvents(&budgets[i], s.DefaultThresholds)...)
	}
	return events, nil
}

// BudgetEvents derives the alert events for one budget. A budget past both
// 80 and 100 emits two events with distinct keys. Pure.
func BudgetEvents(budget *models.Budget, defaultThresholds []int) []models.ReminderEvent {
	if budget.LimitAmount <= 0 && budget.SpentAmount <= 0 {
		return nil
	}

	var usage float64
	if budget.LimitAmount <= 0 {
		usage = math.Inf(1)
	} else {
		usage = budget.SpentAmount / budget.LimitAmount * 100
	}

	thresholds := budget.AlertThresholds
	if len(thresholds) == 0 {
		thresholds = defaultThresholds
	}
	if len(thresholds) == 0 {
		thresholds = []int{80, 100}
	}

	var events []models.ReminderEvent
	for _, th := range normalizeThresholds(thresholds) {
		if usage < float64(th) {
			continue
		}
		events = append(events, models.ReminderEvent{
			UserID:   budget.UserID,
			Type:     models.BudgetAlertType(th),
			EventKey: fmt.Sprintf("budget:%s:usage:%d", budget.ID, th),
			BudgetID: budget.ID,
			Template: models.BudgetAlertTemplate{
				BudgetName:  budget.Name,
				Percent:     usage,
				Threshold:   th,
				SpentAmount: budget.SpentAmount,
				LimitAmount: budget.LimitAmount,
			},
		})
	}
	return events
}

// normalizeThresholds deduplicates and sorts ascending.
func normalizeThresholds(thresholds []int) []int {
	seen := make(map[int]bool, len(thresholds))
	var out []int
	for _, th := range thresholds {
		if !seen[th] {
			seen[th] = true
			out = append(out, th)
		}
	}
	sort.Ints(out)
	return out
}
