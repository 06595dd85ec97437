package reminder

import (
	"testing"
	"time"

	"finbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billableCard() *models.Card {
	return &models.Card{
		ID:           "card-1",
		UserID:       "user-1",
		Name:         "Travel Card",
		StatementDay: 1,
		DueDay:       10,
		LimitAmount:  1000,
	}
}

func cycleWithDaysToDue(days int) BillingCycle {
	due := date(2025, time.June, 10)
	return BillingCycle{
		Start:     date(2025, time.May, 2),
		End:       date(2025, time.June, 1),
		DueDate:   due,
		DaysToDue: days,
	}
}

func TestCardEventsDueBoundarySet(t *testing.T) {
	for _, days := range []int{7, 3, 1, 0, -1, -10} {
		events := CardEvents(billableCard(), cycleWithDaysToDue(days), 100)
		require.Len(t, events, 1, "daysToDue=%d", days)
		assert.Equal(t, models.TypeDueReminder, events[0].Type)
	}
	for _, days := range []int{8, 6, 5, 4, 2, 30} {
		events := CardEvents(billableCard(), cycleWithDaysToDue(days), 100)
		assert.Empty(t, events, "daysToDue=%d", days)
	}
}

func TestCardEventsDueKeyIsDeterministic(t *testing.T) {
	a := CardEvents(billableCard(), cycleWithDaysToDue(3), 100)
	b := CardEvents(billableCard(), cycleWithDaysToDue(3), 100)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "card:card-1:due:3", a[0].EventKey)
	assert.Equal(t, a[0].EventKey, b[0].EventKey)
}

func TestCardEventsUtilizationExclusivity(t *testing.T) {
	// 97% crosses both boundaries but only the critical event fires.
	events := CardEvents(billableCard(), cycleWithDaysToDue(5), 970)
	require.Len(t, events, 1)
	assert.Equal(t, models.TypeUtilization95, events[0].Type)
	assert.Equal(t, "card:card-1:utilization:95", events[0].EventKey)

	tmpl, ok := events[0].Template.(models.UtilizationTemplate)
	require.True(t, ok)
	assert.Equal(t, 95, tmpl.Threshold)
	assert.InDelta(t, 97.0, tmpl.Percent, 0.001)
}

func TestCardEventsUtilizationWarning(t *testing.T) {
	events := CardEvents(billableCard(), cycleWithDaysToDue(5), 810)
	require.Len(t, events, 1)
	assert.Equal(t, models.TypeUtilization80, events[0].Type)
	assert.Equal(t, "card:card-1:utilization:80", events[0].EventKey)
}

func TestCardEventsBelowWarningEmitsNothing(t *testing.T) {
	events := CardEvents(billableCard(), cycleWithDaysToDue(5), 500)
	assert.Empty(t, events)
}

func TestCardEventsDueTodayAndCriticalUtilization(t *testing.T) {
	// A card due today at 95% utilization yields both events, under
	// distinct keys, in one scan.
	events := CardEvents(billableCard(), cycleWithDaysToDue(0), 950)
	require.Len(t, events, 2)

	assert.Equal(t, models.TypeDueReminder, events[0].Type)
	assert.Equal(t, models.TypeUtilization95, events[1].Type)
	assert.NotEqual(t, events[0].EventKey, events[1].EventKey)
	for _, ev := range events {
		assert.Equal(t, "user-1", ev.UserID)
		assert.Equal(t, "card-1", ev.CardID)
	}
}

func TestBudgetEventsMultiThreshold(t *testing.T) {
	budget := &models.Budget{
		ID:          "budget-1",
		UserID:      "user-1",
		Name:        "Groceries",
		LimitAmount: 500,
		SpentAmount: 600, // 120%
	}

	events := BudgetEvents(budget, []int{80, 100})
	require.Len(t, events, 2)
	assert.Equal(t, "budget-80", events[0].Type)
	assert.Equal(t, "budget-100", events[1].Type)
	assert.Equal(t, "budget:budget-1:usage:80", events[0].EventKey)
	assert.Equal(t, "budget:budget-1:usage:100", events[1].EventKey)
}

func TestBudgetEventsZeroLimitPositiveSpend(t *testing.T) {
	budget := &models.Budget{ID: "b", UserID: "u", Name: "Misc", SpentAmount: 10}

	events := BudgetEvents(budget, []int{80, 100})
	require.Len(t, events, 2, "infinite usage crosses every threshold")
}

func TestBudgetEventsSkipsEmptyBudget(t *testing.T) {
	assert.Empty(t, BudgetEvents(&models.Budget{ID: "b", UserID: "u"}, []int{80, 100}))
}

func TestBudgetEventsOwnThresholdsOverrideDefaults(t *testing.T) {
	budget := &models.Budget{
		ID:              "b",
		UserID:          "u",
		Name:            "Dining",
		LimitAmount:     100,
		SpentAmount:     55,
		AlertThresholds: []int{50, 50, 90},
	}

	events := BudgetEvents(budget, []int{80, 100})
	require.Len(t, events, 1)
	assert.Equal(t, "budget-50", events[0].Type)
}

func TestBudgetEventsBelowAllThresholds(t *testing.T) {
	budget := &models.Budget{ID: "b", UserID: "u", Name: "Fuel", LimitAmount: 100, SpentAmount: 20}
	assert.Empty(t, BudgetEvents(budget, []int{80, 100}))
}

func TestNormalizeThresholds(t *testing.T) {
	assert.Equal(t, []int{50, 80, 100}, normalizeThresholds([]int{100, 50, 80, 50, 100}))
}
