package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeBillingCycleRollForward(t *testing.T) {
	// Day after the statement: the cycle rolls into next month and the due
	// date, landing before the new cycle end, rolls a month further.
	cycle := ComputeBillingCycle(date(2025, time.March, 16), 15, 5)

	assert.Equal(t, date(2025, time.March, 16), cycle.Start)
	assert.Equal(t, date(2025, time.April, 15), cycle.End)
	assert.Equal(t, date(2025, time.May, 5), cycle.DueDate)
	assert.Equal(t, 50, cycle.DaysToDue)
}

func TestComputeBillingCycleOnStatementDay(t *testing.T) {
	cycle := ComputeBillingCycle(date(2025, time.March, 15), 15, 5)

	assert.Equal(t, date(2025, time.February, 16), cycle.Start)
	assert.Equal(t, date(2025, time.March, 15), cycle.End)
	// The 5th of March is before the cycle end, so the due date rolls.
	assert.Equal(t, date(2025, time.April, 5), cycle.DueDate)
	assert.Equal(t, 21, cycle.DaysToDue)
}

func TestComputeBillingCycleDueAfterEndStays(t *testing.T) {
	// dueDay past the statement day stays in the cycle-end month.
	cycle := ComputeBillingCycle(date(2025, time.March, 10), 15, 20)

	assert.Equal(t, date(2025, time.March, 15), cycle.End)
	assert.Equal(t, date(2025, time.March, 20), cycle.DueDate)
	assert.Equal(t, 10, cycle.DaysToDue)
}

func TestComputeBillingCycleClampsShortMonths(t *testing.T) {
	// statementDay 31 in a cycle touching February clamps to the 28th.
	cycle := ComputeBillingCycle(date(2025, time.February, 10), 31, 10)

	assert.Equal(t, date(2025, time.February, 28), cycle.End)
	assert.Equal(t, date(2025, time.February, 1), cycle.Start)
	assert.Equal(t, date(2025, time.March, 10), cycle.DueDate)
}

func TestComputeBillingCycleNormalizesTime(t *testing.T) {
	// Wall-clock time of day must not change the calendar-day difference.
	late := time.Date(2025, time.March, 16, 23, 45, 0, 0, time.UTC)
	cycle := ComputeBillingCycle(late, 15, 5)

	assert.Equal(t, 50, cycle.DaysToDue)
}

func TestComputeBillingCycleYearBoundary(t *testing.T) {
	cycle := ComputeBillingCycle(date(2025, time.December, 20), 15, 10)

	assert.Equal(t, date(2025, time.December, 16), cycle.Start)
	assert.Equal(t, date(2026, time.January, 15), cycle.End)
	// January 10 is before the cycle end, so payment is due in February.
	assert.Equal(t, date(2026, time.February, 10), cycle.DueDate)
}

func TestDaysBetweenIsCalendarDays(t *testing.T) {
	a := time.Date(2025, time.March, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, daysBetween(a, b))
	assert.Equal(t, -1, daysBetween(b, a))
}
