// Package reminder computes which notification events are due "now" from
// card, budget and transaction records.
package reminder

import "time"

// BillingCycle is one statement-to-statement window of a card, with the
// payment date that follows it. Start, End and DueDate are midnight dates.
type BillingCycle struct {
	Start     time.Time
	End       time.Time
	DueDate   time.Time
	DaysToDue int
}

// ComputeBillingCycle derives the cycle containing today for a card with the
// given statement and due days-of-month. The cycle ends on this month's
// statement date when today's day-of-month is at or before the statement
// day, otherwise on next month's; it starts the day after the previous
// statement date. The due date is the dueDay-th of the cycle-end month,
// rolled to the next month when it would land on or before the cycle end.
// DaysToDue is a calendar-day difference, both dates taken at midnight.
func ComputeBillingCycle(today time.Time, statementDay, dueDay int) BillingCycle {
	t := midnight(today)
	loc := t.Location()

	var end time.Time
	if t.Day() <= statementDay {
		end = monthDay(t.Year(), t.Month(), statementDay, loc)
	} else {
		end = monthDay(t.Year(), t.Month()+1, statementDay, loc)
	}
	start := monthDay(end.Year(), end.Month()-1, statementDay, loc).AddDate(0, 0, 1)

	due := monthDay(end.Year(), end.Month(), dueDay, loc)
	if !due.After(end) {
		due = monthDay(end.Year(), end.Month()+1, dueDay, loc)
	}

	return BillingCycle{
		Start:     start,
		End:       end,
		DueDate:   due,
		DaysToDue: daysBetween(t, due),
	}
}

// monthDay builds the given day-of-month at midnight, clamping day to the
// month's length. Month may be out of the 1-12 range and is normalized the
// usual Go way.
func monthDay(year int, month time.Month, day int, loc *time.Location) time.Time {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, immune to DST offsets.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
