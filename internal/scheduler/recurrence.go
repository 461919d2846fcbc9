package scheduler

import (
	"time"

	"github.com/notexe/reminder/internal/reminder"
)

// Advance returns the state a reminder moves to after its main notification
// fired at firedAt. Non-recurring reminders only get MainFired set. Recurring
// ones move exactly one step from DueAt with both flags cleared. firedAt never
// shifts the schedule: a late tick keeps the original wall-clock time, and an
// occurrence still in the past fires on the following tick.
func Advance(r reminder.Reminder, firedAt time.Time) reminder.Reminder {
	if r.Recurrence == reminder.RecurNone || r.Recurrence == "" {
		r.MainFired = true
		return r
	}

	r.DueAt = occurrence(r.DueAt, r.Recurrence, 1)
	r.MainFired = false
	r.AdvanceFired = false
	return r
}

// occurrence returns the k-th repetition after due.
func occurrence(due time.Time, rec reminder.Recurrence, k int) time.Time {
	switch rec {
	case reminder.RecurDaily:
		return due.AddDate(0, 0, k)
	case reminder.RecurWeekly:
		return due.AddDate(0, 0, 7*k)
	case reminder.RecurMonthly:
		return addMonths(due, k)
	}
	return due
}

// addMonths moves t by n calendar months, clamping the day to the last day
// of the target month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	target := time.Month(int(m) + n)
	if last := daysIn(y, target, t.Location()); d > last {
		d = last
	}
	return time.Date(y, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the following month normalises to the last day of month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
