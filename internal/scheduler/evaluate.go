package scheduler

import (
	"time"

	"github.com/notexe/reminder/internal/reminder"
)

// DueSet is the result of one evaluation. A reminder can be in both slices
// when the advance window is shorter than the poll interval; Main wins.
type DueSet struct {
	Advance []reminder.Reminder
	Main    []reminder.Reminder
}

// Empty reports whether nothing crossed a boundary.
func (d DueSet) Empty() bool {
	return len(d.Advance) == 0 && len(d.Main) == 0
}

// Evaluate returns the reminders that crossed their main or advance
// boundary at now and have not been marked fired for it. It has no notion
// of a missed window: a due-time passed while the process was down still
// qualifies on the first evaluation afterwards. Input order is preserved.
// A non-positive advanceWindow disables advance warnings.
func Evaluate(now time.Time, rs []reminder.Reminder, advanceWindow time.Duration) DueSet {
	var set DueSet
	horizon := now.Add(advanceWindow)
	for _, r := range rs {
		if !r.IsPending() {
			continue
		}
		if !r.MainFired && !r.DueAt.After(now) {
			set.Main = append(set.Main, r)
		}
		if advanceWindow > 0 && !r.AdvanceFired && r.DueAt.After(now) && !r.DueAt.After(horizon) {
			set.Advance = append(set.Advance, r)
		}
	}
	return set
}
