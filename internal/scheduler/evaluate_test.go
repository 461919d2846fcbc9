package scheduler

import (
	"testing"
	"time"

	"github.com/notexe/reminder/internal/reminder"
)

func ids(rs []reminder.Reminder) []int64 {
	out := make([]int64, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	window := 10 * time.Minute

	pending := func(id int64, due time.Time) reminder.Reminder {
		return reminder.Reminder{ID: id, Title: "r", DueAt: due, Status: reminder.StatusPending}
	}

	tests := []struct {
		name        string
		in          reminder.Reminder
		window      time.Duration
		wantMain    bool
		wantAdvance bool
	}{
		{name: "due now", in: pending(1, now), window: window, wantMain: true},
		{name: "overdue after downtime", in: pending(1, now.Add(-72*time.Hour)), window: window, wantMain: true},
		{name: "inside window", in: pending(1, now.Add(5*time.Minute)), window: window, wantAdvance: true},
		{name: "window edge", in: pending(1, now.Add(window)), window: window, wantAdvance: true},
		{name: "beyond window", in: pending(1, now.Add(window+time.Minute)), window: window},
		{name: "window disabled", in: pending(1, now.Add(5*time.Minute)), window: 0},
		{
			name: "main already fired",
			in: func() reminder.Reminder {
				r := pending(1, now.Add(-time.Minute))
				r.MainFired = true
				return r
			}(),
			window: window,
		},
		{
			name: "advance already fired",
			in: func() reminder.Reminder {
				r := pending(1, now.Add(time.Minute))
				r.AdvanceFired = true
				return r
			}(),
			window: window,
		},
		{
			name: "advance fired but main still due",
			in: func() reminder.Reminder {
				r := pending(1, now.Add(-time.Minute))
				r.AdvanceFired = true
				return r
			}(),
			window:   window,
			wantMain: true,
		},
		{
			name: "completed never fires",
			in: func() reminder.Reminder {
				r := pending(1, now.Add(-time.Hour))
				r.Status = reminder.StatusCompleted
				return r
			}(),
			window: window,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Evaluate(now, []reminder.Reminder{tt.in}, tt.window)
			if got := len(set.Main) == 1; got != tt.wantMain {
				t.Errorf("main: got %v, want %v", got, tt.wantMain)
			}
			if got := len(set.Advance) == 1; got != tt.wantAdvance {
				t.Errorf("advance: got %v, want %v", got, tt.wantAdvance)
			}
		})
	}
}

func TestEvaluatePreservesOrderAndIsPure(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	rs := []reminder.Reminder{
		{ID: 3, DueAt: now.Add(-time.Minute), Status: reminder.StatusPending},
		{ID: 1, DueAt: now.Add(2 * time.Minute), Status: reminder.StatusPending},
		{ID: 2, DueAt: now.Add(-time.Hour), Status: reminder.StatusPending},
		{ID: 4, DueAt: now.Add(time.Minute), Status: reminder.StatusPending},
	}

	first := Evaluate(now, rs, 10*time.Minute)
	second := Evaluate(now, rs, 10*time.Minute)

	if want := []int64{3, 2}; !sameIDs(ids(first.Main), want) {
		t.Errorf("main: got %v, want %v", ids(first.Main), want)
	}
	if want := []int64{1, 4}; !sameIDs(ids(first.Advance), want) {
		t.Errorf("advance: got %v, want %v", ids(first.Advance), want)
	}
	if !sameIDs(ids(first.Main), ids(second.Main)) || !sameIDs(ids(first.Advance), ids(second.Advance)) {
		t.Error("repeated evaluation gave different results")
	}
	for _, r := range rs {
		if r.MainFired || r.AdvanceFired {
			t.Fatalf("Evaluate mutated its input: %+v", r)
		}
	}
}

func TestDueSetEmpty(t *testing.T) {
	if !(DueSet{}).Empty() {
		t.Error("zero DueSet should be empty")
	}
	if (DueSet{Main: []reminder.Reminder{{ID: 1}}}).Empty() {
		t.Error("DueSet with a main reminder is not empty")
	}
}
