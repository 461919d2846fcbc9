package reminder

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Recurrence controls how DueAt advances after the main notification fires.
type Recurrence string

const (
	RecurNone    Recurrence = "none"
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Status values for reminders.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// DueLayout is the minute-resolution wall-clock format used by every
// interactive surface.
const DueLayout = "2006-01-02 15:04"

var (
	// ErrNotFound is returned when no reminder exists with the requested id.
	ErrNotFound = errors.New("reminder not found")

	// ErrConflict is returned by a guarded Update when the record no longer
	// matches the caller's snapshot (edited due-time or completed).
	ErrConflict = errors.New("reminder changed concurrently")
)

// ValidationError reports a bad field supplied at create or edit time.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Reminder is a single time-stamped reminder with its delivery state.
type Reminder struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueAt        time.Time  `json:"due_at"`
	Category     string     `json:"category,omitempty"`
	Recurrence   Recurrence `json:"recurrence"`
	Status       Status     `json:"status"`
	MainFired    bool       `json:"main_fired"`
	AdvanceFired bool       `json:"advance_fired"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPending reports whether the reminder still takes part in evaluation.
func (r Reminder) IsPending() bool {
	return r.Status == StatusPending
}

// ParseRecurrence maps user input onto a Recurrence. The empty string and
// "once" both mean RecurNone.
func ParseRecurrence(s string) (Recurrence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "once":
		return RecurNone, nil
	case "daily":
		return RecurDaily, nil
	case "weekly":
		return RecurWeekly, nil
	case "monthly":
		return RecurMonthly, nil
	}
	return "", &ValidationError{Field: "recurrence", Msg: fmt.Sprintf("%q is not one of none, daily, weekly, monthly", s)}
}

// ParseStatus maps user input onto a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(StatusPending):
		return StatusPending, nil
	case string(StatusCompleted):
		return StatusCompleted, nil
	}
	return "", &ValidationError{Field: "status", Msg: fmt.Sprintf("%q is not one of pending, completed", s)}
}

// ParseDueAt parses a due-time given either as "YYYY-MM-DD HH:MM" wall time
// in loc or as RFC 3339. The result is truncated to the minute and expressed
// in loc.
func ParseDueAt(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &ValidationError{Field: "due_at", Msg: "is required"}
	}
	t, err := time.ParseInLocation(DueLayout, s, loc)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, &ValidationError{Field: "due_at", Msg: fmt.Sprintf("%q, expected YYYY-MM-DD HH:MM or RFC3339", s)}
		}
	}
	return t.In(loc).Truncate(time.Minute), nil
}

// Validate checks the fields a caller controls before the reminder reaches
// the store.
func Validate(r Reminder) error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	if r.DueAt.IsZero() {
		return &ValidationError{Field: "due_at", Msg: "is required"}
	}
	if _, err := ParseRecurrence(string(r.Recurrence)); err != nil {
		return err
	}
	if r.Status != "" {
		if _, err := ParseStatus(string(r.Status)); err != nil {
			return err
		}
	}
	return nil
}
