package reminder

import (
	"errors"
	"testing"
	"time"
)

func TestParseDueAt(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{name: "wall clock", in: "2024-01-31 09:00", want: time.Date(2024, 1, 31, 9, 0, 0, 0, loc)},
		{name: "rfc3339 converted", in: "2024-01-31T07:00:00Z", want: time.Date(2024, 1, 31, 9, 0, 0, 0, loc)},
		{name: "seconds truncated", in: "2024-01-31T07:00:59Z", want: time.Date(2024, 1, 31, 9, 0, 0, 0, loc)},
		{name: "trimmed", in: "  2024-02-29 23:59 ", want: time.Date(2024, 2, 29, 23, 59, 0, 0, loc)},
		{name: "empty", in: "", wantErr: true},
		{name: "garbage", in: "tomorrow", wantErr: true},
		{name: "bad month", in: "2024-13-01 10:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDueAt(tt.in, loc)
			if tt.wantErr {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if ve.Field != "due_at" {
					t.Errorf("expected field due_at, got %q", ve.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	for in, want := range map[string]Recurrence{
		"":        RecurNone,
		"once":    RecurNone,
		"None":    RecurNone,
		"daily":   RecurDaily,
		"WEEKLY":  RecurWeekly,
		"monthly": RecurMonthly,
	} {
		got, err := ParseRecurrence(in)
		if err != nil {
			t.Errorf("ParseRecurrence(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseRecurrence(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseRecurrence("hourly"); err == nil {
		t.Error("expected error for hourly")
	}
}

func TestValidate(t *testing.T) {
	due := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)

	if err := Validate(Reminder{Title: "Staff meeting", DueAt: due}); err != nil {
		t.Fatalf("expected valid reminder, got %v", err)
	}

	cases := map[string]Reminder{
		"title":      {Title: "   ", DueAt: due},
		"due_at":     {Title: "x"},
		"recurrence": {Title: "x", DueAt: due, Recurrence: "yearly"},
		"status":     {Title: "x", DueAt: due, Status: "archived"},
	}
	for field, r := range cases {
		err := Validate(r)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("%s: expected ValidationError, got %v", field, err)
			continue
		}
		if ve.Field != field {
			t.Errorf("expected field %q, got %q", field, ve.Field)
		}
	}
}
