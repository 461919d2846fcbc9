package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/notexe/reminder/internal/config"
	"github.com/notexe/reminder/internal/notify"
	"github.com/notexe/reminder/internal/reminder"
	"github.com/notexe/reminder/internal/scheduler"
	"github.com/notexe/reminder/internal/ui"
)

// keep accepts the pre-filled default in a scripted answer.
const keep = "\x00keep"

type scriptedReader struct {
	lines []string
}

func (s *scriptedReader) next(def string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	if line == keep {
		return def, nil
	}
	return line, nil
}

func (s *scriptedReader) Readline() (string, error) { return s.next("") }
func (s *scriptedReader) ReadlineWithDefault(d string) (string, error) { return s.next(d) }
func (s *scriptedReader) SetPrompt(string) {}
func (s *scriptedReader) Close() error { return nil }

var testNow = time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)

func newTestREPL(t *testing.T, lines ...string) (*REPL, *reminder.Store, *bytes.Buffer) {
	t.Helper()
	store, err := reminder.NewStore(filepath.Join(t.TempDir(), "reminders.db"), time.UTC)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{PollInterval: time.Minute, AdvanceWindow: 10 * time.Minute},
	}
	var out bytes.Buffer
	r := newREPL(store, cfg, &scriptedReader{lines: lines}, &out)
	r.now = func() time.Time { return testNow }
	r.choose = func(_ string, _ []ui.SelectorOption, current string) (string, error) {
		return current, nil
	}
	return r, store, &out
}

func TestParseCommand(t *testing.T) {
	r, _, _ := newTestREPL(t)

	isCmd, cmd, args := r.parseCommand("/DONE  12")
	if !isCmd || cmd != "/done" || args != "12" {
		t.Errorf("got %v %q %q", isCmd, cmd, args)
	}
	if isCmd, _, _ := r.parseCommand("hello"); isCmd {
		t.Error("plain text is not a command")
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("/show", " #42 "); err != nil || id != 42 {
		t.Errorf("got %d, %v", id, err)
	}
	for _, bad := range []string{"", "abc", "0", "-3"} {
		if _, err := parseID("/show", bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestAdd(t *testing.T) {
	r, store, out := newTestREPL(t,
		"Staff meeting",
		"Room 4",
		"2024-02-01 15:30",
		"Meeting",
	)
	r.choose = func(_ string, _ []ui.SelectorOption, _ string) (string, error) {
		return "weekly", nil
	}

	if err := r.handleCommand(context.Background(), "/add", ""); err != nil {
		t.Fatalf("/add: %v", err)
	}

	rs, _ := store.List(context.Background(), "")
	if len(rs) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(rs))
	}
	got := rs[0]
	if got.Title != "Staff meeting" || got.Description != "Room 4" || got.Category != "Meeting" || got.Recurrence != reminder.RecurWeekly {
		t.Errorf("unexpected reminder %+v", got)
	}
	if want := time.Date(2024, 2, 1, 15, 30, 0, 0, time.UTC); !got.DueAt.Equal(want) {
		t.Errorf("due: got %v, want %v", got.DueAt, want)
	}
	if !strings.Contains(out.String(), "Added reminder #1") {
		t.Errorf("missing confirmation in %q", out.String())
	}
}

func TestAddDefaultDueAndTitleArg(t *testing.T) {
	r, store, _ := newTestREPL(t, "", keep, "")

	if err := r.handleCommand(context.Background(), "/add", "Call parents"); err != nil {
		t.Fatalf("/add: %v", err)
	}
	rs, _ := store.List(context.Background(), "")
	if len(rs) != 1 || rs[0].Title != "Call parents" {
		t.Fatalf("unexpected reminders %+v", rs)
	}
	if want := testNow.Add(time.Hour); !rs[0].DueAt.Equal(want) {
		t.Errorf("expected default due %v, got %v", want, rs[0].DueAt)
	}
}

func TestAddRejectsBadDue(t *testing.T) {
	r, store, _ := newTestREPL(t, "x", "", "tomorrow-ish")

	err := r.handleCommand(context.Background(), "/add", "")
	var ve *reminder.ValidationError
	if !errors.As(err, &ve) || ve.Field != "due_at" {
		t.Fatalf("expected due_at ValidationError, got %v", err)
	}
	if rs, _ := store.List(context.Background(), ""); len(rs) != 0 {
		t.Errorf("nothing should be stored, got %d", len(rs))
	}
}

func TestEditResetsFiredFlags(t *testing.T) {
	r, store, out := newTestREPL(t, keep, keep, "2024-01-31 09:05", keep)
	ctx := context.Background()

	id, _ := store.Create(ctx, reminder.Reminder{Title: "Exam", DueAt: testNow.Add(-time.Hour)})
	yes := true
	store.Update(ctx, id, reminder.UpdateFields{MainFired: &yes, AdvanceFired: &yes})

	if err := r.handleCommand(ctx, "/edit", "1"); err != nil {
		t.Fatalf("/edit: %v", err)
	}

	got, _ := store.Get(ctx, id)
	if got.Title != "Exam" || got.MainFired || got.AdvanceFired {
		t.Errorf("expected re-armed reminder, got %+v", got)
	}
	if !strings.Contains(out.String(), "re-armed") {
		t.Errorf("expected re-arm notice in %q", out.String())
	}
}

func TestEditNoChanges(t *testing.T) {
	r, store, out := newTestREPL(t, keep, keep, keep, keep)
	ctx := context.Background()
	store.Create(ctx, reminder.Reminder{Title: "Exam", DueAt: testNow})

	if err := r.handleCommand(ctx, "/edit", "1"); err != nil {
		t.Fatalf("/edit: %v", err)
	}
	if !strings.Contains(out.String(), "No changes.") {
		t.Errorf("expected no-op message, got %q", out.String())
	}
}

func TestDoneDeleteAndNotFound(t *testing.T) {
	r, store, _ := newTestREPL(t, "n", "y")
	ctx := context.Background()
	id, _ := store.Create(ctx, reminder.Reminder{Title: "x", DueAt: testNow})

	if err := r.handleCommand(ctx, "/done", "1"); err != nil {
		t.Fatalf("/done: %v", err)
	}
	if got, _ := store.Get(ctx, id); got.Status != reminder.StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}

	// First answer declines, second confirms.
	if err := r.handleCommand(ctx, "/delete", "1"); err != nil {
		t.Fatalf("/delete declined: %v", err)
	}
	if _, err := store.Get(ctx, id); err != nil {
		t.Fatalf("declined delete removed the reminder: %v", err)
	}
	if err := r.handleCommand(ctx, "/delete", "1"); err != nil {
		t.Fatalf("/delete: %v", err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, reminder.ErrNotFound) {
		t.Errorf("expected deleted, got %v", err)
	}

	if err := r.handleCommand(ctx, "/show", "1"); !errors.Is(err, reminder.ErrNotFound) {
		t.Errorf("expected ErrNotFound from /show, got %v", err)
	}
}

func TestListTodayLog(t *testing.T) {
	r, store, out := newTestREPL(t)
	ctx := context.Background()
	store.Create(ctx, reminder.Reminder{Title: "yesterday", DueAt: testNow.AddDate(0, 0, -1)})
	store.Create(ctx, reminder.Reminder{Title: "this afternoon", DueAt: testNow.Add(5 * time.Hour)})
	store.Create(ctx, reminder.Reminder{Title: "next week", DueAt: testNow.AddDate(0, 0, 7)})

	if err := r.handleCommand(ctx, "/today", ""); err != nil {
		t.Fatalf("/today: %v", err)
	}
	today := out.String()
	if !strings.Contains(today, "Overdue") || !strings.Contains(today, "yesterday") || !strings.Contains(today, "this afternoon") {
		t.Errorf("unexpected /today output %q", today)
	}
	if strings.Contains(today, "next week") {
		t.Errorf("/today must not include next week: %q", today)
	}

	out.Reset()
	if err := r.handleCommand(ctx, "/list", ""); err != nil {
		t.Fatalf("/list: %v", err)
	}
	if !strings.Contains(out.String(), "next week") {
		t.Errorf("unexpected /list output %q", out.String())
	}
	if err := r.handleCommand(ctx, "/list", "archived"); err == nil {
		t.Error("expected usage error")
	}

	out.Reset()
	if err := r.handleCommand(ctx, "/log", "2"); err != nil {
		t.Fatalf("/log: %v", err)
	}
	if !strings.Contains(out.String(), "last 2") || strings.Contains(out.String(), "yesterday") {
		t.Errorf("unexpected /log output %q", out.String())
	}
}

func TestCheckAndStatus(t *testing.T) {
	r, store, out := newTestREPL(t)
	ctx := context.Background()

	if err := r.handleCommand(ctx, "/check", ""); err == nil {
		t.Error("expected error without scheduler")
	}

	store.Create(ctx, reminder.Reminder{Title: "now", DueAt: testNow})
	sink := notify.NewConsole(r.Output())
	r.SetScheduler(scheduler.New(store, sink, nil, scheduler.Config{Now: r.now}))

	if err := r.handleCommand(ctx, "/check", ""); err != nil {
		t.Fatalf("/check: %v", err)
	}
	if !strings.Contains(out.String(), "⏰ REMINDER: now") || !strings.Contains(out.String(), "1 reminder(s) sent") {
		t.Errorf("unexpected /check output %q", out.String())
	}

	out.Reset()
	if err := r.handleCommand(ctx, "/status", ""); err != nil {
		t.Fatalf("/status: %v", err)
	}
	if !strings.Contains(out.String(), "Scheduler idle") {
		t.Errorf("unexpected /status output %q", out.String())
	}
}

func TestStartLoop(t *testing.T) {
	r, _, out := newTestREPL(t, "hello", "/bogus", "/help", "/quit")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Commands start with /", "unknown command: /bogus", "/add [title]", "Goodbye!"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestStartEOF(t *testing.T) {
	r, _, out := newTestREPL(t)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Errorf("expected goodbye on EOF, got %q", out.String())
	}
}
