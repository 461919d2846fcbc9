package repl

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/reminder/internal/reminder"
	"github.com/notexe/reminder/internal/ui"
)

const defaultLogLimit = 50

var recurrenceOptions = []ui.SelectorOption{
	{Label: string(reminder.RecurNone), Description: "once"},
	{Label: string(reminder.RecurDaily), Description: "every day"},
	{Label: string(reminder.RecurWeekly), Description: "every week"},
	{Label: string(reminder.RecurMonthly), Description: "same day each month"},
}

func (r *REPL) handleAdd(ctx context.Context, args string) error {
	title := args
	var err error
	if title == "" {
		if title, err = r.ask("Title", ""); err != nil {
			return err
		}
	}
	if strings.TrimSpace(title) == "" {
		return &reminder.ValidationError{Field: "title", Msg: "must not be empty"}
	}

	description, err := r.ask("Description (optional)", "")
	if err != nil {
		return err
	}

	defaultDue := r.now().In(r.store.Location()).Add(time.Hour).Truncate(time.Hour)
	dueText, err := r.ask("Due (YYYY-MM-DD HH:MM)", defaultDue.Format(reminder.DueLayout))
	if err != nil {
		return err
	}
	dueAt, err := reminder.ParseDueAt(dueText, r.store.Location())
	if err != nil {
		return err
	}

	category, err := r.ask("Category (optional)", "")
	if err != nil {
		return err
	}

	recurrence, err := r.chooseRecurrence(reminder.RecurNone)
	if err != nil {
		return err
	}

	id, err := r.store.Create(ctx, reminder.Reminder{
		Title:       title,
		Description: description,
		DueAt:       dueAt,
		Category:    category,
		Recurrence:  recurrence,
	})
	if err != nil {
		return err
	}

	if !dueAt.After(r.now()) {
		r.displaySystem("That time has already passed; the reminder fires on the next check.")
	}
	r.displaySuccess(fmt.Sprintf("Added reminder #%d due %s", id, dueAt.Format(reminder.DueLayout)))
	return nil
}

func (r *REPL) chooseRecurrence(current reminder.Recurrence) (reminder.Recurrence, error) {
	choice, err := r.choose("Repeat?", recurrenceOptions, string(current))
	if err != nil {
		return "", err
	}
	return reminder.ParseRecurrence(choice)
}

func (r *REPL) handleList(ctx context.Context, args string) error {
	var status reminder.Status
	heading := "All reminders"
	switch strings.ToLower(args) {
	case "", "pending":
		status, heading = reminder.StatusPending, "Pending reminders"
	case "completed", "done":
		status, heading = reminder.StatusCompleted, "Completed reminders"
	case "all":
	default:
		return fmt.Errorf("usage: /list [pending|completed|all]")
	}

	rs, err := r.store.List(ctx, status)
	if err != nil {
		return err
	}

	r.println(r.formatter.FormatReminderList(heading, rs, r.now()))
	return nil
}

func (r *REPL) handleToday(ctx context.Context) error {
	now := r.now().In(r.store.Location())
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Minute)

	overdue, err := r.store.ListRange(ctx, time.Time{}, start.Add(-time.Minute), reminder.StatusPending)
	if err != nil {
		return err
	}
	today, err := r.store.ListRange(ctx, start, end, "")
	if err != nil {
		return err
	}

	if len(overdue) > 0 {
		r.println(r.formatter.FormatReminderList("Overdue", overdue, now))
	}
	r.println(r.formatter.FormatReminderList("Today, "+start.Format("Mon 2006-01-02"), today, now))
	return nil
}

func (r *REPL) handleShow(ctx context.Context, args string) error {
	id, err := parseID("/show", args)
	if err != nil {
		return err
	}

	rem, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	r.println(r.formatter.FormatReminderDetails(rem))
	r.println("")
	return nil
}

func (r *REPL) handleDone(ctx context.Context, args string) error {
	id, err := parseID("/done", args)
	if err != nil {
		return err
	}

	if err := r.store.Complete(ctx, id); err != nil {
		return err
	}

	r.displaySuccess(fmt.Sprintf("Reminder #%d marked as completed.", id))
	return nil
}

func (r *REPL) handleDelete(ctx context.Context, args string) error {
	id, err := parseID("/delete", args)
	if err != nil {
		return err
	}

	rem, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	ok, err := r.confirm(fmt.Sprintf("Delete #%d %q?", id, rem.Title))
	if err != nil {
		return err
	}
	if !ok {
		r.displayInfo("Nothing deleted.")
		return nil
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}

	r.displaySuccess(fmt.Sprintf("Reminder #%d deleted.", id))
	return nil
}

// handleEdit asks for every field with the current value pre-filled and
// writes only what changed.
func (r *REPL) handleEdit(ctx context.Context, args string) error {
	id, err := parseID("/edit", args)
	if err != nil {
		return err
	}

	cur, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}

	var fields reminder.UpdateFields
	changed := false

	title, err := r.ask("Title", cur.Title)
	if err != nil {
		return err
	}
	if title != cur.Title {
		fields.Title, changed = &title, true
	}

	description, err := r.ask("Description", cur.Description)
	if err != nil {
		return err
	}
	if description != cur.Description {
		fields.Description, changed = &description, true
	}

	dueText, err := r.ask("Due (YYYY-MM-DD HH:MM)", cur.DueAt.Format(reminder.DueLayout))
	if err != nil {
		return err
	}
	dueAt, err := reminder.ParseDueAt(dueText, r.store.Location())
	if err != nil {
		return err
	}
	if !dueAt.Equal(cur.DueAt) {
		fields.DueAt, changed = &dueAt, true
	}

	category, err := r.ask("Category", cur.Category)
	if err != nil {
		return err
	}
	if category != cur.Category {
		fields.Category, changed = &category, true
	}

	recurrence, err := r.chooseRecurrence(cur.Recurrence)
	if err != nil {
		return err
	}
	if recurrence != cur.Recurrence {
		fields.Recurrence, changed = &recurrence, true
	}

	if !changed {
		r.displayInfo("No changes.")
		return nil
	}

	updated, err := r.store.Update(ctx, id, fields)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Reminder #%d updated.", id)
	if fields.DueAt != nil {
		msg += " Notifications re-armed for " + updated.DueAt.Format(reminder.DueLayout) + "."
	}
	r.displaySuccess(msg)
	return nil
}

func (r *REPL) handleLog(ctx context.Context, args string) error {
	limit := defaultLogLimit
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: /log [n]")
		}
		limit = n
	}

	rs, err := r.store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	r.println(r.formatter.FormatReminderList(fmt.Sprintf("Task log (last %d)", limit), rs, r.now()))
	return nil
}

func (r *REPL) handleCheck(ctx context.Context) error {
	if r.sched == nil {
		return errors.New("scheduler is not attached")
	}

	r.status.Show("Checking reminders...")
	rep := r.sched.Tick(ctx)
	r.status.Hide()

	if rep.Err != nil {
		return fmt.Errorf("check failed: %w", rep.Err)
	}

	r.displayInfo(fmt.Sprintf("Checked at %s: %d warning(s), %d reminder(s) sent, %d skipped, %d failed.",
		rep.At.Format("15:04:05"), rep.Advance, rep.Main, rep.Skipped, rep.Failed))
	return nil
}

func (r *REPL) handleStatus() error {
	if r.sched == nil {
		return errors.New("scheduler is not attached")
	}

	r.displayInfo(fmt.Sprintf("Scheduler %s. Checks every %s, warns %s ahead.",
		r.sched.State(), r.config.Scheduler.PollInterval, r.config.Scheduler.AdvanceWindow))
	return nil
}
