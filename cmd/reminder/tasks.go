package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notexe/reminder/internal/app"
	"github.com/notexe/reminder/internal/reminder"
	"github.com/notexe/reminder/internal/ui"
	"github.com/urfave/cli"
)

var (
	addDue         string
	addDescription string
	addCategory    string
	addRepeat      string

	listCompleted bool
	listAll       bool

	logLimit int

	addFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "due, d",
			Usage:       "due time as \"YYYY-MM-DD HH:MM\" or RFC3339 (default: next full hour)",
			Destination: &addDue,
		},
		cli.StringFlag{
			Name:        "description, m",
			Usage:       "text shown in the notification",
			Destination: &addDescription,
		},
		cli.StringFlag{
			Name:        "category, c",
			Usage:       "free-form category",
			Destination: &addCategory,
		},
		cli.StringFlag{
			Name:        "repeat, r",
			Usage:       "none, daily, weekly or monthly",
			Value:       string(reminder.RecurNone),
			Destination: &addRepeat,
		},
	}

	listFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "completed, c",
			Usage:       "list completed reminders instead of pending ones",
			Destination: &listCompleted,
		},
		cli.BoolFlag{
			Name:        "all, a",
			Usage:       "list every reminder",
			Destination: &listAll,
		},
	}

	logFlags = []cli.Flag{
		cli.IntFlag{
			Name:        "n",
			Usage:       "number of entries",
			Value:       50,
			Destination: &logLimit,
		},
	}
)

// withStore runs fn against the configured store and closes it afterwards.
func withStore(fn func(context.Context, *reminder.Store, *ui.Formatter) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(context.Background(), store, ui.NewFormatter(cfg.UI.ColoredOutput))
}

func argID(ctx *cli.Context) (int64, error) {
	arg := strings.TrimPrefix(ctx.Args().First(), "#")
	if arg == "" {
		return 0, fmt.Errorf("usage: reminder %s <id>", ctx.Command.Name)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", ctx.Args().First())
	}
	return id, nil
}

func add(ctx *cli.Context) error {
	title := strings.Join(ctx.Args(), " ")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("usage: reminder add <title> [--due \"YYYY-MM-DD HH:MM\"]")
	}

	return withStore(func(c context.Context, store *reminder.Store, f *ui.Formatter) error {
		dueAt := time.Now().In(store.Location()).Add(time.Hour).Truncate(time.Hour)
		if addDue != "" {
			var err error
			if dueAt, err = reminder.ParseDueAt(addDue, store.Location()); err != nil {
				return err
			}
		}

		recurrence, err := reminder.ParseRecurrence(addRepeat)
		if err != nil {
			return err
		}

		id, err := store.Create(c, reminder.Reminder{
			Title:       title,
			Description: addDescription,
			DueAt:       dueAt,
			Category:    addCategory,
			Recurrence:  recurrence,
		})
		if err != nil {
			return err
		}

		fmt.Println(f.FormatSuccess(fmt.Sprintf("Added reminder #%d due %s", id, dueAt.Format(reminder.DueLayout))))
		return nil
	})
}

func list(ctx *cli.Context) error {
	return withStore(func(c context.Context, store *reminder.Store, f *ui.Formatter) error {
		status, heading := reminder.StatusPending, "Pending reminders"
		switch {
		case listAll:
			status, heading = "", "All reminders"
		case listCompleted:
			status, heading = reminder.StatusCompleted, "Completed reminders"
		}

		rs, err := store.List(c, status)
		if err != nil {
			return err
		}
		fmt.Print(f.FormatReminderList(heading, rs, time.Now()))
		return nil
	})
}

func complete(ctx *cli.Context) error {
	id, err := argID(ctx)
	if err != nil {
		return err
	}
	return withStore(func(c context.Context, store *reminder.Store, f *ui.Formatter) error {
		if err := store.Complete(c, id); err != nil {
			return err
		}
		fmt.Println(f.FormatSuccess(fmt.Sprintf("Reminder #%d marked as completed.", id)))
		return nil
	})
}

func remove(ctx *cli.Context) error {
	id, err := argID(ctx)
	if err != nil {
		return err
	}
	return withStore(func(c context.Context, store *reminder.Store, f *ui.Formatter) error {
		if err := store.Delete(c, id); err != nil {
			return err
		}
		fmt.Println(f.FormatSuccess(fmt.Sprintf("Reminder #%d deleted.", id)))
		return nil
	})
}

func showLog(ctx *cli.Context) error {
	if logLimit <= 0 {
		return errors.New("-n must be positive")
	}
	return withStore(func(c context.Context, store *reminder.Store, f *ui.Formatter) error {
		rs, err := store.Recent(c, logLimit)
		if err != nil {
			return err
		}
		fmt.Print(f.FormatReminderList(fmt.Sprintf("Task log (last %d)", logLimit), rs, time.Now()))
		return nil
	})
}

// check runs a single evaluation with the configured sinks, e.g. from cron.
func check(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	c, err := app.New(cfg, newLogger(os.Stderr), os.Stdout)
	if err != nil {
		return err
	}
	defer c.Close()

	rep := c.Scheduler.Tick(context.Background())
	if rep.Err != nil {
		return fmt.Errorf("check failed: %w", rep.Err)
	}

	f := ui.NewFormatter(cfg.UI.ColoredOutput)
	fmt.Println(f.FormatInfo(fmt.Sprintf("%d warning(s), %d reminder(s) sent, %d skipped, %d failed.",
		rep.Advance, rep.Main, rep.Skipped, rep.Failed)))
	return nil
}
