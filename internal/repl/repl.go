package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/notexe/reminder/internal/config"
	"github.com/notexe/reminder/internal/reminder"
	"github.com/notexe/reminder/internal/scheduler"
	"github.com/notexe/reminder/internal/ui"
)

// REPL is the interactive shell for managing reminders while the scheduler
// runs in the background of the same process.
type REPL struct {
	store     *reminder.Store
	sched     *scheduler.Scheduler
	config    *config.Config
	formatter *ui.Formatter
	status    *ui.StatusDisplay
	now       func() time.Time

	// choose picks one option; replaced in tests.
	choose func(question string, options []ui.SelectorOption, current string) (string, error)

	mu  sync.Mutex // guards rl, which is recreated around the selector
	rl  lineReader
	out io.Writer
}

func NewREPL(store *reminder.Store, cfg *config.Config) (*REPL, error) {
	formatter := ui.NewFormatter(cfg.UI.ColoredOutput)

	rl, err := setupReadline(formatter.FormatPrompt(), cfg.UI.HistoryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	r := newREPL(store, cfg, rl, nil)
	r.choose = r.selectOption
	return r, nil
}

// newREPL wires a REPL around an arbitrary line reader. A nil out writes
// through the line reader's terminal.
func newREPL(store *reminder.Store, cfg *config.Config, rl lineReader, out io.Writer) *REPL {
	formatter := ui.NewFormatter(cfg.UI.ColoredOutput)
	r := &REPL{
		store:     store,
		config:    cfg,
		formatter: formatter,
		now:       time.Now,
		rl:        rl,
		out:       out,
	}
	r.status = ui.NewStatusDisplay(formatter, r.Output(), out == nil)
	return r
}

// SetScheduler attaches the background scheduler used by /check and
// /status.
func (r *REPL) SetScheduler(s *scheduler.Scheduler) {
	r.sched = s
}

// Output returns a writer that prints above the prompt without corrupting
// the line being edited. Notification sinks write here while the shell runs.
func (r *REPL) Output() io.Writer {
	return shellWriter{r: r}
}

type shellWriter struct{ r *REPL }

func (w shellWriter) Write(p []byte) (int, error) {
	w.r.mu.Lock()
	defer w.r.mu.Unlock()
	if w.r.out != nil {
		return w.r.out.Write(p)
	}
	if rl, ok := w.r.rl.(interface{ Stdout() io.Writer }); ok {
		return rl.Stdout().Write(p)
	}
	return os.Stdout.Write(p)
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.Stop()

	r.displayWelcome()

	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				r.println("\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if !isCommand {
			r.displayInfo("Commands start with /. Type /help for the list, or /add to create a reminder.")
			continue
		}

		if err := r.handleCommand(ctx, command, args); err != nil {
			r.displayError(err)
		}

		if command == "/quit" || command == "/exit" || command == "/q" {
			return nil
		}
	}
}

func (r *REPL) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rl != nil {
		r.rl.Close()
	}
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/add", "/a":
		return r.handleAdd(ctx, args)

	case "/list", "/ls":
		return r.handleList(ctx, args)

	case "/today", "/t":
		return r.handleToday(ctx)

	case "/show":
		return r.handleShow(ctx, args)

	case "/done", "/complete":
		return r.handleDone(ctx, args)

	case "/delete", "/rm":
		return r.handleDelete(ctx, args)

	case "/edit", "/e":
		return r.handleEdit(ctx, args)

	case "/log":
		return r.handleLog(ctx, args)

	case "/check":
		return r.handleCheck(ctx)

	case "/status":
		return r.handleStatus()

	case "/quit", "/exit", "/q":
		r.println("\nGoodbye!")
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}
