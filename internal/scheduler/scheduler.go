package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/notexe/reminder/internal/logger"
	"github.com/notexe/reminder/internal/notify"
	"github.com/notexe/reminder/internal/reminder"
)

var (
	// ErrStopped is returned by Start once the scheduler has been stopped.
	ErrStopped = errors.New("scheduler stopped")

	// ErrInvalidInterval is returned by Start for a non-positive poll interval.
	ErrInvalidInterval = errors.New("poll interval must be positive")

	// ErrStopTimeout is returned by Stop when the loop did not reach Stopped
	// within the stop timeout. The loop still stops once its tick finishes.
	ErrStopTimeout = errors.New("timed out waiting for scheduler to stop")
)

// Store is the part of the reminder store the scheduler needs.
type Store interface {
	ListPending(ctx context.Context) ([]reminder.Reminder, error)
	Get(ctx context.Context, id int64) (reminder.Reminder, error)
	Update(ctx context.Context, id int64, f reminder.UpdateFields) (reminder.Reminder, error)
}

// State is the lifecycle state of a Scheduler.
type State int

const (
	Idle State = iota
	Running
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds the scheduler's bounds. Zero values fall back to defaults.
type Config struct {
	// AdvanceWindow is used by Tick before Start sets one. Zero means
	// DefaultAdvanceWindow, a negative value disables advance warnings.
	AdvanceWindow time.Duration
	// CallTimeout bounds every single store or sink call.
	CallTimeout time.Duration
	// StopTimeout bounds how long Stop waits for the loop.
	StopTimeout time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

const (
	DefaultPollInterval  = 60 * time.Second
	DefaultAdvanceWindow = 10 * time.Minute
	DefaultCallTimeout   = 10 * time.Second
	DefaultStopTimeout   = 30 * time.Second
)

// TickReport summarises one evaluation.
type TickReport struct {
	At      time.Time
	Advance int // advance notifications dispatched
	Main    int // main notifications dispatched
	Skipped int // records deleted, completed or edited since the snapshot
	Failed  int // dispatch or persist failures, retried next tick
	Err     error
}

// Scheduler periodically evaluates pending reminders, dispatches
// notifications and writes the fired state back to the store.
type Scheduler struct {
	store Store
	sink  notify.Sink
	log   logger.Logger
	cfg   Config

	mu     sync.Mutex
	state  State
	window time.Duration
	stop   chan struct{}
	done   chan struct{}

	// tickMu keeps ticks strictly sequential between the loop and Tick.
	tickMu sync.Mutex
}

// New creates an idle Scheduler.
func New(store Store, sink notify.Sink, log logger.Logger, cfg Config) *Scheduler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg.AdvanceWindow == 0 {
		cfg.AdvanceWindow = DefaultAdvanceWindow
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		store:  store,
		sink:   sink,
		log:    log,
		cfg:    cfg,
		window: cfg.AdvanceWindow,
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start moves an idle scheduler to Running and runs a tick immediately, then
// every pollInterval. Calling Start while running is a no-op that keeps the
// original parameters.
func (s *Scheduler) Start(pollInterval, advanceWindow time.Duration) error {
	if pollInterval <= 0 {
		return fmt.Errorf("%w, got %s", ErrInvalidInterval, pollInterval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Running:
		return nil
	case Stopping, Stopped:
		return ErrStopped
	}

	s.window = advanceWindow
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.state = Running

	go s.run(pollInterval, s.stop, s.done)
	return nil
}

// Stop signals the loop and waits until it reaches Stopped or the stop
// timeout elapses. An in-flight tick is never interrupted.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	switch s.state {
	case Idle:
		s.state = Stopped
		s.mu.Unlock()
		return nil
	case Stopped:
		s.mu.Unlock()
		return nil
	case Running:
		s.state = Stopping
		close(s.stop)
		s.log.Info("[scheduler] Shutting down...")
	}
	done := s.done
	s.mu.Unlock()

	timer := time.NewTimer(s.cfg.StopTimeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrStopTimeout
	}
}

func (s *Scheduler) run(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		s.mu.Lock()
		s.state = Stopped
		s.mu.Unlock()
		close(done)
		s.log.Info("[scheduler] Stopped.")
	}()

	s.log.Info("[scheduler] Started. Interval: %s, advance window: %s", interval, s.advanceWindow())

	// Run immediately on start
	s.loopTick()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A stop signalled while the ticker fired takes precedence.
			select {
			case <-stop:
				return
			default:
			}
			s.loopTick()
		}
	}
}

func (s *Scheduler) loopTick() {
	rep := s.Tick(context.Background())
	if rep.Advance+rep.Main+rep.Skipped+rep.Failed > 0 {
		s.log.Info("[scheduler] Tick %s: %d advance, %d main, %d skipped, %d failed",
			rep.At.Format(reminder.DueLayout), rep.Advance, rep.Main, rep.Skipped, rep.Failed)
	}
}

func (s *Scheduler) advanceWindow() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Tick runs exactly one evaluation synchronously. It waits for any tick
// already in progress.
func (s *Scheduler) Tick(ctx context.Context) TickReport {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	now := s.cfg.Now()
	rep := TickReport{At: now}

	lctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	pending, err := s.store.ListPending(lctx)
	cancel()
	if err != nil {
		s.log.Error("[scheduler] Error: listing pending reminders: %v", err)
		rep.Err = err
		return rep
	}

	due := Evaluate(now, pending, s.advanceWindow())
	if due.Empty() {
		return rep
	}

	// Evaluate never returns a record in both sets today; the guard keeps
	// Main authoritative if its predicates ever overlap.
	promoted := make(map[int64]bool, len(due.Main))
	for _, r := range due.Main {
		promoted[r.ID] = true
	}

	for _, r := range due.Advance {
		if promoted[r.ID] {
			continue
		}
		s.fire(ctx, r, notify.Advance, now, &rep)
	}
	for _, r := range due.Main {
		s.fire(ctx, r, notify.Main, now, &rep)
	}
	return rep
}

// fire dispatches one notification for snap and persists the outcome.
// Persisting happens only after a successful dispatch, so a crash in between
// re-fires on the next run rather than dropping the notification.
func (s *Scheduler) fire(ctx context.Context, snap reminder.Reminder, kind notify.Kind, now time.Time, rep *TickReport) {
	cur, ok := s.recheck(ctx, snap, kind)
	if !ok {
		rep.Skipped++
		return
	}

	title, message := Message(kind, cur, now)
	nctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	err := s.sink.Notify(nctx, kind, title, message)
	cancel()
	if err != nil {
		s.log.Error("[scheduler] Error: %s notification for reminder %d failed: %v", kind, cur.ID, err)
		rep.Failed++
		return
	}

	fields := reminder.UpdateFields{IfDueAt: &cur.DueAt, IfPending: true}
	if kind == notify.Advance {
		fired := true
		fields.AdvanceFired = &fired
	} else {
		next := Advance(cur, now)
		fields.MainFired = &next.MainFired
		fields.AdvanceFired = &next.AdvanceFired
		if !next.DueAt.Equal(cur.DueAt) {
			fields.DueAt = &next.DueAt
			s.log.Info("[scheduler] Reminder %d re-armed for %s", cur.ID, next.DueAt.Format(reminder.DueLayout))
		}
	}

	uctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	_, err = s.store.Update(uctx, cur.ID, fields)
	cancel()
	switch {
	case errors.Is(err, reminder.ErrNotFound), errors.Is(err, reminder.ErrConflict):
		s.log.Info("[scheduler] Reminder %d changed during dispatch, leaving it as is: %v", cur.ID, err)
	case err != nil:
		s.log.Error("[scheduler] Error: persisting %s state for reminder %d: %v", kind, cur.ID, err)
		rep.Failed++
		return
	}

	if kind == notify.Advance {
		rep.Advance++
	} else {
		rep.Main++
	}
}

// recheck re-reads the record right before dispatch. Records deleted,
// completed, already fired or moved to another due-time since the snapshot
// are skipped; a moved record is evaluated again on the next tick.
func (s *Scheduler) recheck(ctx context.Context, snap reminder.Reminder, kind notify.Kind) (reminder.Reminder, bool) {
	gctx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	cur, err := s.store.Get(gctx, snap.ID)
	cancel()
	switch {
	case errors.Is(err, reminder.ErrNotFound):
		return cur, false
	case err != nil:
		s.log.Warning("[scheduler] Re-reading reminder %d failed, using snapshot: %v", snap.ID, err)
		return snap, true
	}

	if !cur.IsPending() || !cur.DueAt.Equal(snap.DueAt) {
		return cur, false
	}
	if (kind == notify.Advance && cur.AdvanceFired) || (kind == notify.Main && cur.MainFired) {
		return cur, false
	}
	return cur, true
}

// Message builds the notification title and body for a reminder.
func Message(kind notify.Kind, r reminder.Reminder, now time.Time) (title, message string) {
	if kind == notify.Advance {
		desc := r.Description
		if desc == "" {
			desc = "Reminder scheduled"
		}
		return "🔔 Upcoming: " + r.Title, fmt.Sprintf("In %s: %s", minutesUntil(r.DueAt, now), desc)
	}

	desc := r.Description
	if desc == "" {
		desc = "You have a pending task NOW!"
	}
	return "⏰ REMINDER: " + r.Title, desc
}

func minutesUntil(due, now time.Time) string {
	n := int(math.Ceil(due.Sub(now).Minutes()))
	if n <= 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", n)
}
