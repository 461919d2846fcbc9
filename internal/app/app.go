// Package app builds the long-lived components shared by every command: the
// reminder store, the notification sinks and the scheduler.
package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/notexe/reminder/internal/config"
	"github.com/notexe/reminder/internal/logger"
	"github.com/notexe/reminder/internal/notify"
	"github.com/notexe/reminder/internal/reminder"
	"github.com/notexe/reminder/internal/scheduler"
)

// Components holds the initialized store and scheduler so every host
// (daemon, shell, MCP server) sets up and tears down the same way.
type Components struct {
	Config    *config.Config
	Store     *reminder.Store
	Scheduler *scheduler.Scheduler
	log       logger.Logger
}

// New opens the store and builds the scheduler. The console sink, if
// enabled, writes to console. On error nothing is left open.
func New(cfg *config.Config, log logger.Logger, console io.Writer) (*Components, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	sched, err := NewScheduler(cfg, store, log, console)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Components{
		Config:    cfg,
		Store:     store,
		Scheduler: sched,
		log:       log,
	}, nil
}

// Close stops the scheduler, if it was started, and closes the store.
func (c *Components) Close() error {
	if c.Scheduler != nil {
		switch c.Scheduler.State() {
		case scheduler.Running, scheduler.Stopping:
			if err := c.Scheduler.Stop(); err != nil && c.log != nil {
				c.log.Warning("[app] %v", err)
			}
		}
	}
	if c.Store != nil {
		return c.Store.Close()
	}
	return nil
}

// OpenStore opens the reminder database named in the configuration,
// creating its directory if needed.
func OpenStore(cfg *config.Config) (*reminder.Store, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := reminder.NewStore(cfg.Database.Path, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// NewScheduler builds the configured sinks and a scheduler over store.
func NewScheduler(cfg *config.Config, store scheduler.Store, log logger.Logger, console io.Writer) (*scheduler.Scheduler, error) {
	sinks, err := BuildSinks(cfg, console)
	if err != nil {
		return nil, err
	}

	return scheduler.New(store, notify.NewMulti(log, sinks...), log, scheduler.Config{
		AdvanceWindow: advanceWindow(cfg),
		CallTimeout:   cfg.Scheduler.CallTimeout,
		StopTimeout:   cfg.Scheduler.StopTimeout,
	}), nil
}

// StartScheduler starts sched with the configured poll interval and
// advance window.
func StartScheduler(sched *scheduler.Scheduler, cfg *config.Config) error {
	return sched.Start(cfg.Scheduler.PollInterval, advanceWindow(cfg))
}

// advanceWindow maps advance_window: 0 onto the scheduler's "disabled".
func advanceWindow(cfg *config.Config) time.Duration {
	if cfg.Scheduler.AdvanceWindow == 0 {
		return -1
	}
	return cfg.Scheduler.AdvanceWindow
}

// BuildSinks creates one sink per enabled name, in configuration order.
func BuildSinks(cfg *config.Config, console io.Writer) ([]notify.Named, error) {
	if console == nil {
		console = os.Stdout
	}

	var sinks []notify.Named
	for _, name := range cfg.EnabledSinks() {
		var s notify.Sink
		switch name {
		case config.SinkDesktop:
			s = notify.NewDesktop(cfg.Notify.AppName)
		case config.SinkSound:
			s = notify.NewSound()
		case config.SinkConsole:
			s = notify.NewConsole(console)
		case config.SinkTelegram:
			token, err := telegramToken(cfg)
			if err != nil {
				return nil, err
			}
			s = notify.NewTelegram(token, cfg.Notify.Telegram.ChatID)
		default:
			return nil, fmt.Errorf("unknown sink: %s", name)
		}
		sinks = append(sinks, notify.Named{Name: name, Sink: s})
	}
	return sinks, nil
}
