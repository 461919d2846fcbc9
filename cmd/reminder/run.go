package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/reminder/internal/app"
	"github.com/notexe/reminder/internal/logger"
	"github.com/notexe/reminder/internal/reminder"
	"github.com/notexe/reminder/internal/repl"
	"github.com/urfave/cli"
)

var (
	logFile    string
	mcpNoSched bool

	runFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "log-file",
			Usage:       "also append log lines to this file",
			Destination: &logFile,
		},
	}

	mcpFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "no-scheduler",
			Usage:       "serve the tools only, without delivering notifications",
			Destination: &mcpNoSched,
		},
	}
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runDaemon(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l := newLogger(os.Stderr)
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		l = logger.NewMultiLogger(l, newLogger(f))
	}
	defer l.Close()

	c, err := app.New(cfg, l, os.Stdout)
	if err != nil {
		return err
	}
	defer c.Close()

	sigCtx, cancel := signalContext()
	defer cancel()

	if err := app.StartScheduler(c.Scheduler, cfg); err != nil {
		return err
	}

	<-sigCtx.Done()
	l.Info("Interrupted, stopping scheduler...")
	return c.Scheduler.Stop()
}

func newLogger(w io.Writer) logger.Logger {
	return logger.NewStandardLogger(log.New(w, "", log.LstdFlags))
}

func runShell(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	shell, err := repl.NewREPL(store, cfg)
	if err != nil {
		return fmt.Errorf("error creating shell: %w", err)
	}

	// Notifications and scheduler logs print above the prompt.
	out := shell.Output()
	sched, err := app.NewScheduler(cfg, store, newLogger(out), out)
	if err != nil {
		shell.Stop()
		return err
	}
	shell.SetScheduler(sched)

	sigCtx, cancel := signalContext()
	defer cancel()

	if err := app.StartScheduler(sched, cfg); err != nil {
		shell.Stop()
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	return shell.Start(sigCtx)
}

func runMCP(ctx *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout carries the protocol, so the console sink and logs use stderr.
	c, err := app.New(cfg, newLogger(os.Stderr), os.Stderr)
	if err != nil {
		return err
	}
	defer c.Close()

	if !mcpNoSched {
		if err := app.StartScheduler(c.Scheduler, cfg); err != nil {
			return err
		}
	}

	s := reminder.NewServer(c.Store)
	if err := server.ServeStdio(s.MCPServer()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
