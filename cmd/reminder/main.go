// Command reminder stores reminders in SQLite and delivers desktop, sound,
// console and Telegram notifications when they come due.
//
// Usage:
//
//	reminder run                      # background scheduler until Ctrl+C
//	reminder shell                    # interactive shell with the scheduler attached
//	reminder mcp                      # MCP server on stdio with the scheduler attached
//	reminder add "Dentist" --due "2025-03-14 09:30" --repeat monthly
//	reminder list [--all|--completed]
//	reminder complete <id>
//	reminder delete <id>
//	reminder check                    # run one evaluation now
//	reminder log [-n 20]
//	reminder token set|clear          # telegram bot token in the OS keyring
//
// Configuration is read from ~/.reminder/config.yaml and REMINDER_* variables.
package main

import (
	"fmt"
	"os"

	"github.com/notexe/reminder/internal/config"
	"github.com/urfave/cli"
)

var version = "dev"

var (
	configPath string
	noColor    bool

	globalFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "config",
			Usage:       "path to the configuration file",
			Value:       config.GetDefaultConfigPath(),
			Destination: &configPath,
		},
		cli.BoolFlag{
			Name:        "no-color",
			Usage:       "disable colored output",
			Destination: &noColor,
		},
	}
)

func Execute(args []string) error {
	app := cli.App{
		Name:      "reminder",
		HelpName:  "reminder",
		Usage:     "personal reminders with desktop, sound and Telegram notifications",
		UsageText: "reminder [global options] <command> [arguments...]",
		Version:   version,
		Flags:     globalFlags,
		Commands: []cli.Command{
			{
				Name:   "run",
				Usage:  "run the scheduler in the foreground until interrupted",
				Action: runDaemon,
				Flags:  runFlags,
			},
			{
				Name:   "shell",
				Usage:  "interactive shell with the scheduler running in the background",
				Action: runShell,
			},
			{
				Name:   "mcp",
				Usage:  "serve the reminder tools over MCP on stdio",
				Action: runMCP,
				Flags:  mcpFlags,
			},
			{
				Name:      "add",
				Aliases:   []string{"a"},
				Usage:     "add a reminder",
				ArgsUsage: "<title>",
				Action:    add,
				Flags:     addFlags,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "list reminders",
				Action:  list,
				Flags:   listFlags,
			},
			{
				Name:      "complete",
				Aliases:   []string{"done"},
				Usage:     "mark a reminder as completed",
				ArgsUsage: "<id>",
				Action:    complete,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "delete a reminder",
				ArgsUsage: "<id>",
				Action:    remove,
			},
			{
				Name:   "check",
				Usage:  "evaluate due reminders once and deliver notifications",
				Action: check,
			},
			{
				Name:   "log",
				Usage:  "show the most recently created reminders",
				Action: showLog,
				Flags:  logFlags,
			},
			{
				Name:  "token",
				Usage: "manage the telegram bot token in the OS keyring",
				Subcommands: []cli.Command{
					{
						Name:   "set",
						Usage:  "store the bot token (read from stdin)",
						Action: tokenSet,
					},
					{
						Name:   "clear",
						Usage:  "remove the stored bot token",
						Action: tokenClear,
					},
				},
			},
		},
	}
	return app.Run(args)
}

// loadConfig applies the global flags on top of the layered configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if noColor {
		cfg.UI.ColoredOutput = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := Execute(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "reminder: %s\n", err.Error())
		os.Exit(1)
	}
}
