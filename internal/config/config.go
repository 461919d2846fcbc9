package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Sink names accepted in notify.sinks.
const (
	SinkDesktop  = "desktop"
	SinkSound    = "sound"
	SinkConsole  = "console"
	SinkTelegram = "telegram"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nesting levels: REMINDER_SCHEDULER__POLL_INTERVAL.
const EnvPrefix = "REMINDER_"

type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Notify    NotifyConfig    `koanf:"notify"`
	UI        UIConfig        `koanf:"ui"`
}

type DatabaseConfig struct {
	Path     string `koanf:"path"`
	Timezone string `koanf:"timezone"` // IANA name, empty = local time
}

type SchedulerConfig struct {
	PollInterval  time.Duration `koanf:"poll_interval"`
	AdvanceWindow time.Duration `koanf:"advance_window"` // 0 disables advance warnings
	CallTimeout   time.Duration `koanf:"call_timeout"`   // per store/sink call
	StopTimeout   time.Duration `koanf:"stop_timeout"`
}

type NotifyConfig struct {
	Sinks    []string       `koanf:"sinks"`
	AppName  string         `koanf:"app_name"`
	Sound    bool           `koanf:"sound"`
	Telegram TelegramConfig `koanf:"telegram"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"` // empty = read from the OS keyring
	ChatID   string `koanf:"chat_id"`
}

type UIConfig struct {
	ColoredOutput bool   `koanf:"colored_output"`
	HistoryFile   string `koanf:"history_file"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.UI.HistoryFile = expandPath(cfg.UI.HistoryFile)
	for i, s := range cfg.Notify.Sinks {
		cfg.Notify.Sinks[i] = strings.ToLower(strings.TrimSpace(s))
	}

	return &cfg, nil
}

// envKey maps REMINDER_NOTIFY__TELEGRAM__CHAT_ID to notify.telegram.chat_id.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler.poll_interval must be positive")
	}

	if c.Scheduler.AdvanceWindow < 0 {
		return fmt.Errorf("scheduler.advance_window must not be negative")
	}

	if c.Scheduler.CallTimeout <= 0 {
		return fmt.Errorf("scheduler.call_timeout must be positive")
	}

	if c.Scheduler.StopTimeout <= 0 {
		return fmt.Errorf("scheduler.stop_timeout must be positive")
	}

	if len(c.Notify.Sinks) == 0 {
		return fmt.Errorf("notify.sinks must name at least one sink")
	}

	for _, s := range c.Notify.Sinks {
		switch s {
		case SinkDesktop, SinkSound, SinkConsole:
		case SinkTelegram:
			if c.Notify.Telegram.ChatID == "" {
				return fmt.Errorf("notify.telegram.chat_id is required for the telegram sink")
			}
		default:
			return fmt.Errorf("unknown sink: %s (supported: %s, %s, %s, %s)",
				s, SinkDesktop, SinkSound, SinkConsole, SinkTelegram)
		}
	}

	return nil
}

// Location resolves database.timezone. Due-times entered as wall-clock
// text are interpreted in this location.
func (c *Config) Location() (*time.Location, error) {
	if c.Database.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Database.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Database.Timezone, err)
	}
	return loc, nil
}

// EnabledSinks returns notify.sinks without the sound sink when sound is
// switched off.
func (c *Config) EnabledSinks() []string {
	out := make([]string, 0, len(c.Notify.Sinks))
	for _, s := range c.Notify.Sinks {
		if s == SinkSound && !c.Notify.Sound {
			continue
		}
		out = append(out, s)
	}
	return out
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
