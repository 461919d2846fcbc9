package app

import (
	"errors"
	"fmt"

	"github.com/notexe/reminder/internal/config"
	"github.com/zalando/go-keyring"
)

const (
	keyringService   = "reminder"
	telegramTokenKey = "telegram_bot_token"
)

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// ErrNoTelegramToken is returned when the telegram sink is enabled but no
// bot token is configured or stored in the keyring.
var ErrNoTelegramToken = errors.New("no telegram bot token: set notify.telegram.bot_token or run `reminder token set`")

// SetTelegramToken stores the bot token in the OS keyring.
func SetTelegramToken(token string) error {
	if token == "" {
		return errors.New("token must not be empty")
	}
	if err := keyringSet(keyringService, telegramTokenKey, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// ClearTelegramToken removes the stored bot token. Removing a token that was
// never stored is not an error.
func ClearTelegramToken() error {
	err := keyringDelete(keyringService, telegramTokenKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove token from keyring: %w", err)
	}
	return nil
}

// telegramToken prefers the configured token and falls back to the keyring.
func telegramToken(cfg *config.Config) (string, error) {
	if cfg.Notify.Telegram.BotToken != "" {
		return cfg.Notify.Telegram.BotToken, nil
	}
	token, err := keyringGet(keyringService, telegramTokenKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoTelegramToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}
