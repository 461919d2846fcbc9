package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/notexe/reminder/internal/app"
	"github.com/urfave/cli"
	"golang.org/x/term"
)

func tokenSet(ctx *cli.Context) error {
	token, err := readToken()
	if err != nil {
		return err
	}
	if err := app.SetTelegramToken(token); err != nil {
		return err
	}
	fmt.Println("Telegram bot token saved to the keyring.")
	return nil
}

func tokenClear(ctx *cli.Context) error {
	if err := app.ClearTelegramToken(); err != nil {
		return err
	}
	fmt.Println("Telegram bot token removed.")
	return nil
}

// readToken reads the token without echo on a terminal, or the first line
// of piped input.
func readToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print("Bot token: ")
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
