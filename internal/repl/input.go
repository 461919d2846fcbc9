package repl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/notexe/reminder/internal/ui"
)

// lineReader is the part of *readline.Instance the shell uses.
type lineReader interface {
	Readline() (string, error)
	ReadlineWithDefault(what string) (string, error)
	SetPrompt(prompt string)
	Close() error
}

func (r *REPL) reader() lineReader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rl
}

func (r *REPL) readInput() (string, error) {
	line, err := r.reader().Readline()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

// ask prompts for one field, pre-filling the line with def.
func (r *REPL) ask(label, def string) (string, error) {
	rl := r.reader()
	rl.SetPrompt(r.formatter.FormatFieldPrompt(label))
	defer rl.SetPrompt(r.formatter.FormatPrompt())

	line, err := rl.ReadlineWithDefault(def)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question, defaulting to no.
func (r *REPL) confirm(question string) (bool, error) {
	answer, err := r.ask(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// selectOption runs the arrow-key selector. Readline is closed while the
// selector owns the terminal and recreated afterwards.
func (r *REPL) selectOption(question string, options []ui.SelectorOption, current string) (string, error) {
	r.mu.Lock()
	r.rl.Close()
	r.mu.Unlock()

	choice, selErr := ui.NewSelector(question, options, current, r.config.UI.ColoredOutput).Run()

	rl, err := setupReadline(r.formatter.FormatPrompt(), r.config.UI.HistoryFile)
	if err != nil {
		return "", fmt.Errorf("failed to restore readline: %w", err)
	}
	r.mu.Lock()
	r.rl = rl
	r.mu.Unlock()

	if selErr != nil {
		return "", selErr
	}
	return choice, nil
}

func (r *REPL) parseCommand(input string) (bool, string, string) {
	if !strings.HasPrefix(input, "/") {
		return false, "", ""
	}

	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])

	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	return true, command, args
}

// parseID reads the reminder id argument of /show, /done, /delete and /edit.
func parseID(command, args string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(args), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("usage: %s <id>", command)
	}
	return id, nil
}

func setupReadline(prompt, historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              prompt,
		HistoryFile:         historyFile,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})

	return rl, err
}

func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func isEOF(err error) bool {
	return err == io.EOF || err == readline.ErrInterrupt
}
