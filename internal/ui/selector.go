package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrCancelled is returned when the user aborts a selection with Ctrl+C.
var ErrCancelled = errors.New("cancelled")

// SelectorOption represents a single option in the selector
type SelectorOption struct {
	Label       string
	Description string
}

// Selector provides an arrow-key navigable single-choice menu. Without a
// terminal it falls back to a numbered prompt.
type Selector struct {
	question string
	options  []SelectorOption
	selected int
	colored  bool

	in  *os.File
	out io.Writer

	cursorStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	optionStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	questionStyle lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewSelector creates a new interactive selector. The initial cursor sits on
// the option whose label equals current, if any.
func NewSelector(question string, options []SelectorOption, current string, colored bool) *Selector {
	s := &Selector{
		question: question,
		options:  options,
		colored:  colored,
		in:       os.Stdin,
		out:      os.Stdout,

		cursorStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
		optionStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dimStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		questionStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		hintStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
	for i, opt := range options {
		if opt.Label == current {
			s.selected = i
		}
	}
	return s
}

// Run displays the selector and returns the chosen label.
func (s *Selector) Run() (string, error) {
	if len(s.options) == 0 {
		return "", fmt.Errorf("no options to choose from")
	}

	fd := int(s.in.Fd())

	if !term.IsTerminal(fd) {
		return s.runSimple(bufio.NewReader(s.in))
	}

	// Save and set raw mode
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return s.runSimple(bufio.NewReader(s.in))
	}

	defer func() {
		term.Restore(fd, oldState)
		fmt.Fprint(s.out, "\033[?25h") // Show cursor
	}()

	// Hide cursor
	fmt.Fprint(s.out, "\033[?25l")

	totalLines := len(s.options) + 3
	s.printMenu()

	reader := bufio.NewReader(s.in)
	for {
		done, err := s.handleKey(reader)
		if err != nil || done {
			s.clearMenu(totalLines)
			if err != nil {
				return "", err
			}
			return s.options[s.selected].Label, nil
		}

		s.clearMenu(totalLines)
		s.printMenu()
	}
}

// handleKey consumes one key press and reports whether it confirmed the
// current choice.
func (s *Selector) handleKey(reader *bufio.Reader) (bool, error) {
	b, err := reader.ReadByte()
	if err != nil {
		return false, err
	}

	switch b {
	case 13, 10, ' ': // Enter or space
		return true, nil
	case 3: // Ctrl+C
		return false, ErrCancelled
	case 'j': // vim down
		s.moveDown()
	case 'k': // vim up
		s.moveUp()
	case 27: // Escape sequence
		b2, _ := reader.ReadByte()
		if b2 == '[' {
			b3, _ := reader.ReadByte()
			switch b3 {
			case 'A': // Up
				s.moveUp()
			case 'B': // Down
				s.moveDown()
			}
		}
	default:
		if b >= '1' && b <= '9' {
			idx := int(b - '1')
			if idx < len(s.options) {
				s.selected = idx
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Selector) printMenu() {
	var sb strings.Builder

	if s.colored {
		sb.WriteString(s.questionStyle.Render(s.question))
	} else {
		sb.WriteString(s.question)
	}
	sb.WriteString("\r\n")

	hint := "[j/k or arrows] move  [enter] select"
	if s.colored {
		sb.WriteString(s.hintStyle.Render(hint))
	} else {
		sb.WriteString(hint)
	}
	sb.WriteString("\r\n\r\n")

	for i, opt := range s.options {
		cursor := "  "
		if i == s.selected {
			cursor = "> "
		}

		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}

		switch {
		case !s.colored:
			sb.WriteString(cursor + label)
		case i == s.selected:
			sb.WriteString(s.cursorStyle.Render(cursor))
			sb.WriteString(s.selectedStyle.Render(label))
		default:
			sb.WriteString(s.dimStyle.Render(cursor))
			sb.WriteString(s.optionStyle.Render(label))
		}
		sb.WriteString("\r\n")
	}

	fmt.Fprint(s.out, sb.String())
}

func (s *Selector) clearMenu(lines int) {
	// Move cursor up and clear each line
	for i := 0; i < lines; i++ {
		fmt.Fprint(s.out, "\033[A\033[2K\r")
	}
}

// runSimple asks for a number. Empty input keeps the current choice.
func (s *Selector) runSimple(reader *bufio.Reader) (string, error) {
	fmt.Fprintln(s.out, s.question)
	for i, opt := range s.options {
		label := opt.Label
		if opt.Description != "" {
			label += " - " + opt.Description
		}
		fmt.Fprintf(s.out, "  [%d] %s\n", i+1, label)
	}
	fmt.Fprintf(s.out, "Enter number [%d]: ", s.selected+1)

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	input = strings.TrimSpace(input)

	if len(input) >= 1 && input[0] >= '1' && input[0] <= '9' {
		idx := int(input[0] - '1')
		if idx < len(s.options) {
			s.selected = idx
		}
	}

	return s.options[s.selected].Label, nil
}

func (s *Selector) moveUp() {
	if s.selected > 0 {
		s.selected--
	} else {
		s.selected = len(s.options) - 1
	}
}

func (s *Selector) moveDown() {
	if s.selected < len(s.options)-1 {
		s.selected++
	} else {
		s.selected = 0
	}
}
