package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/notexe/reminder/internal/reminder"
)

var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")). // Coral red
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")) // Warm yellow

	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("183")). // Soft purple
			Italic(true)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Medium gray
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")). // Green
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("222")). // Yellow
			Bold(true)

	AccentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("147")) // Light purple

	OverdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	CompletedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)
)

type Formatter struct {
	colored bool
}

func NewFormatter(colored bool) *Formatter {
	return &Formatter{colored: colored}
}

func (f *Formatter) render(style lipgloss.Style, s string) string {
	if f.colored {
		return style.Render(s)
	}
	return s
}

func (f *Formatter) FormatError(err error) string {
	return f.render(ErrorStyle, "Error: ") + err.Error()
}

func (f *Formatter) FormatInfo(info string) string {
	return f.render(InfoStyle, info)
}

func (f *Formatter) FormatSystem(msg string) string {
	return f.render(SystemStyle, msg)
}

func (f *Formatter) FormatStatus(msg string) string {
	return f.render(StatusStyle, msg)
}

func (f *Formatter) FormatSuccess(msg string) string {
	return f.render(SuccessStyle, "✓ ") + msg
}

// FormatReminderLine renders one reminder as a single list row. Overdue
// pending reminders are highlighted and completed ones struck through.
func (f *Formatter) FormatReminderLine(r reminder.Reminder, now time.Time) string {
	id := fmt.Sprintf("#%-4d", r.ID)
	due := r.DueAt.Format(reminder.DueLayout)

	var tags []string
	if r.Recurrence != reminder.RecurNone && r.Recurrence != "" {
		tags = append(tags, string(r.Recurrence))
	}
	if r.Category != "" {
		tags = append(tags, r.Category)
	}
	suffix := ""
	if len(tags) > 0 {
		suffix = " [" + strings.Join(tags, ", ") + "]"
	}

	switch {
	case !r.IsPending():
		return f.render(DimStyle, id) + " " + f.render(CompletedStyle, due+"  "+r.Title) + f.render(DimStyle, suffix)
	case !r.DueAt.After(now):
		return f.render(DimStyle, id) + " " + f.render(OverdueStyle, due) + "  " + r.Title + f.render(AccentStyle, suffix)
	default:
		return f.render(DimStyle, id) + " " + f.render(HeaderStyle, due) + "  " + r.Title + f.render(AccentStyle, suffix)
	}
}

// FormatReminderList renders reminders under a heading, one per line.
func (f *Formatter) FormatReminderList(heading string, rs []reminder.Reminder, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(f.render(HeaderStyle, heading))
	sb.WriteString("\n")
	if len(rs) == 0 {
		sb.WriteString(f.render(DimStyle, "  (none)"))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, r := range rs {
		sb.WriteString("  ")
		sb.WriteString(f.FormatReminderLine(r, now))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ReminderMarkdown describes a reminder as a markdown document.
func ReminderMarkdown(r reminder.Reminder) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## #%d %s\n\n", r.ID, r.Title)
	if r.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", r.Description)
	}
	fmt.Fprintf(&sb, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Due | %s |\n", r.DueAt.Format(reminder.DueLayout))
	fmt.Fprintf(&sb, "| Repeats | %s |\n", r.Recurrence)
	if r.Category != "" {
		fmt.Fprintf(&sb, "| Category | %s |\n", r.Category)
	}
	fmt.Fprintf(&sb, "| Status | %s |\n", r.Status)
	fmt.Fprintf(&sb, "| Warning sent | %s |\n", yesNo(r.AdvanceFired))
	fmt.Fprintf(&sb, "| Reminder sent | %s |\n", yesNo(r.MainFired))
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// FormatReminderDetails renders the full record of one reminder.
func (f *Formatter) FormatReminderDetails(r reminder.Reminder) string {
	return f.FormatMarkdown(ReminderMarkdown(r))
}

// FormatMarkdown renders markdown for the terminal. Without colour, or if
// rendering fails, the source text is returned unchanged.
func (f *Formatter) FormatMarkdown(md string) string {
	if !f.colored {
		return strings.TrimSpace(md)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return strings.TrimSpace(md)
	}

	rendered, err := renderer.Render(md)
	if err != nil {
		return strings.TrimSpace(md)
	}

	return strings.TrimSpace(rendered)
}

func (f *Formatter) FormatWelcome(dbPath string, poll, window time.Duration) string {
	if f.colored {
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

		subtitleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

		labelStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

		valueStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

		lines := []string{
			titleStyle.Render("Reminder"),
			labelStyle.Render("Database: ") + valueStyle.Render(dbPath),
			labelStyle.Render("Checks every ") + valueStyle.Render(poll.String()) +
				labelStyle.Render(", warns ") + valueStyle.Render(window.String()) + labelStyle.Render(" ahead"),
			"",
			subtitleStyle.Render("Type /help for commands"),
		}

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Render(strings.Join(lines, "\n"))

		return "\n" + box + "\n\n"
	}

	// Plain text fallback
	lines := []string{
		"",
		"Reminder",
		fmt.Sprintf("Database: %s", dbPath),
		fmt.Sprintf("Checks every %s, warns %s ahead", poll, window),
		"Type /help for commands",
		"",
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatPrompt returns a styled input prompt
func (f *Formatter) FormatPrompt() string {
	if f.colored {
		promptStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
		arrowStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")).
			Bold(true)
		return promptStyle.Render("reminder") + arrowStyle.Render(" > ")
	}
	return "reminder > "
}

// FormatFieldPrompt returns the prompt used while asking for one field.
func (f *Formatter) FormatFieldPrompt(label string) string {
	return f.render(AccentStyle, label+": ")
}

// FormatBox wraps content in a styled box
func (f *Formatter) FormatBox(title, content string) string {
	if f.colored {
		titleStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

		borderStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

		header := titleStyle.Render(title)
		box := borderStyle.Render(content)

		return header + "\n" + box
	}
	return title + "\n" + content
}
