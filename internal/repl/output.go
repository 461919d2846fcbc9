package repl

import (
	"fmt"
)

func (r *REPL) println(s string) {
	fmt.Fprintln(r.Output(), s)
}

func (r *REPL) displayError(err error) {
	r.status.Hide()
	r.println(r.formatter.FormatError(err))
	r.println("")
}

func (r *REPL) displayWelcome() {
	fmt.Fprint(r.Output(), r.formatter.FormatWelcome(
		r.config.Database.Path,
		r.config.Scheduler.PollInterval,
		r.config.Scheduler.AdvanceWindow,
	))
}

func (r *REPL) displayHelp() {
	r.println(r.formatter.FormatMarkdown(helpMarkdown))
	r.println("")
}

func (r *REPL) displayInfo(msg string) {
	r.println(r.formatter.FormatInfo(msg))
	r.println("")
}

func (r *REPL) displaySuccess(msg string) {
	r.println(r.formatter.FormatSuccess(msg))
	r.println("")
}

func (r *REPL) displaySystem(msg string) {
	r.println(r.formatter.FormatSystem(msg))
	r.println("")
}
