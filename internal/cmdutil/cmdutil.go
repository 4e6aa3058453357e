// Package cmdutil holds the glue shared by every command group:
// declined-reply errors, audit instrumentation, and the terminal
// spinner wrapper.
package cmdutil

import (
	"context"
	"fmt"
	"os"

	"github.com/go-joker/joker/dmapi"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// DeclinedError reports a request the server answered with NACK. The
// response is kept so callers can inspect status text and error lines.
// The audit recorder distinguishes declined requests from transport
// errors through this type.
type DeclinedError struct {
	Op   string
	Resp *dmapi.Response
}

func (e *DeclinedError) Error() string {
	msg := e.Resp.StatusText
	if msg == "" && len(e.Resp.Errors) > 0 {
		msg = e.Resp.Errors[0]
	}
	if msg == "" {
		msg = "request declined"
	}
	return fmt.Sprintf("%s declined: %s (status %d)", e.Op, msg, e.Resp.StatusCode)
}

// Declined wraps a NACK response for the named operation.
func Declined(op string, resp *dmapi.Response) error {
	return &DeclinedError{Op: op, Resp: resp}
}

// PrintWarnings writes the reply's warning lines to the command's error
// stream. Acknowledged requests can still carry warnings.
func PrintWarnings(cmd *cobra.Command, resp *dmapi.Response) {
	for _, w := range resp.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
}

// Spin runs action behind a terminal spinner. Off a terminal it runs
// the action directly so scripted output stays clean.
func Spin(cmd *cobra.Command, title string, action func(context.Context) error) error {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return action(cmd.Context())
	}

	return spinner.New().
		Title(title).
		Accessible(os.Getenv("ACCESSIBLE") != "").
		Output(cmd.ErrOrStderr()).
		ActionWithErr(action).
		Run()
}
