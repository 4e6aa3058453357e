package cmdutil

import (
	"errors"
	"strings"
	"time"

	"github.com/go-joker/joker/internal/auditlog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Instrument wraps a RunE so the invocation lands in the local audit
// log: command path, sanitized arguments, duration, outcome, and the
// request identifiers the command attached via auditlog.WithMetadata.
// It wraps RunE rather than hanging off a PersistentPostRun hook
// because cobra skips those when RunE fails, and failures are exactly
// what an audit trail must keep.
func Instrument(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		runErr := run(cmd, args)
		recordAudit(cmd, args, start, runErr)
		return runErr
	}
}

// recordAudit persists one entry. Recording problems are swallowed;
// auditing must never break the command it observes.
func recordAudit(cmd *cobra.Command, args []string, start time.Time, runErr error) {
	meta := auditlog.MetadataFromContext(cmd.Context())

	outcome := auditlog.OutcomeSuccess
	detail := ""
	var declined *DeclinedError
	switch {
	case errors.As(runErr, &declined):
		outcome = auditlog.OutcomeDeclined
		detail = runErr.Error()
	case runErr != nil:
		outcome = auditlog.OutcomeError
		detail = runErr.Error()
	}

	repo, err := auditlog.Open()
	if err != nil {
		return
	}
	defer repo.Close()

	_ = repo.Save(&auditlog.AuditEntry{
		Command:    cmd.CommandPath(),
		Args:       strings.Join(auditlog.SanitizeArgs(invocationArgs(cmd, args)), " "),
		Account:    meta.Account,
		Domain:     meta.Domain,
		TrackingID: meta.TrackingID,
		ProcID:     meta.ProcID,
		Outcome:    outcome,
		Detail:     detail,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

// invocationArgs rebuilds the interesting part of the command line:
// the positional arguments plus every flag that was explicitly set.
// cobra hands RunE the positionals only, and os.Args is useless under
// test runners.
func invocationArgs(cmd *cobra.Command, args []string) []string {
	out := append([]string(nil), args...)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		out = append(out, "--"+f.Name, f.Value.String())
	})
	return out
}
