package cmdutil

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/database"

	"github.com/spf13/cobra"
)

func setupAuditDB(t *testing.T) {
	t.Helper()
	database.SetPath(filepath.Join(t.TempDir(), "joker.db"))
	t.Cleanup(database.ResetPath)
}

// runInstrumented executes a small command tree through cobra so the audit
// wrapper sees a realistic command path and flag set.
func runInstrumented(t *testing.T, run func(cmd *cobra.Command, args []string) error, args ...string) error {
	t.Helper()

	renew := &cobra.Command{
		Use:           "renew <domain>",
		RunE:          Instrument(run),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	renew.Flags().Int("period", 0, "")
	renew.Flags().String("api-key", "", "")

	group := &cobra.Command{Use: "domain"}
	group.AddCommand(renew)

	root := &cobra.Command{Use: "joker", SilenceErrors: true}
	root.AddCommand(group)
	root.SetArgs(append([]string{"domain", "renew"}, args...))
	return root.Execute()
}

func lastEntry(t *testing.T) auditlog.AuditEntry {
	t.Helper()
	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer repo.Close()

	entries, err := repo.List(1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	return entries[0]
}

func TestInstrument_RecordsSuccess(t *testing.T) {
	setupAuditDB(t)

	err := runInstrumented(t, func(cmd *cobra.Command, args []string) error {
		return nil
	}, "example.com", "--period", "2")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	entry := lastEntry(t)
	if entry.Command != "joker domain renew" {
		t.Errorf("expected command path %q, got %q", "joker domain renew", entry.Command)
	}
	if entry.Outcome != auditlog.OutcomeSuccess {
		t.Errorf("expected outcome %q, got %q", auditlog.OutcomeSuccess, entry.Outcome)
	}
	if entry.Args != "example.com --period 2" {
		t.Errorf("unexpected args: %q", entry.Args)
	}
	if entry.Detail != "" {
		t.Errorf("expected empty detail on success, got %q", entry.Detail)
	}
}

func TestInstrument_RecordsError(t *testing.T) {
	setupAuditDB(t)

	err := runInstrumented(t, func(cmd *cobra.Command, args []string) error {
		return errors.New("connection refused")
	}, "example.com")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	entry := lastEntry(t)
	if entry.Outcome != auditlog.OutcomeError {
		t.Errorf("expected outcome %q, got %q", auditlog.OutcomeError, entry.Outcome)
	}
	if entry.Detail != "connection refused" {
		t.Errorf("unexpected detail: %q", entry.Detail)
	}
}

func TestInstrument_RecordsDeclined(t *testing.T) {
	setupAuditDB(t)

	resp := &dmapi.Response{StatusCode: 2302, StatusText: "Object exists", Result: "NACK"}
	err := runInstrumented(t, func(cmd *cobra.Command, args []string) error {
		return Declined("domain register", resp)
	}, "example.com")
	if err == nil {
		t.Fatal("expected error to propagate")
	}

	entry := lastEntry(t)
	if entry.Outcome != auditlog.OutcomeDeclined {
		t.Errorf("expected outcome %q, got %q", auditlog.OutcomeDeclined, entry.Outcome)
	}
	if !strings.Contains(entry.Detail, "Object exists") {
		t.Errorf("expected detail to carry the server's status text, got %q", entry.Detail)
	}
}

func TestInstrument_CapturesMetadata(t *testing.T) {
	setupAuditDB(t)

	err := runInstrumented(t, func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
			Account:    "work",
			Domain:     "example.com",
			TrackingID: "a1b2c3",
			ProcID:     "9001",
		}))
		return nil
	}, "example.com")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	entry := lastEntry(t)
	if entry.Account != "work" {
		t.Errorf("expected account %q, got %q", "work", entry.Account)
	}
	if entry.Domain != "example.com" {
		t.Errorf("expected domain %q, got %q", "example.com", entry.Domain)
	}
	if entry.TrackingID != "a1b2c3" {
		t.Errorf("expected tracking ID %q, got %q", "a1b2c3", entry.TrackingID)
	}
	if entry.ProcID != "9001" {
		t.Errorf("expected proc ID %q, got %q", "9001", entry.ProcID)
	}
}

func TestInstrument_RedactsSecrets(t *testing.T) {
	setupAuditDB(t)

	err := runInstrumented(t, func(cmd *cobra.Command, args []string) error {
		return nil
	}, "example.com", "--api-key", "hunter2")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	entry := lastEntry(t)
	if strings.Contains(entry.Args, "hunter2") {
		t.Errorf("secret leaked into audit args: %q", entry.Args)
	}
	if !strings.Contains(entry.Args, "--api-key <redacted>") {
		t.Errorf("expected redacted flag value, got %q", entry.Args)
	}
}

func TestDeclinedError_Message(t *testing.T) {
	tests := []struct {
		name string
		resp *dmapi.Response
		want string
	}{
		{
			name: "status text",
			resp: &dmapi.Response{StatusCode: 2302, StatusText: "Object exists"},
			want: "domain register declined: Object exists (status 2302)",
		},
		{
			name: "falls back to first error line",
			resp: &dmapi.Response{StatusCode: 2200, Errors: []string{"Authentication error"}},
			want: "domain register declined: Authentication error (status 2200)",
		},
		{
			name: "generic when the reply carries nothing",
			resp: &dmapi.Response{StatusCode: 2400},
			want: "domain register declined: request declined (status 2400)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Declined("domain register", tt.resp)
			if got := err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}

			var declined *DeclinedError
			if !errors.As(err, &declined) {
				t.Error("expected errors.As to match *DeclinedError")
			}
		})
	}
}
