package audit

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/database"
)

func setupAuditTest(t *testing.T) {
	t.Helper()
	database.SetPath(filepath.Join(t.TempDir(), "joker.db"))
	t.Cleanup(database.ResetPath)
}

func seedEntries(t *testing.T, entries ...*auditlog.AuditEntry) {
	t.Helper()
	repo, err := auditlog.Open()
	if err != nil {
		t.Fatalf("failed to open audit repository: %v", err)
	}
	defer repo.Close()
	for _, entry := range entries {
		if err := repo.Save(entry); err != nil {
			t.Fatalf("failed to seed entry: %v", err)
		}
	}
}

func execAudit(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestList_PrintsEntries(t *testing.T) {
	setupAuditTest(t)
	seedEntries(t,
		&auditlog.AuditEntry{
			Command:    "joker domain register",
			Args:       "example.com --period 2",
			Account:    "default",
			Domain:     "example.com",
			TrackingID: "abc123",
			Outcome:    auditlog.OutcomeSuccess,
			DurationMs: 42,
		},
		&auditlog.AuditEntry{
			Command:    "joker dns set",
			Outcome:    auditlog.OutcomeError,
			Detail:     "connection refused",
			DurationMs: 1500,
		},
	)

	stdout, stderr := execAudit(t, "list")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{"joker domain register", "success", "42ms", "example.com (abc123)", "connection refused", "1.5s"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestList_FilterByDomain(t *testing.T) {
	setupAuditTest(t)
	seedEntries(t,
		&auditlog.AuditEntry{Command: "joker domain renew", Domain: "example.com", Outcome: auditlog.OutcomeSuccess},
		&auditlog.AuditEntry{Command: "joker domain renew", Domain: "other.net", Outcome: auditlog.OutcomeSuccess},
	)

	stdout, _ := execAudit(t, "list", "--domain", "example.com")

	if !strings.Contains(stdout, "example.com") {
		t.Errorf("expected matching entry in output:\n%s", stdout)
	}
	if strings.Contains(stdout, "other.net") {
		t.Errorf("expected non-matching entries filtered out:\n%s", stdout)
	}
}

func TestList_JSONOutput(t *testing.T) {
	setupAuditTest(t)
	seedEntries(t, &auditlog.AuditEntry{
		Command: "joker domain register",
		Domain:  "example.com",
		Outcome: auditlog.OutcomeSuccess,
	})

	stdout, _ := execAudit(t, "list", "-o", "json")

	if !strings.Contains(stdout, `"command": "joker domain register"`) {
		t.Errorf("expected JSON output:\n%s", stdout)
	}
}

func TestList_Empty(t *testing.T) {
	setupAuditTest(t)

	stdout, _ := execAudit(t, "list")

	if !strings.Contains(stdout, "No audit entries found.") {
		t.Errorf("expected empty message, got:\n%s", stdout)
	}
}

func TestList_RejectsBadLimit(t *testing.T) {
	setupAuditTest(t)

	_, stderr := execAudit(t, "list", "--limit", "0")

	if !strings.Contains(stderr, "limit must be greater than 0") {
		t.Errorf("expected limit error, got: %s", stderr)
	}
}

func TestPrune_RemovesOldEntries(t *testing.T) {
	setupAuditTest(t)
	seedEntries(t,
		&auditlog.AuditEntry{
			Timestamp: time.Now().UTC().Add(-48 * time.Hour),
			Command:   "joker domain register",
			Outcome:   auditlog.OutcomeSuccess,
		},
		&auditlog.AuditEntry{
			Command: "joker domain renew",
			Outcome: auditlog.OutcomeSuccess,
		},
	)

	stdout, stderr := execAudit(t, "prune", "--older-than", "24h")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Removed 1 audit") {
		t.Errorf("expected one entry removed, got:\n%s", stdout)
	}

	listOut, _ := execAudit(t, "list")
	if strings.Contains(listOut, "joker domain register") {
		t.Errorf("expected old entry gone:\n%s", listOut)
	}
	if !strings.Contains(listOut, "joker domain renew") {
		t.Errorf("expected recent entry kept:\n%s", listOut)
	}
}

func TestPrune_RequiresOlderThan(t *testing.T) {
	setupAuditTest(t)

	_, stderr := execAudit(t, "prune")

	if !strings.Contains(stderr, "--older-than is required") {
		t.Errorf("expected required-flag error, got: %s", stderr)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "30d", want: 30 * 24 * time.Hour},
		{input: "72h", want: 72 * time.Hour},
		{input: "90m", want: 90 * time.Minute},
		{input: "abc", wantErr: true},
		{input: "10x", wantErr: true},
		{input: "-5d", wantErr: true},
		{input: "-1h", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDuration(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
