package auth

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/config"
	"github.com/go-joker/joker/internal/database"
	"github.com/go-joker/joker/internal/session"
)

// setupAuthTest wires a fake DMAPI server, a temp config pointing at it,
// a temp audit database, and an in-memory credential store.
func setupAuthTest(t *testing.T, handler http.HandlerFunc) *auth.MockStore {
	t.Helper()
	t.Setenv("JOKER_NO_CACHE", "1")

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	config.SetPath(filepath.Join(t.TempDir(), "config.yaml"))
	t.Cleanup(config.ResetPath)
	cfg := &config.Config{BaseURL: srv.URL, Timeout: 5}
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	database.SetPath(filepath.Join(t.TempDir(), "joker.db"))
	t.Cleanup(database.ResetPath)

	store := auth.NewMockStore()
	session.SetStore(store)
	t.Cleanup(session.ResetStore)
	return store
}

// execAuth runs the given auth subcommand args and returns stdout/stderr.
func execAuth(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func ackLogin(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Auth-Sid: 5bc88f9f-a8e6-4a56-b8a4\nUID: jane\nStatus-Code: 0\nStatus-Text: OK\nResult: ACK\n\ncom\nnet\norg\n")
}

func nackLogin(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "Status-Code: 2200\nStatus-Text: Authentication error\nResult: NACK\n\n")
}

func TestLogin_WithAPIKey(t *testing.T) {
	var gotKey string
	store := setupAuthTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api-key")
		ackLogin(w, r)
	})

	stdout, stderr := execAuth(t, "login", "work", "--api-key", "secret")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `Saved credentials for account "work"`) {
		t.Errorf("expected save confirmation, got: %s", stdout)
	}
	if gotKey != "secret" {
		t.Errorf("expected verification request with api-key %q, got %q", "secret", gotKey)
	}

	creds, err := store.Load("work")
	if err != nil {
		t.Fatalf("expected stored credentials: %v", err)
	}
	if creds.APIKey != "secret" {
		t.Errorf("expected stored API key %q, got %q", "secret", creds.APIKey)
	}
}

func TestLogin_DeclinedCredentials(t *testing.T) {
	store := setupAuthTest(t, nackLogin)

	_, stderr := execAuth(t, "login", "work", "--api-key", "wrong")

	if !strings.Contains(stderr, "declined") {
		t.Errorf("expected declined error, got: %s", stderr)
	}
	if _, err := store.Load("work"); !errors.Is(err, auth.ErrCredentialsNotFound) {
		t.Error("declined credentials must not be stored")
	}
}

func TestLogin_AccountFromConfig(t *testing.T) {
	store := setupAuthTest(t, ackLogin)

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Account = "personal"
	if err := cfg.Save(); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	_, stderr := execAuth(t, "login", "--api-key", "secret")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if _, err := store.Load("personal"); err != nil {
		t.Errorf("expected credentials under the configured account: %v", err)
	}
}

func TestLogin_NoCredentialsNonInteractive(t *testing.T) {
	setupAuthTest(t, ackLogin)

	_, stderr := execAuth(t, "login", "work")

	if !strings.Contains(stderr, "--api-key") {
		t.Errorf("expected flag hint in error, got: %s", stderr)
	}
}

func TestStatus_LoggedIn(t *testing.T) {
	store := setupAuthTest(t, ackLogin)
	store.Save("work", auth.Credentials{APIKey: "secret"})

	stdout, stderr := execAuth(t, "status", "work")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "work: logged in (api-key)") {
		t.Errorf("expected logged-in line, got: %s", stdout)
	}
}

func TestStatus_NotLoggedIn(t *testing.T) {
	setupAuthTest(t, ackLogin)

	stdout, _ := execAuth(t, "status", "work")

	if !strings.Contains(stdout, "work: not logged in") {
		t.Errorf("expected not-logged-in line, got: %s", stdout)
	}
}

func TestLogout_RemovesCredentials(t *testing.T) {
	var sawLogout bool
	store := setupAuthTest(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/request/logout") {
			sawLogout = true
		}
		fmt.Fprint(w, "Status-Code: 0\nStatus-Text: OK\nResult: ACK\n\n")
	})
	store.Save("work", auth.Credentials{Username: "jane", Password: "pw"})

	stdout, stderr := execAuth(t, "logout", "work")

	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `Removed credentials for account "work"`) {
		t.Errorf("expected removal confirmation, got: %s", stdout)
	}
	if !sawLogout {
		t.Error("expected a remote logout request")
	}
	if _, err := store.Load("work"); !errors.Is(err, auth.ErrCredentialsNotFound) {
		t.Error("expected credentials to be gone")
	}
}

func TestLogout_UnknownAccount(t *testing.T) {
	setupAuthTest(t, ackLogin)

	_, stderr := execAuth(t, "logout", "nosuch")

	if !strings.Contains(stderr, "no stored credentials") {
		t.Errorf("expected missing-credentials error, got: %s", stderr)
	}
}
