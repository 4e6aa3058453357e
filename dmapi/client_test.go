package dmapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// --- Test helpers ---

// ackReply builds a success reply with optional extra header lines.
func ackReply(extra ...string) string {
	lines := append([]string{"Status-Code: 0", "Status-Text: OK", "Result: ACK"}, extra...)
	return strings.Join(lines, "\n")
}

// nackReply builds a failure reply.
func nackReply(code int, text string) string {
	return fmt.Sprintf("Status-Code: %d\nStatus-Text: %s\nResult: NACK", code, text)
}

// requestLog records operations and their query parameters in order.
type requestLog struct {
	mu     sync.Mutex
	ops    []string
	params []url.Values
}

func (l *requestLog) add(op string, params url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
	l.params = append(l.params, params)
}

func (l *requestLog) Ops() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

func (l *requestLog) Param(i int, key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i >= len(l.params) {
		return ""
	}
	return l.params[i].Get(key)
}

func (l *requestLog) Has(i int, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return i < len(l.params) && l.params[i].Has(key)
}

// newScriptServer serves replies keyed by operation name and records
// every request.
func newScriptServer(t *testing.T, replies map[string]string) (*httptest.Server, *requestLog) {
	t.Helper()
	log := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op := strings.TrimPrefix(r.URL.Path, "/request/")
		log.add(op, r.URL.Query())
		reply, ok := replies[op]
		if !ok {
			t.Errorf("unexpected operation %q", op)
			reply = nackReply(2400, "unexpected operation")
		}
		fmt.Fprint(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, log
}

// newTestClient builds a client against the test server.
func newTestClient(t *testing.T, cfg Config, serverURL string) *Client {
	t.Helper()
	cfg.BaseURL = serverURL
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func userPassConfig() Config {
	return Config{Username: "john", Password: "secret"}
}

func checkOps(t *testing.T, log *requestLog, want ...string) {
	t.Helper()
	got := log.Ops()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}
}

// --- Session tests ---

func TestLogin_StoresSessionToken(t *testing.T) {
	srv, log := newScriptServer(t, map[string]string{
		"login":         ackReply("Auth-Sid: sid-123", "UID: john"),
		"query-profile": ackReply("Account-Balance: 10.00"),
	})
	c := newTestClient(t, userPassConfig(), srv.URL)

	resp, err := c.Login(context.Background())
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AuthSID != "sid-123" {
		t.Errorf("AuthSID = %q, want sid-123", resp.AuthSID)
	}

	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}

	checkOps(t, log, "login", "query-profile")
	if got := log.Param(0, "username"); got != "john" {
		t.Errorf("login username = %q", got)
	}
	if got := log.Param(0, "password"); got != "secret" {
		t.Errorf("login password = %q", got)
	}
	if got := log.Param(1, "auth-sid"); got != "sid-123" {
		t.Errorf("query-profile auth-sid = %q", got)
	}
}

func TestEnsureAuth_LazyLoginExactlyOnce(t *testing.T) {
	srv, log := newScriptServer(t, map[string]string{
		"login":         ackReply("Auth-Sid: sid-123"),
		"query-profile": ackReply(),
	})
	c := newTestClient(t, userPassConfig(), srv.URL)

	// First authenticated call triggers exactly one login, the second
	// reuses the session.
	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}

	checkOps(t, log, "login", "query-profile", "query-profile")
}

func TestAPIKeyClient_NeverLogsIn(t *testing.T) {
	srv, log := newScriptServer(t, map[string]string{
		"query-profile": ackReply(),
	})
	c := newTestClient(t, Config{APIKey: "key-abc"}, srv.URL)

	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}

	checkOps(t, log, "query-profile")
	if got := log.Param(0, "api-key"); got != "key-abc" {
		t.Errorf("api-key = %q", got)
	}
	if log.Has(0, "auth-sid") {
		t.Error("api-key client must not send auth-sid")
	}
}

func TestEnsureAuth_FailedLogin(t *testing.T) {
	srv, log := newScriptServer(t, map[string]string{
		"login": nackReply(2200, "authentication error"),
	})
	c := newTestClient(t, userPassConfig(), srv.URL)

	_, err := c.Profile(context.Background())
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}

	// The target operation must never have been dispatched.
	checkOps(t, log, "login")
}

func TestEnsureAuth_AckWithoutToken(t *testing.T) {
	srv, _ := newScriptServer(t, map[string]string{
		"login": ackReply(), // success, but no Auth-Sid header
	})
	c := newTestClient(t, userPassConfig(), srv.URL)

	_, err := c.Profile(context.Background())
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	srv, log := newScriptServer(t, map[string]string{
		"login":         ackReply("Auth-Sid: sid-123"),
		"logout":        ackReply(),
		"query-profile": ackReply(),
	})
	c := newTestClient(t, userPassConfig(), srv.URL)

	if _, err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	// Session gone: the next operation has to log in again.
	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}

	checkOps(t, log, "login", "logout", "login", "query-profile")
	if got := log.Param(1, "auth-sid"); got != "sid-123" {
		t.Errorf("logout auth-sid = %q", got)
	}
}

func TestLogout_DeclinedKeepsSession(t *testing.T) {
	srv, log := newScriptServer(t, map[string]string{
		"login":         ackReply("Auth-Sid: sid-123"),
		"logout":        nackReply(2500, "try later"),
		"query-profile": ackReply(),
	})
	c := newTestClient(t, userPassConfig(), srv.URL)

	if _, err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
	resp, err := c.Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if resp.IsSuccess() {
		t.Fatal("logout should have been declined")
	}
	if _, err := c.Profile(context.Background()); err != nil {
		t.Fatalf("Profile: %v", err)
	}

	// No second login: the token survived the declined logout.
	checkOps(t, log, "login", "logout", "query-profile")
	if got := log.Param(2, "auth-sid"); got != "sid-123" {
		t.Errorf("query-profile auth-sid = %q", got)
	}
}

// --- Dispatch tests ---

func TestRequest_HTTPErrorStatusStillParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, ackReply("Tracking-Id: t-1"))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, Config{APIKey: "k"}, srv.URL)

	resp, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("expected no error for HTTP 500, got %v", err)
	}
	if !resp.IsSuccess() {
		t.Error("reply should parse as success regardless of HTTP status")
	}
	if resp.TrackingID != "t-1" {
		t.Errorf("TrackingID = %q", resp.TrackingID)
	}
}

func TestRequest_TransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := srv.URL
	srv.Close()

	c := newTestClient(t, Config{APIKey: "k", MaxRetries: 1}, serverURL)

	_, err := c.Profile(context.Background())
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrInvalidArgument) {
		t.Errorf("transport error misclassified: %v", err)
	}
}

// --- Retry tests ---

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return false }

// flakyTransport fails the first n round trips with a timeout, then
// serves the fixed reply.
type flakyTransport struct {
	mu    sync.Mutex
	fails int
	calls int
	reply string
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return nil, timeoutError{}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(f.reply)),
		Header:     make(http.Header),
		Request:    r,
	}, nil
}

func (f *flakyTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestRequest_RetriesTransportErrors(t *testing.T) {
	ft := &flakyTransport{fails: 2, reply: ackReply()}
	c, err := New(Config{APIKey: "k", MaxRetries: 3, RetryDelay: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	c.httpClient.Transport = ft

	resp, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if !resp.IsSuccess() {
		t.Error("expected ACK")
	}
	if got := ft.callCount(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRequest_RetryBudgetExhausted(t *testing.T) {
	ft := &flakyTransport{fails: 10}
	c, err := New(Config{APIKey: "k", MaxRetries: 3, RetryDelay: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	c.httpClient.Transport = ft

	if _, err := c.Profile(context.Background()); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := ft.callCount(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRequest_CancelledContext(t *testing.T) {
	ft := &flakyTransport{fails: 10}
	c, err := New(Config{APIKey: "k", MaxRetries: 3, RetryDelay: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(c.Close)
	c.httpClient.Transport = ft

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Profile(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := ft.callCount(); got != 0 {
		t.Errorf("attempts = %d, want 0", got)
	}
}

// --- Redaction tests ---

func TestRedactURL(t *testing.T) {
	in := "https://dmapi.example/request/login?username=john&password=secret&api-key=k&auth-sid=s"

	got := redactURL(in)

	for _, leak := range []string{"secret", "api-key=k", "auth-sid=s"} {
		if strings.Contains(got, leak) {
			t.Errorf("redacted URL still contains %q: %s", leak, got)
		}
	}
	if !strings.Contains(got, "username=john") {
		t.Errorf("non-sensitive parameter lost: %s", got)
	}
}
