package dmapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/go-joker/joker/internal/retry"
	"github.com/go-joker/joker/logging"
)

const userAgent = "go-joker"

// Client talks the DMAPI request/response protocol. It is safe for
// concurrent use; the session token is the only shared state. Two
// concurrent first calls on a username/password client may both log in,
// the later token wins and both remain valid.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        logging.Logger

	mu      sync.Mutex
	authSID string
}

// New validates cfg and returns a ready client. The HTTP transport is
// only allocated after validation passes, so a failed New leaves
// nothing to clean up.
func New(cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = cfg.Timeout

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		log:        cfg.Logger,
	}, nil
}

// Close releases idle transport connections. The client must not be
// used afterwards.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// do runs one authenticated operation: ensure a session exists, attach
// the credential, dispatch.
func (c *Client) do(ctx context.Context, op string, params url.Values) (*Response, error) {
	if err := c.ensureAuth(ctx); err != nil {
		return nil, err
	}
	if params == nil {
		params = url.Values{}
	}
	c.attachAuth(params)
	return c.request(ctx, op, params)
}

// request issues GET {base}/request/{op}?params and parses the reply.
// The body is read and parsed regardless of the HTTP status code; the
// protocol reports failure in the text, not the status line. Only
// transport failures return an error, retried per the retry config.
func (c *Client) request(ctx context.Context, op string, params url.Values) (*Response, error) {
	reqURL := c.cfg.BaseURL + "/request/" + op
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if c.cfg.LogRequests {
		c.log.Debug(map[string]any{"url": redactURL(reqURL)}, "dmapi request")
	}

	var raw string
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: c.cfg.MaxRetries,
		BaseDelay:   c.cfg.RetryDelay,
		MaxDelay:    c.cfg.MaxRetryDelay,
		Fixed:       c.cfg.Backoff == BackoffFixed,
	}, retry.IsRetryable, func() error {
		var err error
		raw, err = c.fetch(ctx, reqURL)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("dmapi: %s: %w", op, err)
	}

	if c.cfg.LogResponses {
		c.log.Debug(map[string]any{"op": op, "response": raw}, "dmapi response")
	}
	return ParseResponse(raw), nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ensureAuth makes the client ready to authenticate the next request.
// API-key clients are always ready. Username/password clients log in
// once and reuse the session token until Logout.
func (c *Client) ensureAuth(ctx context.Context) error {
	if c.cfg.APIKey != "" {
		return nil
	}
	if c.sessionToken() != "" {
		return nil
	}

	resp, err := c.Login(ctx)
	if err != nil {
		return err
	}
	if !resp.IsSuccess() || resp.AuthSID == "" {
		return fmt.Errorf("%w: login did not yield a session (status %d %s)",
			ErrAuthentication, resp.StatusCode, resp.StatusText)
	}
	return nil
}

// attachAuth adds the credential parameter. The API key wins when both
// it and a session token exist.
func (c *Client) attachAuth(params url.Values) {
	if c.cfg.APIKey != "" {
		params.Set("api-key", c.cfg.APIKey)
		return
	}
	params.Set("auth-sid", c.sessionToken())
}

// Login authenticates with the configured credentials. On a successful
// reply carrying a session token, the token is stored for subsequent
// requests. The token is only touched after the transport call returns,
// so a cancelled login leaves the session state unchanged.
func (c *Client) Login(ctx context.Context) (*Response, error) {
	params := url.Values{}
	if c.cfg.APIKey != "" {
		params.Set("api-key", c.cfg.APIKey)
	} else {
		params.Set("username", c.cfg.Username)
		params.Set("password", c.cfg.Password)
	}

	resp, err := c.request(ctx, "login", params)
	if err != nil {
		return nil, err
	}
	if resp.IsSuccess() && resp.AuthSID != "" {
		c.setSessionToken(resp.AuthSID)
	}
	return resp, nil
}

// Logout ends the session. The held token is cleared only when the
// server acknowledges.
func (c *Client) Logout(ctx context.Context) (*Response, error) {
	params := url.Values{}
	c.attachAuth(params)

	resp, err := c.request(ctx, "logout", params)
	if err != nil {
		return nil, err
	}
	if resp.IsSuccess() {
		c.setSessionToken("")
	}
	return resp, nil
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authSID
}

func (c *Client) setSessionToken(token string) {
	c.mu.Lock()
	c.authSID = token
	c.mu.Unlock()
}

// sensitiveParams are stripped from logged request URLs.
var sensitiveParams = []string{"password", "api-key", "auth-sid"}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range sensitiveParams {
		if q.Has(p) {
			q.Set(p, "[redacted]")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
