package dmapi

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-joker/joker/logging"
)

const (
	// DefaultBaseURL is the production DMAPI endpoint.
	DefaultBaseURL = "https://dmapi.joker.com"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is how often a request is attempted before the
	// transport error is returned.
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the base delay between attempts.
	DefaultRetryDelay = time.Second

	// DefaultMaxRetryDelay caps the grown backoff delay.
	DefaultMaxRetryDelay = 30 * time.Second
)

// BackoffMode selects how the delay between retry attempts grows.
type BackoffMode int

const (
	// BackoffExponential doubles RetryDelay per attempt, jittered and
	// capped at MaxRetryDelay. This is the default.
	BackoffExponential BackoffMode = iota
	// BackoffFixed waits exactly RetryDelay between attempts.
	BackoffFixed
)

// Config is the immutable input to New. Exactly one credential method
// must be set: APIKey, or Username together with Password.
type Config struct {
	// BaseURL of the API, without a trailing slash. Empty selects
	// DefaultBaseURL.
	BaseURL string

	// APIKey authenticates every request directly, no session needed.
	APIKey string

	// Username and Password authenticate via login; the client obtains
	// a session token lazily and reuses it.
	Username string
	Password string

	// Timeout bounds each HTTP request. Zero selects DefaultTimeout.
	Timeout time.Duration

	// MaxRetries caps how many times one request is attempted when the
	// transport fails. Protocol failures and HTTP error statuses are
	// never retried. Zero selects DefaultMaxRetries.
	MaxRetries int

	// RetryDelay is the base delay between attempts. Zero selects
	// DefaultRetryDelay.
	RetryDelay time.Duration

	// Backoff selects fixed or exponential delay growth.
	Backoff BackoffMode

	// MaxRetryDelay caps the exponential delay. Zero selects
	// DefaultMaxRetryDelay.
	MaxRetryDelay time.Duration

	// LogRequests logs each outgoing URL at debug level, with
	// credential parameters redacted.
	LogRequests bool

	// LogResponses logs each raw response text at debug level.
	LogResponses bool

	// Logger receives request/response logs. Nil discards them.
	Logger logging.Logger
}

// validate enforces the credential rule: exactly one method, fully
// specified.
func (c Config) validate() error {
	hasKey := c.APIKey != ""
	hasUser := c.Username != "" || c.Password != ""

	switch {
	case hasKey && hasUser:
		return fmt.Errorf("%w: configure either an API key or username/password, not both", ErrInvalidArgument)
	case hasKey:
		return nil
	case c.Username != "" && c.Password != "":
		return nil
	case hasUser:
		return fmt.Errorf("%w: username and password must both be set", ErrInvalidArgument)
	default:
		return fmt.Errorf("%w: credentials required (api key, or username and password)", ErrInvalidArgument)
	}
}

// withDefaults fills every unset knob.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = DefaultMaxRetryDelay
	}
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	return c
}
