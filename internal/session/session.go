// Package session turns the persistent configuration and stored
// credentials into ready DMAPI clients. Commands resolve their account
// through here so flag, config file, and keyring precedence is decided
// in exactly one place.
package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/config"
	"github.com/go-joker/joker/internal/swrcache"
	"github.com/go-joker/joker/logging"
)

// Session carries everything one command invocation needs to talk to
// the registrar: the resolved account, the loaded configuration, a
// logger at the configured level, and an authenticated client.
type Session struct {
	Account string
	Config  *config.Config
	Log     logging.Logger
	Client  *dmapi.Client
}

// storeOverride replaces the OS keyring during tests.
var storeOverride auth.Store

// SetStore overrides the credential store. Intended for tests only.
func SetStore(s auth.Store) { storeOverride = s }

// ResetStore restores the OS keyring store.
func ResetStore() { storeOverride = nil }

// Store returns the credential store commands should use.
func Store() auth.Store {
	if storeOverride != nil {
		return storeOverride
	}
	return auth.DefaultStore()
}

// Open builds a session for the given account. An empty account falls
// back to the configured default. The client is not yet logged in;
// password sessions are established lazily on the first request.
func Open(account string) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if account == "" {
		account = cfg.Account
	}
	account = auth.NormalizeAccount(account)

	log, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return nil, err
	}

	creds, err := Store().Load(account)
	if errors.Is(err, auth.ErrCredentialsNotFound) {
		return nil, fmt.Errorf("account %q has no stored credentials: run 'joker auth login'", account)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials for %q: %w", account, err)
	}

	client, err := dmapi.New(dmapi.Config{
		BaseURL:      cfg.BaseURL,
		APIKey:       creds.APIKey,
		Username:     creds.Username,
		Password:     creds.Password,
		Timeout:      time.Duration(cfg.Timeout) * time.Second,
		LogRequests:  true,
		LogResponses: true,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}

	return &Session{
		Account: account,
		Config:  cfg,
		Log:     log,
		Client:  client,
	}, nil
}

// Close releases the session's transport resources.
func (s *Session) Close() {
	if s != nil && s.Client != nil {
		s.Client.Close()
	}
}

// Cache returns the domain list cache, or nil when JOKER_NO_CACHE=1
// disables caching for this invocation.
func Cache() *swrcache.Cache {
	if os.Getenv("JOKER_NO_CACHE") == "1" {
		return nil
	}
	return swrcache.NewDefault()
}
