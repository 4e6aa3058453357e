package auth

import (
	"errors"

	"github.com/go-joker/joker/internal/util"
)

const ServiceName = "joker"

// DefaultAccount is the account name used when none is given. The CLI
// supports several registrar accounts side by side, keyed by name.
const DefaultAccount = "default"

var ErrCredentialsNotFound = errors.New("credentials not found")

// Credentials is one stored login: an API key, or a username/password
// pair. Exactly one of the two forms is expected to be filled.
type Credentials struct {
	APIKey   string `json:"api_key,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// Kind names the credential form, for display.
func (c Credentials) Kind() string {
	switch {
	case c.APIKey != "":
		return "api-key"
	case c.Username != "":
		return "password"
	default:
		return "none"
	}
}

// Usable reports whether the credentials are complete enough to
// authenticate with.
func (c Credentials) Usable() bool {
	return c.APIKey != "" || (c.Username != "" && c.Password != "")
}

// Store persists account credentials.
type Store interface {
	Save(account string, creds Credentials) error
	Load(account string) (Credentials, error)
	Delete(account string) error
}

// DefaultStore returns the standard store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeAccount normalizes an account name for consistent key lookup.
func NormalizeAccount(account string) string {
	key := util.NormalizeKey(account)
	if key == "" {
		return DefaultAccount
	}
	return key
}
