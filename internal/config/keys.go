package config

import (
	"fmt"
	"strconv"
	"strings"
)

// KeySpec describes a single configuration key.
type KeySpec struct {
	// Name is the CLI-facing key name (e.g. "log-level").
	Name string

	// Description is a short human-readable explanation shown in help text.
	Description string

	// Get returns the current value for this key from a loaded Config.
	Get func(cfg *Config) string

	// Set applies a value for this key to the given Config (in memory only;
	// the caller is responsible for calling Save).
	Set func(cfg *Config, value string) error
}

// Keys is the authoritative list of all supported configuration keys.
// To add a new option: add a field to Config and append a KeySpec here.
var Keys = []KeySpec{
	{
		Name:        "account",
		Description: "Stored credentials to use when --account is not specified",
		Get:         func(cfg *Config) string { return cfg.Account },
		Set: func(cfg *Config, v string) error {
			cfg.Account = v
			return nil
		},
	},
	{
		Name:        "base-url",
		Description: "DMAPI endpoint override (empty uses the production endpoint)",
		Get:         func(cfg *Config) string { return cfg.BaseURL },
		Set: func(cfg *Config, v string) error {
			cfg.BaseURL = v
			return nil
		},
	},
	{
		Name:        "log-level",
		Description: "Log verbosity: debug, info, warn, or error",
		Get:         func(cfg *Config) string { return cfg.LogLevel },
		Set: func(cfg *Config, v string) error {
			cfg.LogLevel = v
			return nil
		},
	},
	{
		Name:        "output",
		Description: "Default rendering for list commands: table or json",
		Get:         func(cfg *Config) string { return cfg.Output },
		Set: func(cfg *Config, v string) error {
			cfg.Output = v
			return nil
		},
	},
	{
		Name:        "timeout",
		Description: "Request timeout in seconds",
		Get: func(cfg *Config) string {
			if cfg.Timeout == 0 {
				return ""
			}
			return strconv.Itoa(cfg.Timeout)
		},
		Set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("config: timeout must be an integer: %w", err)
			}
			cfg.Timeout = n
			return nil
		},
	},
}

// Lookup returns the KeySpec for the given name, or nil if not found.
// The name is matched case-insensitively after trimming whitespace.
func Lookup(name string) *KeySpec {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i := range Keys {
		if Keys[i].Name == normalized {
			return &Keys[i]
		}
	}
	return nil
}

// KeyNames returns the names of all registered keys.
func KeyNames() []string {
	names := make([]string, len(Keys))
	for i, k := range Keys {
		names[i] = k.Name
	}
	return names
}

// KeysHelp builds a formatted block listing all available keys and their
// descriptions, suitable for inclusion in Cobra Long help text.
func KeysHelp() string {
	if len(Keys) == 0 {
		return ""
	}

	// Find the longest key name for alignment.
	maxLen := 0
	for _, k := range Keys {
		if len(k.Name) > maxLen {
			maxLen = len(k.Name)
		}
	}

	var b strings.Builder
	b.WriteString("Available keys:\n")
	for _, k := range Keys {
		fmt.Fprintf(&b, "  %-*s   %s\n", maxLen, k.Name, k.Description)
	}
	return b.String()
}
