// Package config handles persistent user configuration for the joker CLI.
//
// Effective configuration merges three layers, lowest precedence first:
// built-in defaults, the YAML file at ~/.config/joker/config.yaml (or the
// platform-equivalent path returned by os.UserConfigDir), and JOKER_-prefixed
// environment variables (JOKER_LOG_LEVEL overrides log_level, and so on).
// Load returns the merged view; LoadFile returns the file layer alone, which
// is what "joker config set" edits.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	appDir    = "joker"
	fileName  = "config.yaml"
	envPrefix = "JOKER_"
)

// pathOverride, when non-empty, replaces the default config file path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the config file path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override, reverting to the default. Intended for testing.
func ResetPath() { pathOverride = "" }

// Config holds user preferences that persist across invocations.
type Config struct {
	// Account selects which stored credentials to use.
	Account string `koanf:"account" yaml:"account,omitempty"`

	// BaseURL overrides the DMAPI endpoint. Empty selects the production
	// endpoint.
	BaseURL string `koanf:"base_url" yaml:"base_url,omitempty" validate:"omitempty,url"`

	// LogLevel controls log verbosity: "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// Output is the default rendering for list commands: "table" or "json".
	Output string `koanf:"output" yaml:"output,omitempty" validate:"omitempty,oneof=table json"`

	// Timeout bounds each DMAPI request, in seconds.
	Timeout int `koanf:"timeout" yaml:"timeout,omitempty" validate:"omitempty,gte=1,lte=600"`
}

// defaults are the built-in values applied before the file and environment
// layers.
var defaults = Config{
	Account:  "default",
	LogLevel: "warn",
	Output:   "table",
	Timeout:  30,
}

// Path returns the absolute path to the config file.
// If SetPath has been called, that value is returned instead.
// Otherwise it uses os.UserConfigDir which resolves to
// ~/Library/Application Support on macOS, ~/.config on Linux, and
// %AppData% on Windows.
func Path() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, fileName), nil
}

// Load builds the effective configuration: defaults, then the config file if
// it exists, then JOKER_-prefixed environment variables. The result is
// validated before being returned.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to stat %s: %w", path, err)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads only the config file layer, without defaults or environment
// overrides. If the file does not exist, a zero-value Config is returned (not
// an error). "joker config set" edits this view so environment values never
// leak into the written file.
func LoadFile() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks field constraints. Zero values are always acceptable so a
// sparse config file validates.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

// Save validates the config and writes it to disk as YAML, creating the
// parent directory if needed.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}

	return nil
}
