package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/config"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored DMAPI credentials",
		Long: `Manage stored DMAPI credentials.

Use this command group to log in and store credentials securely in the
system keychain. Several registrar accounts can be stored side by side;
other commands pick one with --account or the "account" config key.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}

// resolveAccount picks the account name: the positional argument when
// given, otherwise the "account" config key.
func resolveAccount(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return auth.NormalizeAccount(args[0]), nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return auth.NormalizeAccount(cfg.Account), nil
}

// apiClient builds a throwaway DMAPI client for the given credentials,
// honoring the configured endpoint and timeout.
func apiClient(cfg *config.Config, creds auth.Credentials) (*dmapi.Client, error) {
	return dmapi.New(dmapi.Config{
		BaseURL:  cfg.BaseURL,
		APIKey:   creds.APIKey,
		Username: creds.Username,
		Password: creds.Password,
		Timeout:  time.Duration(cfg.Timeout) * time.Second,
	})
}
