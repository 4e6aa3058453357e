package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/config"
	"github.com/go-joker/joker/internal/session"
	"github.com/go-joker/joker/internal/tui"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [account]",
		Short: "Store DMAPI credentials for an account",
		Long: `Store DMAPI credentials for an account in the local keychain.

Credentials are verified against the server with a login round-trip
before they are saved. Without flags an interactive form asks for an
API key or a username and password.

Examples:
  joker auth login                      # interactive, account from config
  joker auth login work                 # interactive, named account
  joker auth login --api-key KEY
  joker auth login work --username jane # password is prompted`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         cmdutil.Instrument(runLogin),
		SilenceUsage: true,
	}

	cmd.Flags().String("api-key", "", "DMAPI API key (skips the interactive form)")
	cmd.Flags().String("username", "", "Account username; the password is prompted")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	account, err := resolveAccount(args)
	if err != nil {
		return err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Account: account}))

	creds, err := collectCredentials(cmd, account)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Login cancelled.")
			return nil
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := verifyCredentials(cmd, cfg, creds); err != nil {
		return err
	}

	if err := session.Store().Save(account, creds); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for account %q\n", account)
	return nil
}

// collectCredentials gathers credentials from flags, falling back to the
// interactive form on a terminal. Existing credentials prefill the form
// so re-login defaults to the stored method.
func collectCredentials(cmd *cobra.Command, account string) (auth.Credentials, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey = strings.TrimSpace(apiKey); apiKey != "" {
		return auth.Credentials{APIKey: apiKey}, nil
	}

	username, _ := cmd.Flags().GetString("username")
	if username = strings.TrimSpace(username); username != "" {
		fmt.Fprint(cmd.OutOrStdout(), "Enter password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return auth.Credentials{}, err
		}
		password := strings.TrimSpace(string(raw))
		if password == "" {
			return auth.Credentials{}, fmt.Errorf("password cannot be empty")
		}
		return auth.Credentials{Username: username, Password: password}, nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return auth.Credentials{}, fmt.Errorf("no credentials given: pass --api-key or --username, or run interactively")
	}

	prefill, _ := session.Store().Load(account)
	return tui.CredentialsForm(prefill)
}

// verifyCredentials performs a login round-trip so bad credentials are
// caught now, not on the first real command.
func verifyCredentials(cmd *cobra.Command, cfg *config.Config, creds auth.Credentials) error {
	client, err := apiClient(cfg, creds)
	if err != nil {
		return err
	}
	defer client.Close()

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, "Verifying credentials...", func(ctx context.Context) error {
		var loginErr error
		resp, loginErr = client.Login(ctx)
		return loginErr
	})
	if err != nil {
		return fmt.Errorf("could not verify credentials: %w", err)
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("login", resp)
	}
	return nil
}
