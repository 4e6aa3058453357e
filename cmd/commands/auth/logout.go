package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/config"
	"github.com/go-joker/joker/internal/session"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout [account]",
		Short: "Remove stored credentials for an account",
		Long: `Remove stored credentials for an account from the local keychain.

Any server-side session is ended best-effort first; the server expires
orphaned sessions on its own, so a failed remote logout only warns.
Cached listings for the account are dropped as well.

Examples:
  joker auth logout
  joker auth logout work`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         cmdutil.Instrument(runLogout),
		SilenceUsage: true,
	}

	return cmd
}

func runLogout(cmd *cobra.Command, args []string) error {
	account, err := resolveAccount(args)
	if err != nil {
		return err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Account: account}))

	store := session.Store()
	creds, err := store.Load(account)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			return fmt.Errorf("account %q has no stored credentials", account)
		}
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	remoteLogout(cmd, cfg, creds)

	if err := store.Delete(account); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	if err := session.Cache().InvalidateAccount(account); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not drop cached listings: %v\n", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for account %q\n", account)
	return nil
}

// remoteLogout ends the server-side session best-effort.
func remoteLogout(cmd *cobra.Command, cfg *config.Config, creds auth.Credentials) {
	client, err := apiClient(cfg, creds)
	if err != nil {
		return
	}
	defer client.Close()

	_ = cmdutil.Spin(cmd, "Ending server session...", func(ctx context.Context) error {
		if _, err := client.Logout(ctx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: remote logout failed: %v\n", err)
		}
		return nil
	})
}
