package auth

import (
	"errors"
	"fmt"

	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/session"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [account]",
		Short: "Show whether an account has stored credentials",
		Long: `Show whether an account has stored credentials and of which kind.

Examples:
  joker auth status
  joker auth status work`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runStatus,
		SilenceUsage: true,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	account, err := resolveAccount(args)
	if err != nil {
		return err
	}

	creds, err := session.Store().Load(account)
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: logged in (%s)\n", account, creds.Kind())
	case errors.Is(err, auth.ErrCredentialsNotFound):
		fmt.Fprintf(cmd.OutOrStdout(), "%s: not logged in\n", account)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", account, err)
	}
	return nil
}
