package account

import (
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/session"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "account" command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Inspect the reseller account",
		Long: `Inspect the reseller account behind the stored credentials.

Shows the prepaid balance and the profile the registrar keeps on file
(contact data, default nameservers, notification addresses).`,
	}

	cmd.AddCommand(BalanceCommand())
	cmd.AddCommand(ProfileCommand())

	cmd.PersistentFlags().String("account", "", "Stored account to use (overrides the config default)")

	return cmd
}

// openSession resolves the account and builds a ready client. The account
// lands in the audit metadata as a side effect.
func openSession(cmd *cobra.Command) (*session.Session, error) {
	sess, err := session.Open(cmd.Flag("account").Value.String())
	if err != nil {
		return nil, err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Account: sess.Account}))
	return sess, nil
}
