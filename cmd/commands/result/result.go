package result

import (
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/session"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "result" command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "Track queued requests",
		Long: `Track requests the server queued instead of answering directly.

Registrations, renewals, and similar operations return a tracking ID and
land in a server-side result queue once processed. This command group
lists, retrieves, deletes, and polls those results.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(RetrieveCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(PollCommand())

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
