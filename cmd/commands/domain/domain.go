package domain

import (
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/session"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "domain" command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Manage registered domains",
		Long:  `List, register, renew, and inspect the domains of an account.`,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(RegisterCommand())
	cmd.AddCommand(RenewCommand())
	cmd.AddCommand(WhoisCommand())

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

// printTrackingInfo prints the queue identifiers of an accepted request
// and how to follow up on them.
func printTrackingInfo(cmd *cobra.Command, resp *dmapi.Response) {
	if resp.TrackingID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Tracking-Id: %s\n", resp.TrackingID)
	}
	if resp.ProcID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Proc-Id: %s\n", resp.ProcID)
	}
	if resp.TrackingID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTrack progress with: joker result poll --tracking-id %s\n", resp.TrackingID)
	}
}
