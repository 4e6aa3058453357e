package domain

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/session"
	"github.com/go-joker/joker/internal/util"

	"github.com/spf13/cobra"
)

// RenewCommand returns the "domain renew" subcommand.
func RenewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renew <domain>",
		Short: "Renew a domain registration",
		Long: `Extend a domain registration by a number of years.

Renewals are queued server-side like registrations; track the printed
tracking ID with the result commands.

Examples:
  joker domain renew example.com
  joker domain renew example.com --period 2`,
		Args:         cobra.ExactArgs(1),
		RunE:         cmdutil.Instrument(runRenew),
		SilenceUsage: true,
	}

	cmd.Flags().Int("period", 1, "Renewal term in years (1-10)")

	return cmd
}

func runRenew(cmd *cobra.Command, args []string) error {
	domainName := args[0]
	if err := util.ValidateDomainName(domainName); err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Domain: domainName}))

	period, _ := cmd.Flags().GetInt("period")

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, fmt.Sprintf("Renewing %s...", domainName), func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.DomainRenew(ctx, domainName, period)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("domain renew", resp)
	}

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		TrackingID: resp.TrackingID,
		ProcID:     resp.ProcID,
	}))
	cmdutil.PrintWarnings(cmd, resp)

	// Expiry dates in the cached listing are stale now.
	_ = session.Cache().InvalidateAccount(sess.Account)

	fmt.Fprintf(cmd.OutOrStdout(), "Renewal for %s submitted.\n", domainName)
	printTrackingInfo(cmd, resp)
	return nil
}
