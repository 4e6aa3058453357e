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

// RegisterCommand returns the "domain register" subcommand.
func RegisterCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register <domain>",
		Short: "Register a new domain",
		Long: `Submit a domain registration.

Registrations are queued server-side; the printed tracking ID feeds the
result commands. Contact handles left empty fall back to the account
defaults.

Examples:
  joker domain register example.com
  joker domain register example.com --period 5 --owner CONT-1234
  joker domain register example.com --ns ns1.example.net --ns ns2.example.net`,
		Args:         cobra.ExactArgs(1),
		RunE:         cmdutil.Instrument(runRegister),
		SilenceUsage: true,
	}

	cmd.Flags().Int("period", 1, "Registration term in years (1-10)")
	cmd.Flags().String("owner", "", "Owner contact handle")
	cmd.Flags().String("admin", "", "Admin contact handle")
	cmd.Flags().String("tech", "", "Tech contact handle")
	cmd.Flags().String("billing", "", "Billing contact handle")
	cmd.Flags().StringSlice("ns", nil, "Nameserver for the initial delegation (repeatable)")

	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
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
	owner, _ := cmd.Flags().GetString("owner")
	admin, _ := cmd.Flags().GetString("admin")
	tech, _ := cmd.Flags().GetString("tech")
	billing, _ := cmd.Flags().GetString("billing")
	nameservers, _ := cmd.Flags().GetStringSlice("ns")

	opts := dmapi.RegisterOpts{
		Period:         period,
		OwnerContact:   owner,
		AdminContact:   admin,
		TechContact:    tech,
		BillingContact: billing,
		Nameservers:    nameservers,
	}

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, fmt.Sprintf("Registering %s...", domainName), func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.DomainRegister(ctx, domainName, opts)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("domain register", resp)
	}

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		TrackingID: resp.TrackingID,
		ProcID:     resp.ProcID,
	}))
	cmdutil.PrintWarnings(cmd, resp)

	// The listing is stale now.
	_ = session.Cache().InvalidateAccount(sess.Account)

	fmt.Fprintf(cmd.OutOrStdout(), "Registration for %s submitted.\n", domainName)
	printTrackingInfo(cmd, resp)
	return nil
}
