package dns

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/util"

	"github.com/spf13/cobra"
)

// SetCommand returns the "dns set" subcommand.
func SetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <domain> <label> <value>",
		Short: "Create or replace a TXT record",
		Long: `Create or replace the TXT record at a label.

An existing TXT record with the same label is replaced; other records
are left untouched. Writes rewrite the whole zone, so do not run two
updates against the same zone at once.

Examples:
  joker dns set example.com _acme-challenge "token-value"
  joker dns set example.com _acme-challenge "token-value" --ttl 120
  joker dns set example.com mylabel "v=spf1 -all" --dyndns`,
		Args:         cobra.ExactArgs(3),
		RunE:         cmdutil.Instrument(runSet),
		SilenceUsage: true,
	}

	cmd.Flags().Int("ttl", 0, "TTL in seconds (0 keeps the zone default)")
	cmd.Flags().Bool("dyndns", false, "Write through the SVC dynamic-DNS endpoint")

	return cmd
}

func runSet(cmd *cobra.Command, args []string) error {
	domainName, label, value := args[0], args[1], args[2]
	if err := util.ValidateDomainName(domainName); err != nil {
		return err
	}

	client, closer, err := svcClient(cmd, domainName)
	if err != nil {
		return err
	}
	defer closer()
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Domain: domainName}))

	ttl, _ := cmd.Flags().GetInt("ttl")

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, fmt.Sprintf("Updating TXT record on %s...", domainName), func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = client.SetTXT(ctx, label, value, ttl)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("dns set", resp)
	}
	cmdutil.PrintWarnings(cmd, resp)

	fmt.Fprintf(cmd.OutOrStdout(), "Set TXT record %s on %s\n", label, domainName)
	fmt.Fprintf(cmd.OutOrStdout(), "Verify propagation with: joker dns verify %s %s %q\n", domainName, label, value)
	return nil
}
