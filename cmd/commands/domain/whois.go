package domain

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/util"

	"github.com/spf13/cobra"
)

// WhoisCommand returns the "domain whois" subcommand.
func WhoisCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whois <domain>",
		Short: "Show whois data for a domain",
		Long: `Show the registry's whois data for a domain in the account.

Example:
  joker domain whois example.com`,
		Args:         cobra.ExactArgs(1),
		RunE:         runWhois,
		SilenceUsage: true,
	}

	return cmd
}

func runWhois(cmd *cobra.Command, args []string) error {
	domainName := args[0]
	if err := util.ValidateDomainName(domainName); err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, fmt.Sprintf("Querying whois for %s...", domainName), func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.Whois(ctx, domainName)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("domain whois", resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.BodyText())
	return nil
}
