package dns

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/tui"
	"github.com/go-joker/joker/internal/util"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// DelCommand returns the "dns del" subcommand.
func DelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "del <domain> <label>",
		Short: "Delete a TXT record",
		Long: `Delete the TXT record at a label.

Asks for confirmation on a terminal; scripted runs must pass --yes.

Examples:
  joker dns del example.com _acme-challenge
  joker dns del example.com _acme-challenge --yes`,
		Args:         cobra.ExactArgs(2),
		RunE:         cmdutil.Instrument(runDel),
		SilenceUsage: true,
	}

	cmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	cmd.Flags().Bool("dyndns", false, "Write through the SVC dynamic-DNS endpoint")

	return cmd
}

func runDel(cmd *cobra.Command, args []string) error {
	domainName, label := args[0], args[1]
	if err := util.ValidateDomainName(domainName); err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to delete without --yes in a non-interactive session")
		}
		ok, err := tui.Confirm(fmt.Sprintf("Delete the TXT record %q on %s?", label, domainName))
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Deletion cancelled.")
				return nil
			}
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "Deletion cancelled.")
			return nil
		}
	}

	client, closer, err := svcClient(cmd, domainName)
	if err != nil {
		return err
	}
	defer closer()
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Domain: domainName}))

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, fmt.Sprintf("Deleting TXT record on %s...", domainName), func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = client.DeleteTXT(ctx, label)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("dns del", resp)
	}
	cmdutil.PrintWarnings(cmd, resp)

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted TXT record %s on %s\n", label, domainName)
	return nil
}
