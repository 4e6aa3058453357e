package dns

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/util"

	"github.com/spf13/cobra"
)

// GetCommand returns the "dns get" subcommand.
func GetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <domain>",
		Short: "Print a domain's zone as raw text",
		Long: `Print a domain's zone in the server's colon-delimited text format,
suitable for saving and editing.

Example:
  joker dns get example.com > zone.txt`,
		Args:         cobra.ExactArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}

	return cmd
}

func runGet(cmd *cobra.Command, args []string) error {
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
	err = cmdutil.Spin(cmd, fmt.Sprintf("Fetching zone for %s...", domainName), func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.ZoneGet(ctx, domainName)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("dns get", resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.BodyText())
	return nil
}
