package result

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"

	"github.com/spf13/cobra"
)

// ListCommand returns the "result list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued request results",
		Long: `List the results waiting in the account's server-side queue,
one per line as the server formats them.

Example:
  joker result list`,
		RunE:         runList,
		SilenceUsage: true,
	}

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, "Fetching results...", func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.ResultList(ctx)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("result list", resp)
	}

	body := resp.BodyText()
	if body == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No results found.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), body)
	return nil
}
