package result

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"

	"github.com/spf13/cobra"
)

// RetrieveCommand returns the "result retrieve" subcommand.
func RetrieveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrieve",
		Short: "Fetch the detailed outcome of a queued request",
		Long: `Fetch the detailed outcome of one queued request, addressed by its
processing ID or its tracking ID.

Examples:
  joker result retrieve --proc-id 77
  joker result retrieve --tracking-id abc123`,
		RunE:         runRetrieve,
		SilenceUsage: true,
	}

	cmd.Flags().String("proc-id", "", "Processing ID from result list")
	cmd.Flags().String("tracking-id", "", "Tracking ID from the submitting command")

	return cmd
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	procID, _ := cmd.Flags().GetString("proc-id")
	trackingID, _ := cmd.Flags().GetString("tracking-id")
	if procID == "" && trackingID == "" {
		return fmt.Errorf("pass --proc-id or --tracking-id")
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, "Fetching result...", func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.ResultRetrieve(ctx, procID, trackingID)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("result retrieve", resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.BodyText())
	return nil
}
