package result

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/cmdutil"

	"github.com/spf13/cobra"
)

// DeleteCommand returns the "result delete" subcommand.
func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <proc-id>",
		Short: "Remove an entry from the result queue",
		Long: `Remove one processed entry from the server-side result queue.

Example:
  joker result delete 77`,
		Args:         cobra.ExactArgs(1),
		RunE:         cmdutil.Instrument(runDelete),
		SilenceUsage: true,
	}

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	procID := args[0]

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{ProcID: procID}))

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, "Deleting result...", func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.ResultDelete(ctx, procID)
		return reqErr
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("result delete", resp)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted result %s\n", procID)
	return nil
}
