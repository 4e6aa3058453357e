package account

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"

	"github.com/spf13/cobra"
)

// BalanceCommand returns the command that prints the prepaid balance.
func BalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the prepaid account balance",
		Long: `Show the prepaid account balance.

Prints the raw balance the server reports, suitable for scripting:

  joker account balance`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd)
		},
		SilenceUsage: true,
	}

	return cmd
}

func runBalance(cmd *cobra.Command) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, "Fetching balance...", func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.Profile(ctx)
		return reqErr
	})
	if err != nil {
		return fmt.Errorf("could not fetch balance: %w", err)
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("balance query", resp)
	}
	if resp.AccountBalance == "" {
		return fmt.Errorf("server did not report a balance")
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.AccountBalance)
	return nil
}
