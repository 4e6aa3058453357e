package account

import (
	"context"
	"fmt"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"

	"github.com/spf13/cobra"
)

// ProfileCommand returns the command that prints the account profile.
func ProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the account profile",
		Long: `Show the account profile kept on file by the registrar.

The profile is a set of "key: value" lines covering contact data,
default nameservers, and notification settings. It is printed verbatim.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd)
		},
		SilenceUsage: true,
	}

	return cmd
}

func runProfile(cmd *cobra.Command) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	var resp *dmapi.Response
	err = cmdutil.Spin(cmd, "Fetching profile...", func(ctx context.Context) error {
		var reqErr error
		resp, reqErr = sess.Client.Profile(ctx)
		return reqErr
	})
	if err != nil {
		return fmt.Errorf("could not fetch profile: %w", err)
	}
	if !resp.IsSuccess() {
		return cmdutil.Declined("profile query", resp)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.BodyText())
	return nil
}
