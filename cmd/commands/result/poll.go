package result

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"

	"github.com/spf13/cobra"
)

// pollInterval is the delay between successive poll requests.
// It is a variable (not a constant) so tests can override it for speed.
var pollInterval = 3 * time.Second

// maxPollAttempts caps how many times we poll before giving up.
// At 3 s intervals this gives ~5 minutes, well beyond the typical
// processing time for a registration or renewal.
const maxPollAttempts = 100

// maxTransientErrors is the number of consecutive transport errors
// allowed before the poll loop gives up. This tolerates brief network
// blips without abandoning a request that is still processing.
const maxTransientErrors = 3

// PollCommand returns the "result poll" subcommand.
func PollCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Wait for a queued request to finish",
		Long: `Poll the result queue until the request's outcome arrives, then print it.

The server answers NACK while a request is still processing; polling
continues until the result shows up, the attempt budget runs out, or
repeated transport errors give up.

Examples:
  joker result poll --tracking-id abc123
  joker result poll --proc-id 77`,
		RunE:         runPoll,
		SilenceUsage: true,
	}

	cmd.Flags().String("proc-id", "", "Processing ID from result list")
	cmd.Flags().String("tracking-id", "", "Tracking ID from the submitting command")

	return cmd
}

func runPoll(cmd *cobra.Command, args []string) error {
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

	fmt.Fprintf(cmd.ErrOrStderr(), "Polling every %s, up to %d attempts...\n", pollInterval, maxPollAttempts)

	resp, err := waitForResult(cmd.Context(), sess.Client, procID, trackingID, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cmdutil.PrintWarnings(cmd, resp)
	fmt.Fprintln(cmd.OutOrStdout(), resp.BodyText())
	return nil
}

// waitForResult polls result-retrieve until the server acknowledges.
// A NACK means the request has not finished processing; transport
// errors are tolerated up to maxTransientErrors in a row. Progress
// messages are written to w (typically cmd.ErrOrStderr()).
func waitForResult(ctx context.Context, client *dmapi.Client, procID, trackingID string, w io.Writer) (*dmapi.Response, error) {
	var consecutiveErrors int

	for i := 0; i < maxPollAttempts; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}

		resp, err := client.ResultRetrieve(ctx, procID, trackingID)
		if err != nil {
			consecutiveErrors++
			if consecutiveErrors >= maxTransientErrors {
				return nil, fmt.Errorf("error polling result (after %d consecutive failures): %w", consecutiveErrors, err)
			}
			fmt.Fprintf(w, "  Transient error, retrying... (%d/%d)\n", consecutiveErrors, maxTransientErrors)
			continue
		}
		consecutiveErrors = 0

		if resp.IsSuccess() {
			return resp, nil
		}

		// Still processing -- log the server's status and continue.
		status := resp.StatusText
		if status == "" {
			status = "result not ready"
		}
		fmt.Fprintf(w, "  Status: %s\n", status)
	}

	return nil, fmt.Errorf("timed out waiting for the result (%d polls)", maxPollAttempts)
}
