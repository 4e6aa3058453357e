package dns

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/go-joker/joker/internal/tui"
	"github.com/go-joker/joker/internal/util"
	"github.com/go-joker/joker/zone"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// RecordsCommand returns the "dns records" subcommand.
func RecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records <domain>",
		Short: "List the records of a domain's zone",
		Long: `List all records of the given domain's zone.

On a terminal an interactive browser opens; piped output prints a table.

Examples:
  joker dns records example.com
  joker dns records example.com --type TXT`,
		Args:         cobra.ExactArgs(1),
		RunE:         runRecords,
		SilenceUsage: true,
	}

	cmd.Flags().String("type", "", "Filter records by type (A, AAAA, CNAME, MX, TXT, ...)")

	return cmd
}

func runRecords(cmd *cobra.Command, args []string) error {
	domainName := args[0]
	if err := util.ValidateDomainName(domainName); err != nil {
		return err
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	load := func(ctx context.Context) ([]zone.Record, error) {
		return loadZone(ctx, sess.Client, domainName)
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return tui.RunRecordBrowser(sess.Account, domainName, load)
	}

	records, err := load(cmd.Context())
	if err != nil {
		return err
	}

	typeFilter, _ := cmd.Flags().GetString("type")
	if typeFilter != "" {
		filtered := records[:0]
		for _, r := range records {
			if strings.EqualFold(string(r.Type), typeFilter) {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No records found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "LABEL\tTYPE\tVALUE\tTTL\tPRIORITY")
	fmt.Fprintln(w, "-----\t----\t-----\t---\t--------")

	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Label,
			string(r.Type),
			r.Value,
			optInt(r.TTL),
			optInt(r.Priority),
		)
	}

	w.Flush()
	return nil
}

// optInt renders an optional numeric column, blank when absent.
func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}
