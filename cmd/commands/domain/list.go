package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/session"
	"github.com/go-joker/joker/internal/swrcache"

	"github.com/spf13/cobra"
)

// ListCommand returns the "domain list" subcommand.
func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List domains in the account",
		Long: `List all domains registered under the account.

Listings are served from a short-lived local cache; set JOKER_NO_CACHE=1
to force a fresh fetch.

Examples:
  joker domain list
  joker domain list --pattern "*.org"
  joker domain list --show-status -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().String("pattern", "", "Filter domains (shell wildcard syntax)")
	cmd.Flags().Bool("show-status", false, "Include registry status flags")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	pattern, _ := cmd.Flags().GetString("pattern")
	showStatus, _ := cmd.Flags().GetBool("show-status")
	opts := dmapi.DomainListOpts{Pattern: pattern, ShowStatus: showStatus}

	// Variants must not share a cache slot or a plain list could shadow
	// a filtered one.
	cacheKey := "domain-list"
	if pattern != "" {
		cacheKey += ":" + pattern
	}
	if showStatus {
		cacheKey += ":status"
	}

	domains, err := swrcache.GetOrFetch(session.Cache(), cmd.Context(), sess.Account, cacheKey,
		func(ctx context.Context) ([]dmapi.DomainInfo, error) {
			rows, resp, err := sess.Client.DomainList(ctx, opts)
			if err != nil {
				return nil, err
			}
			if !resp.IsSuccess() {
				return nil, cmdutil.Declined("domain list", resp)
			}
			return rows, nil
		})
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if !cmd.Flags().Changed("output") {
		output = sess.Config.Output
	}

	switch output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(domains)
	case "table":
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(domains) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No domains found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	if showStatus {
		fmt.Fprintln(w, "NAME\tEXPIRES\tSTATUS")
		fmt.Fprintln(w, "----\t-------\t------")
	} else {
		fmt.Fprintln(w, "NAME\tEXPIRES")
		fmt.Fprintln(w, "----\t-------")
	}

	for _, d := range domains {
		if showStatus {
			status := d.Status
			if status == "" {
				status = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Expiration, status)
		} else {
			fmt.Fprintf(w, "%s\t%s\n", d.Name, d.Expiration)
		}
	}

	w.Flush()
	return nil
}
