package dns

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/config"
	"github.com/go-joker/joker/internal/dnsprobe"
	"github.com/go-joker/joker/internal/util"
	"github.com/go-joker/joker/logging"

	"github.com/spf13/cobra"
)

// prober is the slice of dnsprobe the command needs.
type prober interface {
	Probe(ctx context.Context, domain, label, value string) (*dnsprobe.Report, error)
}

// newProber builds the prober. It is a variable so tests can substitute
// one with stubbed DNS.
var newProber = func(log logging.Logger) prober { return dnsprobe.New(log) }

// VerifyCommand returns the "dns verify" subcommand.
func VerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <domain> <label> [value]",
		Short: "Check that a TXT record is visible on the authoritative nameservers",
		Long: `Query every authoritative nameserver of the domain directly and report
which of them serve the TXT record at the label. Without a value, any
TXT record at the label counts.

DNS propagation is asynchronous, so a record that was just written may
take a while to show up everywhere.

Examples:
  joker dns verify example.com _acme-challenge
  joker dns verify example.com _acme-challenge "token-value"`,
		Args:         cobra.RangeArgs(2, 3),
		RunE:         runVerify,
		SilenceUsage: true,
	}

	return cmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	domainName, label := args[0], args[1]
	value := ""
	if len(args) == 3 {
		value = args[2]
	}
	if err := util.ValidateDomainName(domainName); err != nil {
		return err
	}

	// Probing talks to public DNS only; no credentials involved.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}

	prober := newProber(log)

	var report *dnsprobe.Report
	err = cmdutil.Spin(cmd, "Checking authoritative nameservers...", func(ctx context.Context) error {
		var probeErr error
		report, probeErr = prober.Probe(ctx, domainName, label, value)
		return probeErr
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SERVER\tSTATUS")
	fmt.Fprintln(w, "------\t------")
	for _, s := range report.Servers {
		status := "missing"
		switch {
		case s.Found:
			status = "found"
		case s.Err != nil:
			status = fmt.Sprintf("error (%v)", s.Err)
		}
		fmt.Fprintf(w, "%s\t%s\n", s.Server, status)
	}
	w.Flush()

	total := len(report.Servers)
	found := report.FoundCount()
	if !report.AllFound() {
		return fmt.Errorf("record visible on %d of %d authoritative nameservers", found, total)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nRecord visible on all %d authoritative nameservers.\n", total)
	return nil
}
