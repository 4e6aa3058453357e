package cmd

import (
	"os"

	"github.com/go-joker/joker/cmd/commands/account"
	"github.com/go-joker/joker/cmd/commands/audit"
	"github.com/go-joker/joker/cmd/commands/auth"
	cfgcmd "github.com/go-joker/joker/cmd/commands/config"
	"github.com/go-joker/joker/cmd/commands/dns"
	"github.com/go-joker/joker/cmd/commands/domain"
	"github.com/go-joker/joker/cmd/commands/result"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "joker",
		Short: "A CLI tool for managing domains through the joker.com DMAPI",
		Long: `joker is a command-line tool for the joker.com domain management API.
It covers domain registration and renewal, DNS zone editing, TXT record
automation for ACME-style challenges, and the server-side result queue
for asynchronous requests.

Quick start:
  joker auth login                      # Store your API key or password
  joker domain list                     # List registered domains
  joker dns records example.com         # Browse a DNS zone
  joker result poll --tracking-id <id>  # Wait for a queued request`,
	}

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(domain.NewCommand())
	cmd.AddCommand(dns.NewCommand())
	cmd.AddCommand(result.NewCommand())
	cmd.AddCommand(account.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
