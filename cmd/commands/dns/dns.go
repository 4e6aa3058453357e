package dns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-joker/joker/internal/auditlog"
	"github.com/go-joker/joker/internal/auth"
	"github.com/go-joker/joker/internal/cmdutil"
	"github.com/go-joker/joker/internal/config"
	"github.com/go-joker/joker/internal/session"
	"github.com/go-joker/joker/svc"
	"github.com/go-joker/joker/zone"

	"github.com/spf13/cobra"
)

// NewCommand returns the top-level "dns" command with all subcommands attached.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Inspect zones and manage dynamic TXT records",
		Long: `Inspect a domain's zone and manage its TXT records.

The zone format has no single-record operations, so every write is a
whole-zone read-modify-write. Writes normally go through the regular
DMAPI session; --dyndns switches to the SVC dynamic-DNS endpoint, which
authenticates with the domain's username/password pair instead.`,
	}

	cmd.AddCommand(RecordsCommand())
	cmd.AddCommand(GetCommand())
	cmd.AddCommand(SetCommand())
	cmd.AddCommand(DelCommand())
	cmd.AddCommand(VerifyCommand())

	cmd.PersistentFlags().String("account", "", "Stored account to use (overrides the config default)")

	return cmd
}

// openSession resolves the account and builds a ready client. The account
// lands in the audit metadata as a side effect.
func openSession(cmd *cobra.Command) (*session.Session, error) {
	sess, err := session.Open(cmd.Flag("account").Value.String())
	if err != nil {
		return nil, err
	}
	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Account: sess.Account}))
	return sess, nil
}

// loadZone fetches a domain's zone and decodes it into records.
func loadZone(ctx context.Context, api svc.ZoneClient, domainName string) ([]zone.Record, error) {
	resp, err := api.ZoneGet(ctx, domainName)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, cmdutil.Declined("zone fetch", resp)
	}
	return zone.Parse(resp.BodyText()), nil
}

// svcClient builds the zone editor for a write command: through the
// regular session by default, or against the SVC endpoint with the
// account's username/password pair when --dyndns is set. The returned
// closer releases whatever the editor sits on.
func svcClient(cmd *cobra.Command, domainName string) (*svc.Client, func(), error) {
	dyndns, _ := cmd.Flags().GetBool("dyndns")
	if dyndns {
		account, creds, err := dynCredentials(cmd)
		if err != nil {
			return nil, nil, err
		}
		cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{Account: account}))
		client, err := svc.NewClient(domainName, creds.Username, creds.Password)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}

	sess, err := openSession(cmd)
	if err != nil {
		return nil, nil, err
	}
	client, err := svc.New(sess.Client, domainName)
	if err != nil {
		sess.Close()
		return nil, nil, err
	}
	return client, sess.Close, nil
}

// dynCredentials loads the account's username/password pair for the SVC
// endpoint, which knows no API keys.
func dynCredentials(cmd *cobra.Command) (string, auth.Credentials, error) {
	account := strings.TrimSpace(cmd.Flag("account").Value.String())
	if account == "" {
		cfg, err := config.Load()
		if err != nil {
			return "", auth.Credentials{}, fmt.Errorf("failed to load config: %w", err)
		}
		account = cfg.Account
	}
	account = auth.NormalizeAccount(account)

	creds, err := session.Store().Load(account)
	if err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			return "", auth.Credentials{}, fmt.Errorf("account %q has no stored credentials: run 'joker auth login'", account)
		}
		return "", auth.Credentials{}, err
	}
	if creds.Kind() != "password" {
		return "", auth.Credentials{}, fmt.Errorf("dynamic DNS needs username/password credentials, account %q stores an %s", account, creds.Kind())
	}
	return account, creds, nil
}
