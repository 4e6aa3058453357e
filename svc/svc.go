// Package svc drives the SVC endpoint, the credential-lighter variant
// of the DMAPI used for dynamic DNS. The protocol has no single-record
// operations, so every update is a whole-zone read-modify-write: fetch
// the zone, swap the one record, write the zone back. Updates to the
// same zone must not run concurrently, the writes overwrite each other.
package svc

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-joker/joker/dmapi"
	"github.com/go-joker/joker/zone"
)

// DefaultBaseURL is the production SVC endpoint.
const DefaultBaseURL = "https://svc.joker.com"

// ZoneClient is the slice of the DMAPI client the orchestrator needs.
type ZoneClient interface {
	ZoneGet(ctx context.Context, domain string) (*dmapi.Response, error)
	ZonePut(ctx context.Context, domain, zoneText string) (*dmapi.Response, error)
}

// Client edits one domain's records over a ZoneClient.
type Client struct {
	api    ZoneClient
	domain string
}

// New returns a Client editing the given domain through api.
func New(api ZoneClient, domain string) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: api client is required", dmapi.ErrInvalidArgument)
	}
	if strings.TrimSpace(domain) == "" {
		return nil, fmt.Errorf("%w: domain must not be empty", dmapi.ErrInvalidArgument)
	}
	return &Client{api: api, domain: domain}, nil
}

// NewClient connects to the SVC endpoint with the domain's dynamic DNS
// credentials. SVC knows no API keys, only username and password.
func NewClient(domain, username, password string) (*Client, error) {
	api, err := dmapi.New(dmapi.Config{
		BaseURL:  DefaultBaseURL,
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return New(api, domain)
}

// SetTXT upserts the TXT record for label: any TXT record with the same
// label (compared case-insensitively) is replaced. A ttl of 0 or less
// leaves the record on the zone default.
func (c *Client) SetTXT(ctx context.Context, label, value string, ttl int) (*dmapi.Response, error) {
	if err := requireLabel(label); err != nil {
		return nil, err
	}

	rec := zone.NewTXT(label, value)
	if ttl > 0 {
		rec = rec.WithTTL(ttl)
	}
	return c.patch(ctx, label, &rec)
}

// DeleteTXT removes every TXT record for label. Deleting a label that
// has no record still writes the zone back and succeeds.
func (c *Client) DeleteTXT(ctx context.Context, label string) (*dmapi.Response, error) {
	if err := requireLabel(label); err != nil {
		return nil, err
	}
	return c.patch(ctx, label, nil)
}

// patch runs the read-modify-write cycle. When the read is declined by
// the server, that reply is surfaced as-is and no write is attempted.
func (c *Client) patch(ctx context.Context, label string, replacement *zone.Record) (*dmapi.Response, error) {
	got, err := c.api.ZoneGet(ctx, c.domain)
	if err != nil {
		return nil, err
	}
	if !got.IsSuccess() {
		return got, nil
	}

	records := zone.Parse(got.BodyText())
	kept := make([]zone.Record, 0, len(records)+1)
	for _, r := range records {
		if r.Is(zone.TypeTXT, label) {
			continue
		}
		kept = append(kept, r)
	}
	if replacement != nil {
		kept = append(kept, *replacement)
	}

	return c.api.ZonePut(ctx, c.domain, zone.Format(kept))
}

func requireLabel(label string) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: label must not be empty", dmapi.ErrInvalidArgument)
	}
	return nil
}
