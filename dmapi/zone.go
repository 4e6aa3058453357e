package dmapi

import (
	"context"
	"net/url"
)

// ZoneGet fetches the zone text for a domain. The zone arrives as the
// response body in the colon-delimited record format.
func (c *Client) ZoneGet(ctx context.Context, domain string) (*Response, error) {
	if err := requireNonEmpty("domain", domain); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)

	return c.do(ctx, "dns-zone-get", params)
}

// ZonePut replaces the whole zone of a domain with zoneText. The server
// treats the put as atomic: partial zones overwrite, they do not merge.
func (c *Client) ZonePut(ctx context.Context, domain, zoneText string) (*Response, error) {
	if err := requireNonEmpty("domain", domain); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("zone", zoneText)

	return c.do(ctx, "dns-zone-put", params)
}
