package dmapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Registration periods the registry accepts, in years.
const (
	minPeriodYears = 1
	maxPeriodYears = 10
)

// DomainInfo is one row of a domain listing.
type DomainInfo struct {
	// Name is the domain.
	Name string `json:"name"`
	// Expiration is the expiry date as reported, usually YYYY-MM-DD.
	Expiration string `json:"expiration"`
	// Status holds the registry status flags when the listing was
	// requested with them, empty otherwise.
	Status string `json:"status,omitempty"`
}

// DomainListOpts narrows a domain listing.
type DomainListOpts struct {
	// Pattern filters domains, shell wildcard syntax.
	Pattern string
	// ShowStatus asks the server to append registry status flags.
	ShowStatus bool
}

// DomainList fetches the account's domains. The parsed rows are nil
// unless the reply was successful; the raw response is always returned
// for inspection.
func (c *Client) DomainList(ctx context.Context, opts DomainListOpts) ([]DomainInfo, *Response, error) {
	params := url.Values{}
	if opts.Pattern != "" {
		params.Set("pattern", opts.Pattern)
	}
	if opts.ShowStatus {
		params.Set("showstatus", "1")
	}

	resp, err := c.do(ctx, "query-domain-list", params)
	if err != nil {
		return nil, nil, err
	}
	if !resp.IsSuccess() {
		return nil, resp, nil
	}
	return parseDomainList(resp.BodyText()), resp, nil
}

// parseDomainList reads "domain expiration [status...]" body lines.
// Lines with fewer than two fields are dropped.
func parseDomainList(body string) []DomainInfo {
	var domains []DomainInfo
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := DomainInfo{Name: fields[0], Expiration: fields[1]}
		if len(fields) > 2 {
			d.Status = strings.Join(fields[2:], " ")
		}
		domains = append(domains, d)
	}
	return domains
}

// RegisterOpts carries the parameters of a domain registration.
type RegisterOpts struct {
	// Period is the registration term in years, 1 through 10.
	Period int
	// Contact handles for the registry roles. Empty handles are left
	// to the account defaults.
	OwnerContact   string
	AdminContact   string
	TechContact    string
	BillingContact string
	// Nameservers for the initial delegation.
	Nameservers []string
}

// DomainRegister submits a registration request. Registrations are
// queued server-side; the returned TrackingID/ProcID feed the result
// operations.
func (c *Client) DomainRegister(ctx context.Context, domain string, opts RegisterOpts) (*Response, error) {
	if err := requireNonEmpty("domain", domain); err != nil {
		return nil, err
	}
	if err := requirePeriod(opts.Period); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("period", strconv.Itoa(opts.Period))
	setIfPresent(params, "owner-c", opts.OwnerContact)
	setIfPresent(params, "admin-c", opts.AdminContact)
	setIfPresent(params, "tech-c", opts.TechContact)
	setIfPresent(params, "billing-c", opts.BillingContact)
	if len(opts.Nameservers) > 0 {
		params.Set("ns-list", strings.Join(opts.Nameservers, ":"))
	}

	return c.do(ctx, "domain-register", params)
}

// DomainRenew extends a registration by period years.
func (c *Client) DomainRenew(ctx context.Context, domain string, period int) (*Response, error) {
	if err := requireNonEmpty("domain", domain); err != nil {
		return nil, err
	}
	if err := requirePeriod(period); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("period", strconv.Itoa(period))

	return c.do(ctx, "domain-renew", params)
}

// Whois queries the registry's whois through the API. The record comes
// back as the response body.
func (c *Client) Whois(ctx context.Context, domain string) (*Response, error) {
	if err := requireNonEmpty("domain", domain); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)

	return c.do(ctx, "query-whois", params)
}

// Profile fetches the account profile. The body is "key: value" lines;
// the account balance additionally arrives as a response header.
func (c *Client) Profile(ctx context.Context) (*Response, error) {
	return c.do(ctx, "query-profile", nil)
}

func setIfPresent(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func requireNonEmpty(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidArgument, name)
	}
	return nil
}

func requirePeriod(period int) error {
	if period < minPeriodYears || period > maxPeriodYears {
		return fmt.Errorf("%w: period must be between %d and %d years, got %d",
			ErrInvalidArgument, minPeriodYears, maxPeriodYears, period)
	}
	return nil
}
