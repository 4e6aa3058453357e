// Package dnsprobe checks whether a TXT record has reached every
// authoritative nameserver for a zone. Dynamic updates through svc.joker.com
// propagate asynchronously, so "joker dns verify" uses this after a write to
// see which nameservers already serve the new value.
//
// Nameservers are discovered through the system resolver, then each one is
// queried directly over UDP, falling back to TCP when the response is
// truncated. NXDOMAIN from a server counts as "not propagated yet", not as a
// query failure.
package dnsprobe

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/errgroup"

	"github.com/go-joker/joker/logging"
	"github.com/go-joker/joker/zone"
)

const queryTimeout = 5 * time.Second

// ServerResult is the outcome of probing one authoritative nameserver.
type ServerResult struct {
	// Server is the nameserver hostname as discovered from the NS set.
	Server string

	// Values holds every TXT value the server returned at the queried name,
	// with multi-chunk strings joined.
	Values []string

	// Found reports whether the expected value (or any value, when none was
	// given) is present on this server.
	Found bool

	// Err is set when the query itself failed. A clean "record not there
	// yet" answer leaves Err nil.
	Err error
}

// Report aggregates the per-server results for one probe.
type Report struct {
	FQDN    string
	Value   string
	Servers []ServerResult
}

// AllFound reports whether every nameserver serves the expected record.
func (r *Report) AllFound() bool {
	if len(r.Servers) == 0 {
		return false
	}
	for _, s := range r.Servers {
		if !s.Found {
			return false
		}
	}
	return true
}

// FoundCount returns how many nameservers serve the expected record.
func (r *Report) FoundCount() int {
	n := 0
	for _, s := range r.Servers {
		if s.Found {
			n++
		}
	}
	return n
}

// Prober queries authoritative nameservers directly.
type Prober struct {
	udp *dns.Client
	tcp *dns.Client
	log logging.Logger

	// Seams for tests.
	lookupNS func(ctx context.Context, domain string) ([]string, error)
	exchange func(ctx context.Context, c *dns.Client, m *dns.Msg, addr string) (*dns.Msg, error)
}

// New returns a Prober. A nil logger disables logging.
func New(log logging.Logger) *Prober {
	if log == nil {
		log = logging.NewNop()
	}
	p := &Prober{
		udp:      &dns.Client{Timeout: queryTimeout},
		tcp:      &dns.Client{Net: "tcp", Timeout: queryTimeout},
		log:      log,
		lookupNS: systemNS,
	}
	p.exchange = func(ctx context.Context, c *dns.Client, m *dns.Msg, addr string) (*dns.Msg, error) {
		in, _, err := c.ExchangeContext(ctx, m, addr)
		return in, err
	}
	return p
}

// Probe queries every authoritative nameserver of domain for the TXT record
// at label (empty or "@" means the apex) and reports which of them serve
// value. An empty value matches any TXT record at the name.
func (p *Prober) Probe(ctx context.Context, domain, label, value string) (*Report, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, fmt.Errorf("dnsprobe: domain is required")
	}

	servers, err := p.lookupNS(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("dnsprobe: failed to discover nameservers for %s: %w", domain, err)
	}
	if len(servers) == 0 {
		return nil, fmt.Errorf("dnsprobe: no nameservers found for %s", domain)
	}

	fqdn := queryName(domain, label)
	p.log.Debug(map[string]any{
		"fqdn":    fqdn,
		"servers": len(servers),
	}, "probing authoritative nameservers")

	report := &Report{FQDN: fqdn, Value: value, Servers: make([]ServerResult, len(servers))}

	g, gctx := errgroup.WithContext(ctx)
	for i, server := range servers {
		g.Go(func() error {
			report.Servers[i] = p.query(gctx, server, fqdn, value)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Prober) query(ctx context.Context, server, fqdn, value string) ServerResult {
	result := ServerResult{Server: server}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(fqdn), dns.TypeTXT)
	addr := net.JoinHostPort(server, "53")

	in, err := p.exchange(ctx, p.udp, m, addr)
	if err == nil && in != nil && in.Truncated {
		p.log.Debug(map[string]any{"server": server}, "response truncated, retrying over TCP")
		in, err = p.exchange(ctx, p.tcp, m, addr)
	}
	if err != nil {
		result.Err = fmt.Errorf("query %s: %w", server, err)
		return result
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		// The name does not exist on this server yet.
		return result
	default:
		result.Err = fmt.Errorf("query %s: server returned %s", server, dns.RcodeToString[in.Rcode])
		return result
	}

	for _, rr := range in.Answer {
		txt, ok := rr.(*dns.TXT)
		if !ok {
			continue
		}
		result.Values = append(result.Values, strings.Join(txt.Txt, ""))
	}

	result.Found = matches(result.Values, value)
	return result
}

func matches(values []string, want string) bool {
	if want == "" {
		return len(values) > 0
	}
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func queryName(domain, label string) string {
	label = strings.TrimSpace(label)
	if label == "" || label == zone.Apex {
		return domain
	}
	return label + "." + domain
}

// systemNS discovers the NS set through the system resolver, sorted for
// stable output.
func systemNS(ctx context.Context, domain string) ([]string, error) {
	nss, err := net.DefaultResolver.LookupNS(ctx, domain)
	if err != nil {
		return nil, err
	}
	hosts := make([]string, 0, len(nss))
	for _, ns := range nss {
		hosts = append(hosts, strings.TrimSuffix(ns.Host, "."))
	}
	sort.Strings(hosts)
	return hosts, nil
}
