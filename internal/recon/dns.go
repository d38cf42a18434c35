package recon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/miekg/dns"
	"github.com/vulnverified/subfuzz/internal/engine"
)

// fallbackServers are used when /etc/resolv.conf is missing or empty.
var fallbackServers = []string{"1.1.1.1:53", "8.8.8.8:53"}

const (
	defaultDNSTimeout = 5 * time.Second
	ednsBufferSize    = 4096
)

var errNXDomain = errors.New("NXDOMAIN")

// Resolver implements engine.DNSResolver with direct queries to recursive
// resolvers, so NXDOMAIN and SERVFAIL can be told apart.
type Resolver struct {
	// Servers are host or host:port resolver addresses. Empty means the
	// system resolvers from /etc/resolv.conf.
	Servers []string
	// Timeout is the budget for one lookup. Each attempt gets half of it
	// so a lost packet still leaves room for the retry.
	Timeout time.Duration

	once      sync.Once
	addrs     []string
	client    *dns.Client
	tcpClient *dns.Client
	counter   atomic.Uint64
}

func (r *Resolver) init() {
	r.once.Do(func() {
		r.addrs = normalizeServers(r.Servers)
		if len(r.addrs) == 0 {
			r.addrs = SystemServers()
		}
		timeout := r.Timeout
		if timeout <= 0 {
			timeout = defaultDNSTimeout
		}
		r.client = &dns.Client{Net: "udp", Timeout: timeout / 2}
		r.tcpClient = &dns.Client{Net: "tcp", Timeout: timeout / 2}
	})
}

// SystemServers returns the resolvers listed in /etc/resolv.conf.
func SystemServers() []string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return fallbackServers
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	return servers
}

func normalizeServers(in []string) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		out = append(out, s)
	}
	return out
}

// Resolve looks up A and AAAA records for name. NXDOMAIN and empty answers
// are reported as not-found; anything else that fails is transient.
func (r *Resolver) Resolve(ctx context.Context, name string) engine.Resolution {
	res := engine.Resolution{Name: name}

	// One retry for the whole lookup, not one per query type.
	retries := 1
	var addrs []string
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		ips, err := r.query(ctx, name, qtype, &retries)
		if errors.Is(err, errNXDomain) {
			res.Error = engine.KindNotFound
			return res
		}
		if err != nil {
			res.Error = engine.KindTransient
			if ctx.Err() != nil {
				res.Error = engine.KindTimeout
				break
			}
			continue
		}
		addrs = append(addrs, ips...)
	}

	if len(addrs) > 0 {
		res.Resolved = true
		res.Addresses = deduplicateStrings(addrs)
		res.Error = engine.KindNone
		return res
	}
	if res.Error == engine.KindNone {
		res.Error = engine.KindNotFound
	}
	return res
}

// LookupNS returns the nameserver hostnames for domain.
func (r *Resolver) LookupNS(ctx context.Context, domain string) ([]string, error) {
	retries := 1
	in, err := r.exchange(ctx, domain, dns.TypeNS, &retries)
	if err != nil {
		return nil, fmt.Errorf("NS lookup for %s: %w", domain, err)
	}

	var nameservers []string
	for _, rr := range in.Answer {
		if ns, ok := rr.(*dns.NS); ok {
			nameservers = append(nameservers, strings.ToLower(strings.TrimSuffix(ns.Ns, ".")))
		}
	}
	if len(nameservers) == 0 {
		return nil, fmt.Errorf("no NS records for %s", domain)
	}
	return deduplicateStrings(nameservers), nil
}

// query returns the addresses in the answer section. A NOERROR response
// with no addresses (NODATA) yields nil, nil.
func (r *Resolver) query(ctx context.Context, name string, qtype uint16, retries *int) ([]string, error) {
	in, err := r.exchange(ctx, name, qtype, retries)
	if err != nil {
		return nil, err
	}

	var ips []string
	for _, rr := range in.Answer {
		switch v := rr.(type) {
		case *dns.A:
			ips = append(ips, v.A.String())
		case *dns.AAAA:
			ips = append(ips, v.AAAA.String())
		}
	}
	return ips, nil
}

// exchange sends one query. A transport failure or SERVFAIL/REFUSED is
// retried against the next server while *retries allows; NXDOMAIN is never
// retried. Truncated UDP replies are repeated over TCP.
func (r *Resolver) exchange(ctx context.Context, name string, qtype uint16, retries *int) (*dns.Msg, error) {
	r.init()

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true
	msg.SetEdns0(ednsBufferSize, false)

	for {
		server := r.addrs[r.counter.Add(1)%uint64(len(r.addrs))]

		in, err := r.send(ctx, msg, server)
		if err == nil {
			switch in.Rcode {
			case dns.RcodeSuccess:
				return in, nil
			case dns.RcodeNameError:
				return nil, errNXDomain
			}
			err = fmt.Errorf("%s from %s", dns.RcodeToString[in.Rcode], server)
		}

		if ctx.Err() != nil || *retries <= 0 {
			return nil, err
		}
		*retries--
	}
}

// send performs one UDP exchange, falling back to TCP on truncation.
func (r *Resolver) send(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error) {
	in, _, err := r.client.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, err
	}
	if !in.Truncated {
		return in, nil
	}
	in, _, err = r.tcpClient.ExchangeContext(ctx, msg, server)
	if err != nil {
		return nil, fmt.Errorf("TCP retry after truncated reply: %w", err)
	}
	return in, nil
}

func deduplicateStrings(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
