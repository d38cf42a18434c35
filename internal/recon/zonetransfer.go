package recon

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/vulnverified/subfuzz/internal/engine"
)

const defaultAXFRTimeout = 10 * time.Second

// ZoneTransfer implements engine.ZoneTransferrer.
type ZoneTransfer struct {
	Resolver *Resolver
	Timeout  time.Duration
}

// Nameservers looks up the NS records for domain.
func (z *ZoneTransfer) Nameservers(ctx context.Context, domain string) ([]string, error) {
	return z.Resolver.LookupNS(ctx, domain)
}

// Attempt performs AXFR for domain against nameserver (host or host:port).
// A hostname is resolved through Resolver and each address is tried in turn.
// Refusal is the normal outcome and is reported on the finding.
func (z *ZoneTransfer) Attempt(ctx context.Context, domain, nameserver string) engine.ZoneTransferFinding {
	finding := engine.ZoneTransferFinding{Nameserver: nameserver}

	addrs, err := z.addresses(ctx, nameserver)
	if err != nil {
		finding.Error = err.Error()
		return finding
	}

	for _, addr := range addrs {
		var records, hostnames []string
		records, hostnames, err = z.axfr(ctx, domain, addr)
		if err == nil {
			finding.Success = true
			finding.Records = records
			finding.Hostnames = hostnames
			return finding
		}
		if ctx.Err() != nil {
			break
		}
	}
	finding.Error = err.Error()
	return finding
}

// addresses returns the host:port pairs to dial for nameserver.
func (z *ZoneTransfer) addresses(ctx context.Context, nameserver string) ([]string, error) {
	host, port, err := net.SplitHostPort(nameserver)
	if err != nil {
		host, port = nameserver, "53"
	}
	if net.ParseIP(host) != nil || z.Resolver == nil {
		return []string{net.JoinHostPort(host, port)}, nil
	}

	res := z.Resolver.Resolve(ctx, host)
	if !res.Resolved {
		return nil, fmt.Errorf("resolving nameserver %s: %s", host, res.Error)
	}
	addrs := make([]string, 0, len(res.Addresses))
	for _, ip := range res.Addresses {
		addrs = append(addrs, net.JoinHostPort(ip, port))
	}
	return addrs, nil
}

func (z *ZoneTransfer) axfr(ctx context.Context, domain, addr string) ([]string, []string, error) {
	timeout := z.Timeout
	if timeout <= 0 {
		timeout = defaultAXFRTimeout
	}
	transfer := &dns.Transfer{
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	msg := new(dns.Msg)
	msg.SetAxfr(dns.Fqdn(domain))

	channel, err := transfer.In(msg, addr)
	if err != nil {
		return nil, nil, fmt.Errorf("AXFR to %s: %w", addr, err)
	}
	// The transfer goroutine blocks on send until the channel is drained.
	defer func() {
		go func() {
			for range channel {
			}
		}()
	}()

	var records []string
	seen := make(map[string]bool)
	var hostnames []string
	domain = strings.ToLower(strings.TrimSuffix(domain, "."))
	domainSuffix := "." + domain

	for {
		select {
		case <-ctx.Done():
			transfer.Close()
			return nil, nil, fmt.Errorf("AXFR to %s: %w", addr, ctx.Err())
		case envelope, ok := <-channel:
			if !ok {
				if len(records) == 0 {
					return nil, nil, fmt.Errorf("AXFR to %s: empty transfer", addr)
				}
				return records, hostnames, nil
			}
			if envelope.Error != nil {
				return nil, nil, fmt.Errorf("AXFR envelope from %s: %w", addr, envelope.Error)
			}
			for _, rr := range envelope.RR {
				records = append(records, rr.String())

				name := strings.ToLower(strings.TrimSuffix(rr.Header().Name, "."))
				if name == "" || (name != domain && !strings.HasSuffix(name, domainSuffix)) {
					continue
				}
				if !seen[name] {
					seen[name] = true
					hostnames = append(hostnames, name)
				}
			}
		}
	}
}
