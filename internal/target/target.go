// Package target turns operator input into the base domain to enumerate.
package target

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var labelRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// Normalize accepts a bare host or a URL and returns the domain to
// enumerate. Unless keepHost is set the host is reduced to its registered
// domain, so "https://a.b.example.co.uk/x" becomes "example.co.uk".
func Normalize(raw string, keepHost bool) (string, error) {
	host, err := Hostname(raw)
	if err != nil {
		return "", err
	}

	if !keepHost {
		if registered, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			host = registered
		}
	}

	if err := Validate(host); err != nil {
		return "", err
	}
	return host, nil
}

// Hostname extracts the lowercase host from raw, which may be a URL.
func Hostname(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty target")
	}

	s := raw
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parsing target %q: %w", raw, err)
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return "", fmt.Errorf("no host in target %q", raw)
	}
	return host, nil
}

// Validate checks host against DNS label rules. A domain needs at least
// two labels.
func Validate(host string) error {
	if len(host) > 253 {
		return fmt.Errorf("invalid domain %q: longer than 253 characters", host)
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return fmt.Errorf("invalid domain %q: missing TLD", host)
	}
	for _, label := range labels {
		if !labelRegex.MatchString(label) {
			return fmt.Errorf("invalid domain %q: bad label %q", host, label)
		}
	}
	return nil
}
