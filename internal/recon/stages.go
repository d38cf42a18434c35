// Package recon implements the network stages of a subfuzz run: DNS
// resolution, HTTP probing and zone transfer testing.
package recon

import (
	"time"

	"github.com/vulnverified/subfuzz/internal/engine"
)

// Options configures the network stages.
type Options struct {
	// Servers overrides the system resolvers.
	Servers      []string
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int
}

// NewStages wires the resolver, prober and zone transferrer. The zone
// transferrer shares the resolver for NS discovery.
func NewStages(o Options) engine.Stages {
	resolver := &Resolver{Servers: o.Servers, Timeout: o.Timeout}
	return engine.Stages{
		Resolver: resolver,
		Prober: &Prober{
			UserAgent:    o.UserAgent,
			Timeout:      o.Timeout,
			MaxRedirects: o.MaxRedirects,
		},
		ZoneTransfer: &ZoneTransfer{Resolver: resolver, Timeout: o.Timeout},
	}
}
