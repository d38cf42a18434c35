// Package engine drives the subfuzz enumeration run: candidate generation,
// the bounded worker pool and ordered result aggregation.
package engine

import (
	"context"
	"time"
)

// ErrorKind classifies a non-fatal per-candidate failure.
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindNotFound     ErrorKind = "not-found"
	KindTransient    ErrorKind = "transient"
	KindTimeout      ErrorKind = "timeout"
	KindUnreachable  ErrorKind = "unreachable"
	KindRedirectLoop ErrorKind = "redirect-loop"
)

// Candidate is a single fully-qualified name under test.
// Index is its position in generator order.
type Candidate struct {
	Index int    `json:"-"`
	Name  string `json:"name"`
}

// Resolution is the outcome of a DNS lookup for a candidate.
type Resolution struct {
	Name      string    `json:"name"`
	Resolved  bool      `json:"resolved"`
	Addresses []string  `json:"addresses,omitempty"`
	Error     ErrorKind `json:"error,omitempty"`
}

// Probe is the outcome of an HTTPS/HTTP attempt against a hostname.
// StatusCode is zero when neither scheme answered.
type Probe struct {
	Name          string    `json:"name"`
	Scheme        string    `json:"scheme,omitempty"`
	StatusCode    int       `json:"status_code,omitempty"`
	ContentLength int64     `json:"content_length,omitempty"`
	Error         ErrorKind `json:"error,omitempty"`
}

// Alive reports whether either scheme returned a status code.
func (p *Probe) Alive() bool {
	return p != nil && p.StatusCode != 0
}

// Result is delivered to the Aggregator once per dispatched candidate.
// Resolution is nil in http-only mode; Probe is nil when no probe was attempted.
type Result struct {
	Candidate  Candidate   `json:"candidate"`
	Resolution *Resolution `json:"resolution,omitempty"`
	Probe      *Probe      `json:"probe,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Name returns the candidate name.
func (r Result) Name() string { return r.Candidate.Name }

// Resolved reports whether DNS resolution succeeded.
func (r Result) Resolved() bool {
	return r.Resolution != nil && r.Resolution.Resolved
}

// Retained reports whether the result belongs in the final report.
func (r Result) Retained() bool {
	return r.Resolved() || r.Probe.Alive()
}

// ZoneTransferFinding is the outcome of one AXFR attempt.
type ZoneTransferFinding struct {
	Nameserver string   `json:"nameserver"`
	Success    bool     `json:"success"`
	Records    []string `json:"records,omitempty"`
	Hostnames  []string `json:"hostnames,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// RunSummary is the top-level output of a subfuzz run.
type RunSummary struct {
	Target        string                `json:"target"`
	Mode          Mode                  `json:"mode"`
	StartedAt     time.Time             `json:"started_at"`
	CompletedAt   time.Time             `json:"completed_at"`
	DurationSecs  float64               `json:"duration_secs"`
	Total         int                   `json:"total_processed"`
	ResolvedCount int                   `json:"resolved_count"`
	ProbedCount   int                   `json:"probed_count"`
	Duplicates    int                   `json:"duplicates,omitempty"`
	Abandoned     int                   `json:"abandoned,omitempty"`
	Interrupted   bool                  `json:"interrupted,omitempty"`
	Results       []Result              `json:"results"`
	ZoneTransfers []ZoneTransferFinding `json:"zone_transfers,omitempty"`
}

// Elapsed returns the run duration.
func (s *RunSummary) Elapsed() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}

// DNSResolver resolves a single candidate name.
// Implementations report failures on the Resolution, never as an error.
type DNSResolver interface {
	Resolve(ctx context.Context, name string) Resolution
}

// HTTPProber probes a hostname over HTTPS then HTTP.
type HTTPProber interface {
	Probe(ctx context.Context, host string) Probe
}

// ZoneTransferrer discovers authoritative nameservers and attempts AXFR against them.
type ZoneTransferrer interface {
	Nameservers(ctx context.Context, domain string) ([]string, error)
	Attempt(ctx context.Context, domain, nameserver string) ZoneTransferFinding
}

// ProgressReporter receives run events. Result is called in generator order,
// once per unique name; Advance is called on every completion as it happens.
type ProgressReporter interface {
	Start(total int)
	Advance(completed int)
	Result(r Result)
	ZoneTransfer(f ZoneTransferFinding)
	Warn(msg string)
}
