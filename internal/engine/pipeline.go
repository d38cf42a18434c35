package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// pipeline processes one candidate into exactly one Result. ok is false
// when a stage failed because ctx was cancelled, leaving the Result
// incomplete.
type pipeline interface {
	process(ctx context.Context, c Candidate) (r Result, ok bool)
}

// Stages holds the injectable stage implementations.
type Stages struct {
	Resolver     DNSResolver
	Prober       HTTPProber
	ZoneTransfer ZoneTransferrer // only used when Config.ZoneTransfer is set
}

// newPipeline selects the pipeline variant for mode once, at scheduler construction.
func newPipeline(mode Mode, stages Stages, timeout time.Duration) (pipeline, error) {
	switch mode {
	case ModeFull:
		if stages.Resolver == nil || stages.Prober == nil {
			return nil, fmt.Errorf("%w: full mode needs a resolver and a prober", ErrConfig)
		}
		return &fullPipeline{
			dns:  dnsStage{resolver: stages.Resolver, timeout: timeout},
			http: httpStage{prober: stages.Prober, timeout: timeout},
		}, nil
	case ModeDNSOnly:
		if stages.Resolver == nil {
			return nil, fmt.Errorf("%w: dns-only mode needs a resolver", ErrConfig)
		}
		return &dnsOnlyPipeline{dns: dnsStage{resolver: stages.Resolver, timeout: timeout}}, nil
	case ModeHTTPOnly:
		if stages.Prober == nil {
			return nil, fmt.Errorf("%w: http-only mode needs a prober", ErrConfig)
		}
		return &httpOnlyPipeline{http: httpStage{prober: stages.Prober, timeout: timeout}}, nil
	}
	return nil, fmt.Errorf("%w: unknown mode %q", ErrConfig, mode)
}

type fullPipeline struct {
	dns  dnsStage
	http httpStage
}

// process probes only names that resolved.
func (p *fullPipeline) process(ctx context.Context, c Candidate) (Result, bool) {
	res, ok := p.dns.run(ctx, c.Name)
	r := Result{Candidate: c, Resolution: &res}
	if ok && res.Resolved {
		var probe Probe
		probe, ok = p.http.run(ctx, c.Name)
		r.Probe = &probe
	}
	r.Timestamp = time.Now()
	return r, ok
}

type dnsOnlyPipeline struct {
	dns dnsStage
}

func (p *dnsOnlyPipeline) process(ctx context.Context, c Candidate) (Result, bool) {
	res, ok := p.dns.run(ctx, c.Name)
	return Result{Candidate: c, Resolution: &res, Timestamp: time.Now()}, ok
}

type httpOnlyPipeline struct {
	http httpStage
}

func (p *httpOnlyPipeline) process(ctx context.Context, c Candidate) (Result, bool) {
	probe, ok := p.http.run(ctx, c.Name)
	return Result{Candidate: c, Probe: &probe, Timestamp: time.Now()}, ok
}

// dnsStage bounds a resolver call by the per-operation timeout.
type dnsStage struct {
	resolver DNSResolver
	timeout  time.Duration
}

// run reports ok=false when the lookup failed after ctx was cancelled. A
// lookup that succeeded is kept even if cancellation raced with it.
func (s dnsStage) run(ctx context.Context, name string) (Resolution, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := s.resolver.Resolve(stageCtx, name)
	res.Name = name
	if res.Resolved && len(res.Addresses) == 0 {
		res.Resolved = false
		res.Error = KindNotFound
	}
	if !res.Resolved && errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
		res.Error = KindTimeout
	}
	return res, res.Resolved || !errors.Is(ctx.Err(), context.Canceled)
}

// httpStage allows one timeout per scheme.
type httpStage struct {
	prober  HTTPProber
	timeout time.Duration
}

func (s httpStage) run(ctx context.Context, host string) (Probe, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, 2*s.timeout)
	defer cancel()

	probe := s.prober.Probe(stageCtx, host)
	probe.Name = host
	if !probe.Alive() && probe.Error == KindNone {
		probe.Error = KindUnreachable
	}
	if !probe.Alive() && errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
		probe.Error = KindTimeout
	}
	return probe, probe.Alive() || !errors.Is(ctx.Err(), context.Canceled)
}
