package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Run enumerates every candidate of gen through the pipeline selected by
// cfg.Mode and returns the aggregated summary.
//
// Cancelling ctx stops admission of new candidates. In-flight candidates get
// one more cfg.Timeout to finish; whatever is still running after that is
// abandoned and the summary is built from the results collected so far.
// Only configuration problems are returned as errors.
func Run(ctx context.Context, cfg Config, gen *Generator, stages Stages, progress ProgressReporter) (*RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, fmt.Errorf("%w: no candidates", ErrConfig)
	}
	if cfg.ZoneTransfer && stages.ZoneTransfer == nil {
		return nil, fmt.Errorf("%w: zone transfer enabled without a zone transferrer", ErrConfig)
	}
	pipe, err := newPipeline(cfg.Mode, stages, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = nopProgress{}
	}

	log := cfg.logger().WithFields(logrus.Fields{
		"domain": gen.Domain(),
		"mode":   cfg.Mode,
	})

	started := time.Now()
	agg := NewAggregator(progress)
	progress.Start(gen.Len())

	// In-flight work runs on its own context so that an interrupt only
	// stops admission; workCtx is cancelled once the grace period expires.
	workCtx, cancelWork := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWork()

	done := make(chan struct{})
	go drainOnCancel(ctx, done, cfg.Timeout, cancelWork, log)

	var ztWG sync.WaitGroup
	if cfg.ZoneTransfer {
		ztWG.Add(1)
		go func() {
			defer ztWG.Done()
			runZoneTransfers(workCtx, gen.Domain(), stages.ZoneTransfer, agg, progress, log)
		}()
	}

	s := &scheduler{
		pipe: pipe,
		agg:  agg,
		gate: semaphore.NewWeighted(int64(cfg.Concurrency)),
		log:  log,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	s.run(ctx, workCtx, gen)
	ztWG.Wait()
	close(done)

	summary := agg.Finalize(started)
	summary.Target = gen.Domain()
	summary.Mode = cfg.Mode
	summary.Abandoned = int(s.abandoned.Load())
	summary.Interrupted = ctx.Err() != nil

	log.WithFields(logrus.Fields{
		"dispatched": s.dispatched.Load(),
		"abandoned":  summary.Abandoned,
		"elapsed":    summary.Elapsed(),
	}).Debug("run finished")

	return summary, nil
}

// scheduler keeps at most Concurrency candidates in flight and admits the
// next one as soon as any slot frees up.
type scheduler struct {
	pipe    pipeline
	agg     *Aggregator
	gate    *semaphore.Weighted
	limiter *rate.Limiter
	log     logrus.FieldLogger

	dispatched atomic.Int64
	abandoned  atomic.Int64
}

func (s *scheduler) run(ctx, workCtx context.Context, gen *Generator) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for c := range gen.All() {
		if !s.admit(ctx) {
			s.log.WithFields(logrus.Fields{
				"pending":   gen.Len() - int(s.dispatched.Load()),
				"completed": s.agg.Completed(),
			}).Info("admission stopped")
			return
		}
		s.dispatched.Add(1)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.gate.Release(1)

			start := time.Now()
			r, ok := s.pipe.process(workCtx, c)
			if !ok {
				s.abandoned.Add(1)
				s.log.WithField("candidate", c.Name).Debug("abandoned")
				return
			}
			s.log.WithFields(logrus.Fields{
				"candidate": c.Name,
				"kind":      resultKind(r),
				"elapsed":   time.Since(start),
			}).Debug("candidate done")
			s.agg.Add(r)
		}()
	}
}

// admit blocks until a slot is free. It returns false once ctx is done.
func (s *scheduler) admit(ctx context.Context) bool {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return false
		}
	}
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return false
	}
	// Acquire may succeed on a done context when a slot is free.
	if ctx.Err() != nil {
		s.gate.Release(1)
		return false
	}
	return true
}

func drainOnCancel(ctx context.Context, done <-chan struct{}, grace time.Duration, cancelWork context.CancelFunc, log logrus.FieldLogger) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	}

	log.WithField("grace", grace).Warn("interrupted, draining in-flight candidates")
	t := time.NewTimer(grace)
	defer t.Stop()
	select {
	case <-done:
	case <-t.C:
		log.Warn("grace period expired, abandoning in-flight candidates")
		cancelWork()
	}
}

func runZoneTransfers(ctx context.Context, domain string, zt ZoneTransferrer, agg *Aggregator, progress ProgressReporter, log logrus.FieldLogger) {
	nameservers, err := zt.Nameservers(ctx, domain)
	if err != nil {
		progress.Warn(fmt.Sprintf("zone transfer: %s", err))
		return
	}
	if len(nameservers) == 0 {
		progress.Warn(fmt.Sprintf("zone transfer: no NS records for %s", domain))
		return
	}

	for _, ns := range nameservers {
		if ctx.Err() != nil {
			return
		}
		f := zt.Attempt(ctx, domain, ns)
		log.WithFields(logrus.Fields{
			"nameserver": ns,
			"success":    f.Success,
			"records":    len(f.Records),
		}).Debug("zone transfer attempted")
		agg.AddZoneTransfer(f)
	}
}

func resultKind(r Result) ErrorKind {
	if r.Probe != nil && r.Probe.Error != KindNone {
		return r.Probe.Error
	}
	if r.Resolution != nil {
		return r.Resolution.Error
	}
	return KindNone
}

type nopProgress struct{}

func (nopProgress) Start(int)                        {}
func (nopProgress) Advance(int)                      {}
func (nopProgress) Result(Result)                    {}
func (nopProgress) ZoneTransfer(ZoneTransferFinding) {}
func (nopProgress) Warn(string)                      {}
