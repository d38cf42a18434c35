package engine

import (
	"sort"
	"sync"
	"time"
)

// Aggregator collects results in arbitrary completion order and records
// them in generator order. It is the single writer of the run state; all
// methods are safe for concurrent use.
type Aggregator struct {
	mu       sync.Mutex
	progress ProgressReporter

	pending   map[int]Result // completed but not yet recorded
	next      int            // generator index expected next
	completed int

	seen      map[string]bool
	total     int
	resolved  int
	probed    int
	dupes     int
	retained  []Result
	transfers []ZoneTransferFinding
}

// NewAggregator creates an aggregator. progress may be nil.
func NewAggregator(progress ProgressReporter) *Aggregator {
	return &Aggregator{
		progress: progress,
		pending:  make(map[int]Result),
		seen:     make(map[string]bool),
	}
}

// Add accepts a completed result. Results are buffered until every
// result with a lower generator index has arrived.
func (a *Aggregator) Add(r Result) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.completed++
	if a.progress != nil {
		a.progress.Advance(a.completed)
	}
	a.pending[r.Candidate.Index] = r
	for {
		next, ok := a.pending[a.next]
		if !ok {
			break
		}
		delete(a.pending, a.next)
		a.next++
		a.record(next)
	}
}

// AddZoneTransfer records a zone-transfer finding.
func (a *Aggregator) AddZoneTransfer(f ZoneTransferFinding) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.transfers = append(a.transfers, f)
	if a.progress != nil {
		a.progress.ZoneTransfer(f)
	}
}

// Completed returns the number of results received so far.
func (a *Aggregator) Completed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completed
}

// Finalize flushes results still held back by gaps (candidates abandoned
// on shutdown) and returns the summary. The caller fills in run metadata.
func (a *Aggregator) Finalize(started time.Time) *RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx := make([]int, 0, len(a.pending))
	for i := range a.pending {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for _, i := range idx {
		a.record(a.pending[i])
		delete(a.pending, i)
	}

	completed := time.Now()
	results := make([]Result, len(a.retained))
	copy(results, a.retained)
	transfers := make([]ZoneTransferFinding, len(a.transfers))
	copy(transfers, a.transfers)

	return &RunSummary{
		StartedAt:     started,
		CompletedAt:   completed,
		DurationSecs:  completed.Sub(started).Seconds(),
		Total:         a.total,
		ResolvedCount: a.resolved,
		ProbedCount:   a.probed,
		Duplicates:    a.dupes,
		Results:       results,
		ZoneTransfers: transfers,
	}
}

// record must be called with mu held and in generator order.
func (a *Aggregator) record(r Result) {
	if a.seen[r.Name()] {
		a.dupes++
		return
	}
	a.seen[r.Name()] = true

	a.total++
	if r.Resolved() {
		a.resolved++
	}
	if r.Probe.Alive() {
		a.probed++
	}
	if r.Retained() {
		a.retained = append(a.retained, r)
	}
	if a.progress != nil {
		a.progress.Result(r)
	}
}
