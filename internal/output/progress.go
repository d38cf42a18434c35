// Package output handles all subfuzz CLI output formatting.
package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/vulnverified/subfuzz/internal/engine"
)

// Progress implements engine.ProgressReporter. It draws a progress bar on
// w and prints each retained result above it as it is recorded.
type Progress struct {
	w       io.Writer
	silent  bool
	noColor bool
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	start   time.Time
	found   int
}

// NewProgress creates a progress reporter.
func NewProgress(w io.Writer, silent, noColor bool) *Progress {
	return &Progress{
		w:       w,
		silent:  silent,
		noColor: noColor,
		start:   time.Now(),
	}
}

// Start sizes the progress bar.
func (p *Progress) Start(total int) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.start = time.Now()
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription("fuzzing"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("names"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(!p.noColor),
	)
}

// Advance moves the bar to completed.
func (p *Progress) Advance(completed int) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Set(completed)
	}
}

// Result prints retained results.
func (p *Progress) Result(r engine.Result) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.Retained() {
		p.clearBar()
		if p.found == 0 {
			fmt.Fprintln(p.w, paint(headerColor, p.noColor, "------- Found Subdomains ------"))
		}
		p.found++
		fmt.Fprintln(p.w, FormatResult(r, p.noColor))
	}
}

// ZoneTransfer prints the outcome of one AXFR attempt.
func (p *Progress) ZoneTransfer(f engine.ZoneTransferFinding) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clearBar()
	if f.Success {
		fmt.Fprintf(p.w, "  AXFR %s: %s (%d records)\n", f.Nameserver, paint(vulnColor, p.noColor, "VULNERABLE"), len(f.Records))
		return
	}
	fmt.Fprintf(p.w, "  AXFR %s: %s\n", f.Nameserver, paint(okColor, p.noColor, "protected"))
}

// Warn prints a warning.
func (p *Progress) Warn(msg string) {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearBar()
	fmt.Fprintf(p.w, "  %s %s\n", paint(warnColor, p.noColor, "!"), msg)
}

// Complete removes the bar and prints the final duration.
func (p *Progress) Complete() {
	if p.silent {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
	}
	if p.found > 0 {
		fmt.Fprintln(p.w, paint(headerColor, p.noColor, "-------------------------------"))
	}
	fmt.Fprintf(p.w, "\nCompleted in %.2fs\n", time.Since(p.start).Seconds())
}

func (p *Progress) clearBar() {
	if p.bar != nil {
		p.bar.Clear()
	}
}
