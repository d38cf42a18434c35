package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vulnverified/subfuzz/internal/engine"
)

func sampleSummary() *engine.RunSummary {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &engine.RunSummary{
		Target:        "example.com",
		Mode:          engine.ModeFull,
		StartedAt:     started,
		CompletedAt:   started.Add(1500 * time.Millisecond),
		DurationSecs:  1.5,
		Total:         3,
		ResolvedCount: 2,
		ProbedCount:   1,
		Results: []engine.Result{
			{
				Candidate:  engine.Candidate{Index: 0, Name: "www.example.com"},
				Resolution: &engine.Resolution{Name: "www.example.com", Resolved: true, Addresses: []string{"10.0.0.1"}},
				Probe:      &engine.Probe{Name: "www.example.com", Scheme: "https", StatusCode: 200},
			},
			{
				Candidate:  engine.Candidate{Index: 1, Name: "api.example.com"},
				Resolution: &engine.Resolution{Name: "api.example.com", Resolved: true, Addresses: []string{"10.0.0.2"}},
				Probe:      &engine.Probe{Name: "api.example.com", Error: engine.KindUnreachable},
			},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "www.example.com [https] [200] [10.0.0.1]\napi.example.com [DNS] [10.0.0.2]\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatResult_NoColor(t *testing.T) {
	s := sampleSummary()
	if got := FormatResult(s.Results[0], true); got != "  www.example.com : [https] [200] 10.0.0.1" {
		t.Errorf("got %q", got)
	}
	if got := FormatResult(s.Results[1], true); got != "  api.example.com : [DNS] (unreachable) 10.0.0.2" {
		t.Errorf("got %q", got)
	}
}

func TestWriteTable_NoColor(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, sampleSummary(), true)
	out := buf.String()

	for _, want := range []string{"Host", "www.example.com", "https", "200", "unreachable"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "www.example.com") > strings.Index(out, "api.example.com") {
		t.Error("table rows not in wordlist order")
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, &engine.RunSummary{}, true)
	if !strings.Contains(buf.String(), "No live subdomains") {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["total_processed"].(float64) != 3 {
		t.Errorf("total_processed = %v", decoded["total_processed"])
	}
	if len(decoded["results"].([]any)) != 2 {
		t.Errorf("results = %v", decoded["results"])
	}
}

func TestWriteSummary_ZoneTransfers(t *testing.T) {
	s := sampleSummary()
	s.ZoneTransfers = []engine.ZoneTransferFinding{
		{Nameserver: "ns1.example.com", Success: true, Records: []string{"a", "b"}, Hostnames: []string{"internal.example.com"}},
		{Nameserver: "ns2.example.com", Error: "refused"},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, s, true)
	out := buf.String()

	for _, want := range []string{"3 processed, 2 resolved, 1 responding", "1 of 2 nameservers vulnerable", "ns1.example.com (2 records)", "internal.example.com"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummary_AllRefused(t *testing.T) {
	s := sampleSummary()
	s.ZoneTransfers = []engine.ZoneTransferFinding{{Nameserver: "ns1.example.com"}}

	var buf bytes.Buffer
	WriteSummary(&buf, s, true)
	if !strings.Contains(buf.String(), "refused by all 1 nameservers") {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestProgress_PrintsRetainedResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false, true)
	p.Start(3)

	s := sampleSummary()
	p.Advance(1)
	p.Result(s.Results[0])
	p.Advance(2)
	p.Result(engine.Result{
		Candidate:  engine.Candidate{Index: 2, Name: "ghost.example.com"},
		Resolution: &engine.Resolution{Name: "ghost.example.com", Error: engine.KindNotFound},
	})
	p.Warn("something odd")
	p.ZoneTransfer(engine.ZoneTransferFinding{Nameserver: "ns1.example.com"})
	p.Complete()

	out := buf.String()
	if !strings.Contains(out, "www.example.com : [https] [200]") {
		t.Errorf("missing found line:\n%s", out)
	}
	if strings.Contains(out, "ghost.example.com") {
		t.Errorf("unretained result printed:\n%s", out)
	}
	for _, want := range []string{"! something odd", "AXFR ns1.example.com: protected", "Completed in"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestProgress_AdvanceMovesBarWithoutResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, false, true)
	p.Start(5)
	p.Advance(3)

	if got := p.bar.State().CurrentNum; got != 3 {
		t.Errorf("bar at %d, want 3", got)
	}
}

func TestProgress_Silent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, true, true)
	p.Start(1)
	p.Advance(1)
	p.Result(sampleSummary().Results[0])
	p.Warn("x")
	p.Complete()
	if buf.Len() != 0 {
		t.Errorf("silent progress wrote %q", buf.String())
	}
}
