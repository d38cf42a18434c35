package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vulnverified/subfuzz/internal/config"
	"github.com/vulnverified/subfuzz/internal/engine"
)

func changedSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestApplyFile_FillsUnsetFlags(t *testing.T) {
	o := defaultOptions()
	f := &config.File{
		Wordlist:     "words.txt",
		Concurrency:  20,
		Timeout:      config.Duration(2 * time.Second),
		Mode:         "dns-only",
		ZoneTransfer: true,
		Resolvers:    []string{"1.1.1.1"},
	}

	if err := o.applyFile(f, changedSet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.wordlist != "words.txt" || o.concurrency != 20 || o.timeout != 2*time.Second {
		t.Errorf("options = %+v", o)
	}
	if o.mode() != engine.ModeDNSOnly || !o.axfr || len(o.resolvers) != 1 {
		t.Errorf("options = %+v", o)
	}
}

func TestApplyFile_FlagsWin(t *testing.T) {
	o := defaultOptions()
	o.concurrency = 5
	o.httpOnly = true

	f := &config.File{Concurrency: 50, Mode: "dns-only"}
	if err := o.applyFile(f, changedSet("concurrency", "http-only")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.concurrency != 5 {
		t.Errorf("concurrency = %d, want flag value 5", o.concurrency)
	}
	if o.mode() != engine.ModeHTTPOnly {
		t.Errorf("mode = %s, want http-only", o.mode())
	}
}

func TestApplyFile_BadMode(t *testing.T) {
	o := defaultOptions()
	err := o.applyFile(&config.File{Mode: "ports"}, changedSet())
	if !errors.Is(err, engine.ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
}

func TestTimeoutFlag(t *testing.T) {
	tests := []struct {
		arg  string
		want time.Duration
	}{
		{"5", 5 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"2m", 2 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			opts := defaultOptions()
			cmd := newRootCmd(opts)
			if err := cmd.Flags().Parse([]string{"-t", tt.arg}); err != nil {
				t.Fatalf("parse: %v", err)
			}
			if opts.timeout != tt.want {
				t.Errorf("timeout = %s, want %s", opts.timeout, tt.want)
			}
		})
	}

	opts := defaultOptions()
	if err := newRootCmd(opts).Flags().Parse([]string{"-t", "soon"}); err == nil {
		t.Error("expected error for bad timeout")
	}
	if opts.timeout != engine.DefaultTimeout {
		t.Errorf("default timeout = %s, want %s", opts.timeout, engine.DefaultTimeout)
	}
}

func TestLoadWords(t *testing.T) {
	words, source, err := loadWords("")
	if err != nil || source != "embedded" || len(words) == 0 {
		t.Errorf("embedded: words=%d source=%q err=%v", len(words), source, err)
	}

	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("www\napi\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	words, source, err = loadWords(path)
	if err != nil || source != path || len(words) != 2 {
		t.Errorf("file: words=%v source=%q err=%v", words, source, err)
	}

	if _, _, err := loadWords(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing wordlist")
	}
}

func TestWriteOutputFile(t *testing.T) {
	summary := &engine.RunSummary{Target: "example.com", Mode: engine.ModeFull}
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	if err := writeOutputFile(jsonPath, summary); err != nil {
		t.Fatalf("json: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil || len(data) == 0 || data[0] != '{' {
		t.Errorf("json output = %q, err = %v", data, err)
	}

	if err := writeOutputFile(filepath.Join(dir, "out.txt"), summary); err != nil {
		t.Fatalf("text: %v", err)
	}
}
