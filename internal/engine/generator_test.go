package engine

import (
	"errors"
	"testing"
)

func TestGenerator_YieldsInWordlistOrder(t *testing.T) {
	gen, err := NewGenerator("Example.COM.", []string{"www", "  api ", "", "# comment", "Mail"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.Len() != 3 {
		t.Fatalf("len = %d, want 3", gen.Len())
	}

	want := []string{"www.example.com", "api.example.com", "mail.example.com"}
	i := 0
	for c := range gen.All() {
		if c.Index != i || c.Name != want[i] {
			t.Errorf("candidate %d = %+v, want %s", i, c, want[i])
		}
		i++
	}
}

func TestGenerator_Restartable(t *testing.T) {
	gen, err := NewGenerator("example.com", []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count := func() int {
		n := 0
		for range gen.All() {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 2 || second != 2 {
		t.Errorf("iterations yielded %d then %d, want 2 both times", first, second)
	}
}

func TestGenerator_EarlyBreak(t *testing.T) {
	gen, _ := NewGenerator("example.com", []string{"a", "b", "c"})
	for c := range gen.All() {
		if c.Index == 1 {
			break
		}
	}
}

func TestNewGenerator_Errors(t *testing.T) {
	if _, err := NewGenerator("example.com", []string{"", "  ", "# only comments"}); !errors.Is(err, ErrConfig) {
		t.Errorf("empty wordlist: err = %v, want ErrConfig", err)
	}
	if _, err := NewGenerator("", []string{"www"}); !errors.Is(err, ErrConfig) {
		t.Errorf("empty domain: err = %v, want ErrConfig", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"", ModeFull, false},
		{"full", ModeFull, false},
		{"DNS-only", ModeDNSOnly, false},
		{"http-only", ModeHTTPOnly, false},
		{"both", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
