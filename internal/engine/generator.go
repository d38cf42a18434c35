package engine

import (
	"fmt"
	"iter"
	"strings"
)

// Generator yields one Candidate per wordlist entry, in wordlist order.
// It holds no iteration state, so All can be ranged over repeatedly.
type Generator struct {
	domain string
	words  []string
}

// NewGenerator builds a generator for domain. Words are expected to be
// trimmed already; blank entries are skipped.
func NewGenerator(domain string, words []string) (*Generator, error) {
	domain = strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return nil, fmt.Errorf("%w: domain is required", ErrConfig)
	}

	var labels []string
	for _, w := range words {
		w = strings.Trim(strings.ToLower(strings.TrimSpace(w)), ".")
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		labels = append(labels, w)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: wordlist is empty", ErrConfig)
	}

	return &Generator{domain: domain, words: labels}, nil
}

// Domain returns the normalised base domain.
func (g *Generator) Domain() string { return g.domain }

// Len returns the number of candidates All yields.
func (g *Generator) Len() int { return len(g.words) }

// All yields candidates in wordlist order.
func (g *Generator) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i, w := range g.words {
			if !yield(Candidate{Index: i, Name: w + "." + g.domain}) {
				return
			}
		}
	}
}
