// Package wordlist loads subdomain labels for candidate generation and
// provides an embedded default list.
package wordlist

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed subdomains.txt
var subdomainsFS embed.FS

// ErrEmpty is returned when a wordlist has no usable entries.
var ErrEmpty = errors.New("wordlist is empty")

// Parse reads one label per line. Lines are trimmed and empty lines and
// # comments are skipped.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading wordlist: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmpty
	}
	return words, nil
}

// Load reads the wordlist at path.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist: %w", err)
	}
	defer f.Close()

	words, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return words, nil
}

// Default returns the embedded wordlist.
func Default() []string {
	f, err := subdomainsFS.Open("subdomains.txt")
	if err != nil {
		return nil
	}
	defer f.Close()

	words, err := Parse(f)
	if err != nil {
		return nil
	}
	return words
}
