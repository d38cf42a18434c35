// Package config loads optional subfuzz settings from a YAML file.
// Command-line flags take precedence over anything set here.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File mirrors the command-line flags. Zero values mean "not set".
type File struct {
	Wordlist     string   `yaml:"wordlist,omitempty"`
	Concurrency  int      `yaml:"concurrency,omitempty"`
	Timeout      Duration `yaml:"timeout,omitempty"`
	Mode         string   `yaml:"mode,omitempty"`
	ZoneTransfer bool     `yaml:"axfr,omitempty"`
	RateLimit    int      `yaml:"rate,omitempty"`
	Resolvers    []string `yaml:"resolvers,omitempty"`
	KeepHost     bool     `yaml:"keep_host,omitempty"`
	UserAgent    string   `yaml:"user_agent,omitempty"`
}

// Duration accepts "5s" style strings or a plain number of seconds. It
// also serves as a command-line flag value.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	if err := d.Set(s); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}
	return nil
}

// Set parses s as whole seconds or a Go duration string.
func (d *Duration) Set(s string) error {
	s = strings.TrimSpace(s)
	if secs, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(secs) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) String() string { return time.Duration(*d).String() }

// Type names the flag value in help output.
func (d *Duration) Type() string { return "duration" }

// Load reads and decodes the YAML file at path. Unknown keys are rejected;
// an empty file yields an empty File.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	var cfg File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
