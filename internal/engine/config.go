package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrConfig is wrapped by every configuration error. A run that fails with
// it has performed no network activity.
var ErrConfig = errors.New("invalid configuration")

// Mode selects the per-candidate pipeline.
type Mode string

const (
	ModeFull     Mode = "full"
	ModeDNSOnly  Mode = "dns-only"
	ModeHTTPOnly Mode = "http-only"
)

const (
	DefaultConcurrency = 100
	DefaultTimeout     = 5 * time.Second
)

// ParseMode parses a mode name. The empty string selects full mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeDNSOnly:
		return ModeDNSOnly, nil
	case ModeHTTPOnly:
		return ModeHTTPOnly, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrConfig, s)
}

// Config holds the runtime configuration for a run.
type Config struct {
	Domain       string
	Concurrency  int
	Timeout      time.Duration
	Mode         Mode
	ZoneTransfer bool
	// RateLimit caps candidate admissions per second. Zero means unlimited.
	RateLimit int
	Logger    logrus.FieldLogger
}

// Validate checks the configuration and fills in the mode default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Domain) == "" {
		return fmt.Errorf("%w: domain is required", ErrConfig)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be positive, got %d", ErrConfig, c.Concurrency)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrConfig, c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative, got %d", ErrConfig, c.RateLimit)
	}
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		return err
	}
	c.Mode = mode
	return nil
}

func (c *Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
