package main

import (
	"fmt"
	"time"

	"github.com/vulnverified/subfuzz/internal/config"
	"github.com/vulnverified/subfuzz/internal/engine"
)

// options holds the resolved command-line settings.
type options struct {
	wordlist    string
	concurrency int
	timeout     time.Duration
	dnsOnly     bool
	httpOnly    bool
	axfr        bool
	rate        int
	resolvers   []string
	keepHost    bool
	userAgent   string

	output     string
	jsonOutput bool
	noColor    bool
	silent     bool
	debug      bool
	configPath string
}

func defaultOptions() *options {
	return &options{
		concurrency: engine.DefaultConcurrency,
		timeout:     engine.DefaultTimeout,
	}
}

// applyFile fills in settings from a config file. Flags set explicitly on
// the command line win.
func (o *options) applyFile(f *config.File, changed func(string) bool) error {
	if f.Wordlist != "" && !changed("wordlist") {
		o.wordlist = f.Wordlist
	}
	if f.Concurrency != 0 && !changed("concurrency") {
		o.concurrency = f.Concurrency
	}
	if f.Timeout != 0 && !changed("timeout") {
		o.timeout = time.Duration(f.Timeout)
	}
	if f.ZoneTransfer && !changed("axfr") {
		o.axfr = true
	}
	if f.RateLimit != 0 && !changed("rate") {
		o.rate = f.RateLimit
	}
	if len(f.Resolvers) > 0 && !changed("resolvers") {
		o.resolvers = f.Resolvers
	}
	if f.KeepHost && !changed("keep-host") {
		o.keepHost = true
	}
	if f.UserAgent != "" && !changed("user-agent") {
		o.userAgent = f.UserAgent
	}

	if f.Mode != "" && !changed("dns-only") && !changed("http-only") {
		mode, err := engine.ParseMode(f.Mode)
		if err != nil {
			return fmt.Errorf("config %s: %w", o.configPath, err)
		}
		o.dnsOnly = mode == engine.ModeDNSOnly
		o.httpOnly = mode == engine.ModeHTTPOnly
	}
	return nil
}

func (o *options) mode() engine.Mode {
	switch {
	case o.dnsOnly:
		return engine.ModeDNSOnly
	case o.httpOnly:
		return engine.ModeHTTPOnly
	default:
		return engine.ModeFull
	}
}
