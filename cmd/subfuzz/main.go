package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vulnverified/subfuzz/internal/config"
	"github.com/vulnverified/subfuzz/internal/engine"
	"github.com/vulnverified/subfuzz/internal/output"
	"github.com/vulnverified/subfuzz/internal/recon"
	"github.com/vulnverified/subfuzz/internal/target"
	"github.com/vulnverified/subfuzz/internal/wordlist"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	output.Version = version

	if err := newRootCmd(defaultOptions()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "subfuzz <domain>",
		Short: "Fuzz subdomains from a wordlist",
		Long:  "Subdomain fuzzing: resolves wordlist candidates under a domain, probes live hosts over HTTPS/HTTP and optionally tests DNS zone transfers.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Respect NO_COLOR env var.
			if _, ok := os.LookupEnv("NO_COLOR"); ok {
				opts.noColor = true
			}

			if opts.configPath != "" {
				file, err := config.Load(opts.configPath)
				if err != nil {
					return fmt.Errorf("%w: %w", engine.ErrConfig, err)
				}
				if err := opts.applyFile(file, cmd.Flags().Changed); err != nil {
					return err
				}
			}

			domain, err := target.Normalize(args[0], opts.keepHost)
			if err != nil {
				return fmt.Errorf("%w: %w", engine.ErrConfig, err)
			}

			words, source, err := loadWords(opts.wordlist)
			if err != nil {
				return fmt.Errorf("%w: %w", engine.ErrConfig, err)
			}
			gen, err := engine.NewGenerator(domain, words)
			if err != nil {
				return err
			}

			cfg := engine.Config{
				Domain:       domain,
				Concurrency:  opts.concurrency,
				Timeout:      opts.timeout,
				Mode:         opts.mode(),
				ZoneTransfer: opts.axfr,
				RateLimit:    opts.rate,
				Logger:       newLogger(opts.debug),
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Set up context with signal handling for clean Ctrl+C.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			go func() {
				<-sigCh
				fmt.Fprintf(os.Stderr, "\nInterrupted, finishing in-flight candidates (up to %s)...\n", opts.timeout)
				cancel()
			}()

			userAgent := opts.userAgent
			if userAgent == "" {
				userAgent = fmt.Sprintf("subfuzz/%s", version)
			}
			stages := recon.NewStages(recon.Options{
				Servers:   opts.resolvers,
				Timeout:   opts.timeout,
				UserAgent: userAgent,
			})

			showProgress := !opts.jsonOutput && !opts.silent
			progress := output.NewProgress(os.Stderr, !showProgress, opts.noColor)

			if showProgress {
				output.WriteHeader(os.Stderr, opts.noColor)
				output.WriteBanner(os.Stderr, output.BannerInfo{
					Input:        args[0],
					Domain:       domain,
					Wordlist:     source,
					Words:        gen.Len(),
					Concurrency:  cfg.Concurrency,
					Timeout:      cfg.Timeout.String(),
					Mode:         cfg.Mode,
					ZoneTransfer: cfg.ZoneTransfer,
					Output:       opts.output,
				}, opts.noColor)
			}

			summary, err := engine.Run(ctx, cfg, gen, stages, progress)
			if err != nil {
				return err
			}
			progress.Complete()

			if opts.output != "" {
				if err := writeOutputFile(opts.output, summary); err != nil {
					return err
				}
				if showProgress {
					fmt.Fprintf(os.Stderr, "Results saved to %s\n", opts.output)
				}
			}

			if opts.jsonOutput {
				return output.WriteJSON(os.Stdout, summary)
			}

			output.WriteTable(os.Stdout, summary, opts.noColor)
			if !opts.silent {
				output.WriteSummary(os.Stdout, summary, opts.noColor)
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.wordlist, "wordlist", "w", "", "Wordlist file, one label per line (default: embedded list)")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", engine.DefaultConcurrency, "Max candidates in flight")
	flags.VarP((*config.Duration)(&opts.timeout), "timeout", "t", "Per-operation DNS/HTTP timeout, in seconds or as a duration like 1500ms")
	flags.BoolVar(&opts.dnsOnly, "dns-only", false, "Only resolve candidates, skip HTTP probing")
	flags.BoolVar(&opts.httpOnly, "http-only", false, "Only probe over HTTPS/HTTP, skip DNS resolution")
	flags.BoolVar(&opts.axfr, "axfr", false, "Test the domain's nameservers for zone transfers")
	flags.IntVar(&opts.rate, "rate", 0, "Max candidates admitted per second (0 = unlimited)")
	flags.StringSliceVar(&opts.resolvers, "resolvers", nil, "Comma-separated DNS servers (default: system resolvers)")
	flags.BoolVar(&opts.keepHost, "keep-host", false, "Fuzz under the full host instead of its registered domain")
	flags.StringVarP(&opts.output, "output", "o", "", "Save results to file (.json for JSON, text otherwise)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output structured JSON to stdout")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable terminal colors")
	flags.BoolVar(&opts.silent, "silent", false, "Results only, no progress or summary")
	flags.BoolVar(&opts.debug, "debug", false, "Log per-candidate diagnostics to stderr")
	flags.StringVar(&opts.configPath, "config", "", "YAML config file with default settings")
	flags.StringVar(&opts.userAgent, "user-agent", "", "User-Agent for HTTP probes")
	rootCmd.MarkFlagsMutuallyExclusive("dns-only", "http-only")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("subfuzz {{.Version}}\n")

	return rootCmd
}

// loadWords returns the wordlist entries and a label for the banner.
func loadWords(path string) ([]string, string, error) {
	if path == "" {
		words := wordlist.Default()
		if len(words) == 0 {
			return nil, "", wordlist.ErrEmpty
		}
		return words, "embedded", nil
	}
	words, err := wordlist.Load(path)
	if err != nil {
		return nil, "", err
	}
	return words, path, nil
}

func newLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.TimeOnly})
	logger.SetLevel(logrus.WarnLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

func writeOutputFile(path string, summary *engine.RunSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = output.WriteJSON(f, summary)
	} else {
		err = output.WriteText(f, summary)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
