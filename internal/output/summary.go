package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vulnverified/subfuzz/internal/engine"
)

// Version is set via ldflags at build time.
var Version = "dev"

// BannerInfo is the run configuration shown before fuzzing starts.
type BannerInfo struct {
	Input        string
	Domain       string
	Wordlist     string
	Words        int
	Concurrency  int
	Timeout      string
	Mode         engine.Mode
	ZoneTransfer bool
	Output       string
}

// WriteHeader prints the subfuzz banner.
func WriteHeader(w io.Writer, noColor bool) {
	if noColor {
		fmt.Fprintf(w, "subfuzz %s\n\n", Version)
	} else {
		fmt.Fprintf(w, "\033[1msubfuzz %s\033[0m\n\n", Version)
	}
}

// WriteBanner prints the run configuration in a box.
func WriteBanner(w io.Writer, info BannerInfo, noColor bool) {
	rows := [][2]string{
		{"Input", info.Input},
		{"Target Domain", info.Domain},
		{"Wordlist", fmt.Sprintf("%s (%d entries)", info.Wordlist, info.Words)},
		{"Workers", fmt.Sprint(info.Concurrency)},
		{"Timeout", info.Timeout},
		{"Mode", string(info.Mode)},
		{"Zone transfer", fmt.Sprint(info.ZoneTransfer)},
	}
	if info.Output != "" {
		rows = append(rows, [2]string{"Output File", info.Output})
	}

	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-*s : %s", width, r[0], r[1]))
	}
	body := strings.Join(lines, "\n")

	if noColor {
		fmt.Fprintf(w, "subfuzz configuration\n%s\n\n", body)
		return
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")).Render("subfuzz configuration")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(title + "\n" + body)
	fmt.Fprintln(w, box)
	fmt.Fprintln(w)
}

// WriteSummary prints the post-run counts and the zone transfer report.
func WriteSummary(w io.Writer, summary *engine.RunSummary, noColor bool) {
	fmt.Fprintln(w)
	label := func(s string) string {
		if noColor {
			return s
		}
		return "\033[1m" + s + "\033[0m"
	}

	fmt.Fprintf(w, "%s %s (%s)\n", label("Target:"), summary.Target, summary.Mode)
	fmt.Fprintf(w, "%s %d processed, %d resolved, %d responding over HTTP\n",
		label("Candidates:"), summary.Total, summary.ResolvedCount, summary.ProbedCount)
	if summary.Duplicates > 0 {
		fmt.Fprintf(w, "%s %d duplicate wordlist entries skipped\n", label("Duplicates:"), summary.Duplicates)
	}
	fmt.Fprintf(w, "%s %.2fs\n", label("Elapsed:"), summary.DurationSecs)

	if summary.Interrupted {
		fmt.Fprintf(w, "%s run interrupted, %d in-flight candidates abandoned; results are partial\n",
			paint(warnColor, noColor, "!"), summary.Abandoned)
	}

	writeZoneTransfers(w, summary.ZoneTransfers, noColor)
}

func writeZoneTransfers(w io.Writer, findings []engine.ZoneTransferFinding, noColor bool) {
	if len(findings) == 0 {
		return
	}

	var vulnerable []engine.ZoneTransferFinding
	for _, f := range findings {
		if f.Success {
			vulnerable = append(vulnerable, f)
		}
	}

	fmt.Fprintln(w)
	if len(vulnerable) == 0 {
		fmt.Fprintf(w, "Zone transfer refused by all %d nameservers\n", len(findings))
		return
	}

	fmt.Fprintf(w, "%s Zone transfer enabled (%d of %d nameservers vulnerable)\n",
		paint(vulnColor, noColor, "!"), len(vulnerable), len(findings))
	seen := make(map[string]bool)
	var hostnames []string
	for _, f := range vulnerable {
		fmt.Fprintf(w, "  %s (%d records)\n", f.Nameserver, len(f.Records))
		for _, h := range f.Hostnames {
			if !seen[h] {
				seen[h] = true
				hostnames = append(hostnames, h)
			}
		}
	}
	if len(hostnames) > 0 {
		fmt.Fprintf(w, "  Exposed hostnames (%d):\n", len(hostnames))
		for _, h := range hostnames {
			fmt.Fprintf(w, "    %s\n", h)
		}
	}
	fmt.Fprintln(w, "  Restrict AXFR to authorized secondary nameservers.")
}
