package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vulnverified/subfuzz/internal/engine"
)

var tableHeaders = []string{"Host", "Addresses", "Scheme", "Status"}

// WriteTable renders the retained results as a styled terminal table, in
// wordlist order.
func WriteTable(w io.Writer, summary *engine.RunSummary, noColor bool) {
	if len(summary.Results) == 0 {
		fmt.Fprintln(w, "\nNo live subdomains discovered.")
		return
	}

	var rows [][]string
	for _, r := range summary.Results {
		addrs := ""
		if r.Resolution != nil {
			addrs = strings.Join(r.Resolution.Addresses, ", ")
		}
		scheme, status := "-", "-"
		if r.Probe != nil {
			if r.Probe.Alive() {
				scheme = r.Probe.Scheme
				status = fmt.Sprint(r.Probe.StatusCode)
			} else if r.Probe.Error != engine.KindNone {
				status = string(r.Probe.Error)
			}
		}
		rows = append(rows, []string{r.Name(), truncate(addrs, 40), scheme, status})
	}

	fmt.Fprintln(w)

	if noColor {
		writeSimpleTable(w, rows)
		return
	}

	t := table.New().
		Headers(tableHeaders...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		})

	for _, row := range rows {
		t.Row(row...)
	}

	fmt.Fprintln(w, t.Render())
}

func writeSimpleTable(w io.Writer, rows [][]string) {
	widths := make([]int, len(tableHeaders))
	for i, h := range tableHeaders {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprintf(w, "%-*s", widths[i], cell)
		}
		fmt.Fprintln(w)
	}

	writeRow(tableHeaders)
	for i, width := range widths {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", width))
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		writeRow(row)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
