package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/vulnverified/subfuzz/internal/engine"
)

var (
	headerColor = color.New(color.FgHiBlue, color.Bold)
	hostColor   = color.New(color.FgCyan)
	vulnColor   = color.New(color.FgRed, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	dimColor    = color.New(color.Faint)
)

func paint(c *color.Color, noColor bool, s string) string {
	if noColor {
		return s
	}
	cc := *c
	cc.EnableColor()
	return cc.Sprint(s)
}

// statusColor follows the usual convention: 2xx green, 3xx yellow,
// 4xx blue, 5xx red.
func statusColor(code int) *color.Color {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen)
	case code >= 300 && code < 400:
		return color.New(color.FgYellow)
	case code >= 400 && code < 500:
		return color.New(color.FgHiBlue)
	case code >= 500:
		return color.New(color.FgRed)
	}
	return color.New(color.Reset)
}

// FormatResult renders one result as a single console line, e.g.
// "  www.example.com : [https] [200]" or "  api.example.com : [DNS] 10.0.0.1".
func FormatResult(r engine.Result, noColor bool) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(paint(hostColor, noColor, r.Name()))
	b.WriteString(" : ")

	if r.Probe.Alive() {
		fmt.Fprintf(&b, "[%s] [%s]", r.Probe.Scheme, paint(statusColor(r.Probe.StatusCode), noColor, fmt.Sprint(r.Probe.StatusCode)))
	} else {
		b.WriteString("[DNS]")
		if r.Probe != nil && r.Probe.Error != engine.KindNone {
			b.WriteString(" ")
			b.WriteString(paint(dimColor, noColor, "("+string(r.Probe.Error)+")"))
		}
	}
	if r.Resolution != nil && len(r.Resolution.Addresses) > 0 {
		b.WriteString(" ")
		b.WriteString(paint(dimColor, noColor, strings.Join(r.Resolution.Addresses, ", ")))
	}
	return b.String()
}
