package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vulnverified/subfuzz/internal/engine"
)

// WriteText writes one line per retained result:
//
//	www.example.com [https] [200] [93.184.216.34]
//	api.example.com [DNS] [93.184.216.35]
func WriteText(w io.Writer, summary *engine.RunSummary) error {
	bw := bufio.NewWriter(w)
	for _, r := range summary.Results {
		line := r.Name()
		if r.Probe.Alive() {
			line += fmt.Sprintf(" [%s] [%d]", r.Probe.Scheme, r.Probe.StatusCode)
		} else {
			line += " [DNS]"
		}
		if r.Resolution != nil && len(r.Resolution.Addresses) > 0 {
			line += " [" + strings.Join(r.Resolution.Addresses, ",") + "]"
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
