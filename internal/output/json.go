package output

import (
	"encoding/json"
	"io"

	"github.com/vulnverified/subfuzz/internal/engine"
)

// WriteJSON writes the run summary as indented JSON to w.
func WriteJSON(w io.Writer, summary *engine.RunSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
