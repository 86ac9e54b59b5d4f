package sblint

import (
	"io"

	json "github.com/goccy/go-json"
)

// WriteReport serializes per-file lint results as an indented JSON array,
// the machine-readable counterpart of the console diagnostics.
func WriteReport(w io.Writer, results []FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
