package sblint

import "strconv"

// Severity expresses the severity level for diagnostics.
type Severity int

const (
	Warn  Severity = iota // Reported but does not block success.
	Error                 // Fatal; any Error diagnostic fails the document.
)

// String returns the lowercase name used in rendered and serialized output.
func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warn"
}

// MarshalJSON serializes the severity as its lowercase name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(s.String())), nil
}

// Version is the sblint release version, surfaced by the CLI.
const Version = "0.4.0"
