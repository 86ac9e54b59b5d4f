package sblint

import (
	"errors"
	"fmt"
)

// Diagnostic represents a single validation finding for one field.
type Diagnostic struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Line     int      `json:"line"` // 1-based source line; 0 when unknown.
	Severity Severity `json:"severity"`
}

// Report accumulates diagnostics for one Validate invocation in discovery
// order. At most one diagnostic exists per distinct field: recording a second
// problem for the same field refreshes the stored line number but keeps the
// first message.
type Report struct {
	diags []Diagnostic
}

// Record inserts a diagnostic for field, or updates the line of the existing
// one. Nothing is ever removed.
func (r *Report) Record(field, message string, line int, sev Severity) {
	for i := range r.diags {
		if r.diags[i].Field == field {
			r.diags[i].Line = line
			return
		}
	}
	r.diags = append(r.diags, Diagnostic{Field: field, Message: message, Line: line, Severity: sev})
}

// Diagnostics returns the stored diagnostics in first-occurrence order.
func (r *Report) Diagnostics() []Diagnostic { return r.diags }

// Len reports how many distinct fields have diagnostics.
func (r *Report) Len() int { return len(r.diags) }

// HasFatal reports whether any stored diagnostic is Error severity.
func (r *Report) HasFatal() bool {
	for i := range r.diags {
		if r.diags[i].Severity == Error {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of Error-severity diagnostics.
func (r *Report) ErrorCount() int {
	n := 0
	for i := range r.diags {
		if r.diags[i].Severity == Error {
			n++
		}
	}
	return n
}

// WarnCount returns the number of Warn-severity diagnostics.
func (r *Report) WarnCount() int { return r.Len() - r.ErrorCount() }

// ValidationError is the aggregate error returned when a document fails
// validation. Individual diagnostics stay in the Report; only the counts
// cross the Validate boundary.
type ValidationError struct {
	Errors   int
	Warnings int
}

func (e *ValidationError) Error() string {
	if e.Warnings > 0 {
		return fmt.Sprintf("%d error(s) & %d warning(s) found during deserialization", e.Errors, e.Warnings)
	}
	return fmt.Sprintf("%d error(s) found during deserialization", e.Errors)
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
