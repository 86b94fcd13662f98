package domain

import "fmt"

// ValidationError marks a record that violates an input invariant. The record
// is excluded from the output; the job continues.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: invalid %s: %s", e.Line, e.Field, e.Reason)
}

// Validate checks the invariants an InputRecord must satisfy before
// enrichment. The CSV adapter rejects structurally malformed rows; this is
// the last line of defense for semantic violations.
func (r InputRecord) Validate() error {
	if r.Amount <= 0 {
		return &ValidationError{
			Line:   r.Line,
			Field:  "amount",
			Reason: fmt.Sprintf("must be positive, got %g", r.Amount),
		}
	}
	return nil
}
