package pbs

import (
	"fmt"

	multierror "github.com/hashicorp/go-multierror"
)

// ParseError reports a script in which one or more required directives were
// not found before the end of input. It carries the full field report so
// callers can show exactly what was recognized and what was not.
type ParseError struct {
	missing  []string
	report   string
	fieldErr *multierror.Error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("incomplete job script: %s", e.fieldErr)
}

// Missing returns the names of the required fields that were not found, in
// report order
func (e *ParseError) Missing() []string {
	missing := make([]string, len(e.missing))
	copy(missing, e.missing)
	return missing
}

// Report returns the complete diagnostic listing: every optional field with
// its parsed value or default, then every required field with its parsed
// value or the "Not Found" marker
func (e *ParseError) Report() string {
	return e.report
}

// Unwrap exposes the per-field errors for errors.As/Is inspection
func (e *ParseError) Unwrap() error {
	return e.fieldErr
}

// MalformedAutoFlagError reports an "auto=" comment whose value is not a
// recognized boolean. Unlike missing required fields it aborts the parse at
// the offending line.
type MalformedAutoFlagError struct {
	// Line is the script line carrying the unrecognized value
	Line string
}

func (e *MalformedAutoFlagError) Error() string {
	return fmt.Sprintf("\"auto=\" value not understood: %q", e.Line)
}

// SubmissionError reports a failed dispatch to the scheduler submission
// mechanism. It is propagated unchanged, the caller decides about retries.
type SubmissionError struct {
	// Reason is the scheduler-side diagnostic, typically the qsub stderr
	Reason string
	cause  error
}

func (e *SubmissionError) Error() string {
	if e.cause != nil && e.Reason != "" {
		return fmt.Sprintf("job submission failed: %s: %s", e.Reason, e.cause)
	}
	if e.Reason != "" {
		return fmt.Sprintf("job submission failed: %s", e.Reason)
	}
	return fmt.Sprintf("job submission failed: %s", e.cause)
}

// Unwrap returns the underlying transport or process error, if any
func (e *SubmissionError) Unwrap() error {
	return e.cause
}

// IsParseError checks if the given error is a missing-required-field report
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// IsMalformedAutoFlagError checks if the given error reports an unrecognized
// "auto=" value
func IsMalformedAutoFlagError(err error) bool {
	_, ok := err.(*MalformedAutoFlagError)
	return ok
}
