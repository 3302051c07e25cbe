package atom

import (
	"errors"
	"fmt"
)

// ErrorKind classifies parse and conversion failures.
type ErrorKind string

const (
	// NotARecord: blank line or a line that does not start with '('.
	NotARecord ErrorKind = "NOT_A_RECORD"

	// UnbalancedParens: the outer list does not close exactly at end of line,
	// or a ')' appears with no open list.
	UnbalancedParens ErrorKind = "UNBALANCED_PARENS"

	// UnterminatedString: a quoted span is still open at end of line.
	UnterminatedString ErrorKind = "UNTERMINATED_STRING"

	// NotNumeric: a Number could not be converted to the requested type.
	NotNumeric ErrorKind = "NOT_NUMERIC"
)

// Sentinels for errors.Is checks against a *ParseError of the same kind.
var (
	ErrNotARecord         = errors.New("not a record")
	ErrUnbalancedParens   = errors.New("unbalanced parentheses")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrNotNumeric         = errors.New("not numeric")
)

// ParseError describes why a line or token could not be converted.
//
// Parse errors are recoverable: store scans and schema projections
// drop the offending line or field and continue.
type ParseError struct {
	// Kind identifies the failure category.
	Kind ErrorKind

	// Offset is the byte offset within the line where the problem was
	// detected (-1 when not applicable).
	Offset int

	// Msg is a human-readable description.
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset >= 0 && e.Kind != NotNumeric {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Is matches the sentinel for this error's kind.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrNotARecord:
		return e.Kind == NotARecord
	case ErrUnbalancedParens:
		return e.Kind == UnbalancedParens
	case ErrUnterminatedString:
		return e.Kind == UnterminatedString
	case ErrNotNumeric:
		return e.Kind == NotNumeric
	}
	return false
}

// KindOf returns the ErrorKind of err if it wraps a *ParseError, or "".
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
