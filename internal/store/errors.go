package store

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceMissing is returned by writers when the backing file does not
	// exist and the store was opened with WithCreateMissing(false).
	ErrResourceMissing = errors.New("backing file does not exist")

	// ErrEmptyMarker is returned by InsertBeforeMarker for an empty marker,
	// which would match every line.
	ErrEmptyMarker = errors.New("marker must not be empty")
)

// Error reports a failed storage operation on a backing file.
type Error struct {
	Op   string // "scan", "append", "insert", "watch", "open"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsStoreError returns true if err wraps a *Error.
func IsStoreError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
