package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports request input that was rejected before any store
// was touched.
type ValidationError struct {
	// Fields lists the offending input fields in declaration order.
	Fields []string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: fields %s", strings.Join(e.Fields, ", "))
}

// IsValidation returns true if err wraps a *ValidationError.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// field pairs an input field name with its value for required checks.
type field struct {
	name  string
	value string
}

// requireFields returns a *ValidationError naming every empty field, or nil.
// Values are compared after trimming whitespace.
func requireFields(fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{
		Fields:  missing,
		Message: "missing required fields: " + strings.Join(missing, ", "),
	}
}
