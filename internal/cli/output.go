package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/atomstore/internal/config"
	"github.com/roach88/atomstore/internal/engine"
	"github.com/roach88/atomstore/internal/schema"
	"github.com/roach88/atomstore/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess    = 0 // Successful execution
	ExitNotFound   = 1 // The query matched nothing
	ExitValidation = 2 // Rejected input, including flag and argument errors
	ExitStoreError = 3 // Store, config or other operational failure
)

// Error codes used in CLI error responses.
const (
	ErrCodeGeneric    = "E001" // Generic/unknown error
	ErrCodeValidation = "E201" // Missing or malformed input
	ErrCodeNotFound   = "E202" // No matching record
	ErrCodeStore      = "E301" // Backing file unreadable or unwritable
	ErrCodeConfig     = "E302" // Config or schema file invalid
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (one of the Exit* constants)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitValidation for errors that are not
// ExitErrors, which are flag and argument errors raised by cobra.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitValidation
}

// classify maps an error to its error code and exit code.
func classify(err error) (string, int) {
	var compileErr *schema.CompileError
	switch {
	case engine.IsValidation(err):
		return ErrCodeValidation, ExitValidation
	case store.IsStoreError(err):
		return ErrCodeStore, ExitStoreError
	case errors.Is(err, config.ErrConfigInvalid),
		errors.Is(err, config.ErrConfigFileNotFound),
		errors.Is(err, config.ErrConfigFileRead),
		errors.As(err, &compileErr):
		return ErrCodeConfig, ExitStoreError
	default:
		return ErrCodeGeneric, ExitStoreError
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // optional request correlation
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E201", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError for it.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classify(err)
	var details any
	var ve *engine.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		details = map[string]any{"fields": ve.Fields}
	}
	_ = f.Error(code, fmt.Sprintf("%s: %v", message, err), details)
	return WrapExitError(exit, message, err)
}

// NotFound reports an empty result and returns the matching ExitError.
func (f *OutputFormatter) NotFound(message string) error {
	_ = f.Error(ErrCodeNotFound, message, nil)
	return NewExitError(ExitNotFound, message)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
