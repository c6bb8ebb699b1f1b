// LOCATION: internal/errors/errors.go
//
// This file provides:
// - Sentinel errors for every journal and run failure
// - Error category checking functions
// - ExitCode mapping for the CLI
// - LineError for reporting the offending journal record
// - Error wrapping utilities

package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Process exit codes
// ============================================================================

const (
	ExitOK            = 0
	ExitUnknown       = 1
	ExitFormat        = 2
	ExitInvalidDate   = 3
	ExitIO            = 4
	ExitInvalidConfig = 5
)

// ExitName returns a human-readable name for an exit code.
func ExitName(code int) string {
	switch code {
	case ExitOK:
		return "OK"
	case ExitUnknown:
		return "Unknown"
	case ExitFormat:
		return "Format"
	case ExitInvalidDate:
		return "InvalidDate"
	case ExitIO:
		return "IO"
	case ExitInvalidConfig:
		return "InvalidConfig"
	default:
		return fmt.Sprintf("Exit(%d)", code)
	}
}

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Record format errors. Every one of them wraps ErrFormat.
	ErrFormat             = errors.New("malformed journal record")
	ErrMissingSeparator   = fmt.Errorf("%w: expected ': ' separator", ErrFormat)
	ErrBadID              = fmt.Errorf("%w: failed to parse id as u64", ErrFormat)
	ErrBadTimestamp       = fmt.Errorf("%w: failed to parse timestamp as i64", ErrFormat)
	ErrMissingDelimiter   = fmt.Errorf("%w: expected '|' delimiter", ErrFormat)
	ErrMissingParenthesis = fmt.Errorf("%w: missing parenthesis in LENGTH record", ErrFormat)
	ErrMissingComma       = fmt.Errorf("%w: missing ',' in LENGTH record", ErrFormat)
	ErrBadInode           = fmt.Errorf("%w: failed to parse inode as u64 in LENGTH record", ErrFormat)
	ErrBadLength          = fmt.Errorf("%w: failed to parse length as u64 in LENGTH record", ErrFormat)

	// I/O errors
	ErrIO = errors.New("i/o error")

	// Date resolution errors
	ErrInvalidDate = errors.New("invalid date")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNoInput       = errors.New("no journal files given")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsFormat returns true if err describes a malformed journal record.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsIO returns true if err is a file access error.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsDate returns true if err came from resolving a date string.
func IsDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

// IsConfig returns true if err is a configuration error.
func IsConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrNoInput)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsFormat(err):
		return ExitFormat
	case IsDate(err):
		return ExitInvalidDate
	case IsIO(err):
		return ExitIO
	case IsConfig(err):
		return ExitInvalidConfig
	default:
		return ExitUnknown
	}
}

// ============================================================================
// Line errors
// ============================================================================

// LineError ties a record failure to its position in a journal segment.
type LineError struct {
	File string
	Line int // 1-based
	Text string
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("error parsing line at %d in file %s: %v", e.Line, e.File, e.Err)
}

// Unwrap returns the underlying record error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewIO marks err as an I/O failure on path.
func NewIO(op, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, path, ErrIO, err)
}

// NewInvalidDate creates an invalid date error for the given flag value.
func NewInvalidDate(value string, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidDate, value, reason)
}

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewInvalidValue creates an invalid value error.
func NewInvalidValue(field string, value interface{}, reason string) error {
	return fmt.Errorf("invalid %s '%v': %s: %w", field, value, reason, ErrInvalidConfig)
}

// ============================================================================
// Validation Errors Collection
// ============================================================================

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

// NewValidationErrors creates a new ValidationErrors collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add adds an error to the collection.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

// AddField adds a field validation error.
func (v *ValidationErrors) AddField(field, reason string) {
	v.Errors = append(v.Errors, NewValidation(field, reason))
}

// HasErrors returns true if there are any errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	msg := fmt.Sprintf("validation failed with %d errors:", len(v.Errors))
	for _, err := range v.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Err returns nil if no errors, otherwise returns the ValidationErrors.
func (v *ValidationErrors) Err() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v
}

// Unwrap returns the first error for errors.Is/As support.
func (v *ValidationErrors) Unwrap() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}
