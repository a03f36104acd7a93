// Package errors holds the error definitions shared across equalizer.
//
// This file provides:
// - Process exit codes
// - Sentinel errors for all error conditions
// - Error category checking functions
// - ExitCode mapping
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
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInputFormat = 3
	ExitValidation  = 4
	ExitAggregation = 5
	ExitIO          = 6
)

// ExitName returns a human-readable name for an exit code.
func ExitName(code int) string {
	switch code {
	case ExitOK:
		return "OK"
	case ExitFailure:
		return "Failure"
	case ExitUsage:
		return "Usage"
	case ExitInputFormat:
		return "InputFormat"
	case ExitValidation:
		return "Validation"
	case ExitAggregation:
		return "Aggregation"
	case ExitIO:
		return "IO"
	default:
		return fmt.Sprintf("Exit(%d)", code)
	}
}

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Document errors
	ErrInputFormat = errors.New("invalid input format")
	ErrIO          = errors.New("i/o failure")

	// Series validation errors
	ErrInsufficientData   = errors.New("insufficient data: at least 2 samples required")
	ErrDuplicateTimestamp = errors.New("duplicate timestamp")
	ErrUnsortedInput      = errors.New("samples not in ascending timestamp order")

	// Bucket errors
	ErrIncompleteBucket   = errors.New("incomplete bucket")
	ErrBucketOverflow     = errors.New("bucket coverage exceeds bucket width")
	ErrNonPositiveElapsed = errors.New("non-positive elapsed time between samples")
	ErrSyntheticLimit     = errors.New("synthetic sample limit exceeded")
	ErrNonFiniteMean      = errors.New("bucket mean is not finite")

	// Configuration errors
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrInvalidBucketWidth = errors.New("invalid bucket width")
	ErrMissingField       = errors.New("missing required field")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// New is a convenience wrapper for errors.New
var New = errors.New

// Join is a convenience wrapper for errors.Join
var Join = errors.Join

// IsValidation returns true if err rejects a series before aggregation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDuplicateTimestamp) ||
		errors.Is(err, ErrUnsortedInput)
}

// IsFatalBucket returns true if err aborted aggregation mid-run.
func IsFatalBucket(err error) bool {
	return errors.Is(err, ErrBucketOverflow) ||
		errors.Is(err, ErrNonPositiveElapsed) ||
		errors.Is(err, ErrSyntheticLimit) ||
		errors.Is(err, ErrNonFiniteMean)
}

// IsConfig returns true if err is a configuration error.
func IsConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidBucketWidth) ||
		errors.Is(err, ErrMissingField)
}

// ============================================================================
// Error to exit code mapping
// ============================================================================

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	switch {
	case IsConfig(err):
		return ExitUsage
	case Is(err, ErrInputFormat):
		return ExitInputFormat
	case IsValidation(err):
		return ExitValidation
	case IsFatalBucket(err):
		return ExitAggregation
	case Is(err, ErrIO):
		return ExitIO
	default:
		return ExitFailure
	}
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

// ============================================================================
// Error constructors with context
// ============================================================================

// NewInputFormat creates an input format error for a document location.
func NewInputFormat(location, reason string) error {
	return fmt.Errorf("%s: %s: %w", location, reason, ErrInputFormat)
}

// NewIO creates an I/O error naming the offending path.
func NewIO(op, path string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", op, path, ErrIO, err)
}

// NewValidation creates a configuration validation error.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
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

// AddMissing adds a missing field error.
func (v *ValidationErrors) AddMissing(field string) {
	v.Errors = append(v.Errors, NewMissingField(field))
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

// Unwrap returns the collected errors for errors.Is/As support.
func (v *ValidationErrors) Unwrap() []error {
	return v.Errors
}
