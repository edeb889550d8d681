// Package errors provides structured error types for voronoisvg.
//
// Errors carry a machine-readable Code so the CLI can tell configuration
// problems (reported before any output is written) apart from geometry
// failures (which abort a run that is already streaming) and from I/O.
//
// # Error Codes
//
//   - INVALID_*: configuration rejected before rendering starts
//   - IMAGE_UNAVAILABLE: the source image could not be opened or decoded
//   - GEOMETRY_INVARIANT / DEGENERATE_CELL: a cell could not be built
//   - OUTPUT_FAILED: the output sink refused a write
//   - INTERNAL_ERROR: anything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "x-cells must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // report and exit before writing output
//	}
//
//	err := errors.Wrap(errors.ErrCodeImageUnavailable, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidMode   Code = "INVALID_MODE"

	// Collaborator errors
	ErrCodeImageUnavailable Code = "IMAGE_UNAVAILABLE"
	ErrCodeOutput           Code = "OUTPUT_FAILED"

	// Geometry errors
	ErrCodeGeometryInvariant Code = "GEOMETRY_INVARIANT"
	ErrCodeDegenerateCell    Code = "DEGENERATE_CELL"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// IsConfig reports whether err was raised while validating configuration,
// i.e. before any output could have been produced.
func IsConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidMode, ErrCodeImageUnavailable:
		return true
	}
	return false
}
