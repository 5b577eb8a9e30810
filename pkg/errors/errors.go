// Package errors provides structured error types for the AutoCrate layout
// engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes mirror the engine's failure taxonomy: weight-rule rejection
// (OVERWEIGHT), geometric inputs that cannot fit the requested configuration
// (NARROW_WIDTH, INVALID_DIMENSION), unknown lumber references
// (INVALID_LUMBER_KEY, INVALID_CLEAT_SPEC), and internal invariant
// violations (SPAN_CONSERVATION) which indicate a logic defect and are never
// downgraded to warnings.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "product width must be positive, got %v", w)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "floorboard stage failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidCleatSpec Code = "INVALID_CLEAT_SPEC"
	ErrCodeInvalidLumberKey Code = "INVALID_LUMBER_KEY"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"

	// Rule-table rejections
	ErrCodeOverweight  Code = "OVERWEIGHT"
	ErrCodeNarrowWidth Code = "NARROW_WIDTH"

	// Internal invariant violations
	ErrCodeSpanConservation Code = "SPAN_CONSERVATION"
	ErrCodeInternal         Code = "INTERNAL_ERROR"

	// Resource errors (cache, parameter files)
	ErrCodeNotFound Code = "NOT_FOUND"
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
		return e.Message
	}
	return err.Error()
}
