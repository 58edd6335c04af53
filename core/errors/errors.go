// Package errors provides structured error handling compatible with the standard library.
//
// Overview:
//   - Responsibility: Define error codes and structured error wrapping for ember components
//   - Key Types: Code type for error classification, E struct for structured errors
//   - Concurrency Model: All functions are safe for concurrent use
//   - Error Semantics: Compatible with standard library error wrapping
//   - Performance Notes: Minimal allocations
//
// Usage:
//
//	err := errors.New(errors.CodeInvalidArgument, "binding target must be a struct pointer")
//	wrapped := errors.Wrap(errors.CodeFailedPrecondition, "bootx.run", originalErr)
//	code := errors.CodeOf(err)
package errors

import (
	"errors"
	"fmt"
)

// Code represents an error classification code.
type Code string

// Common error codes used across ember packages.
const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeAborted            Code = "ABORTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// E represents a structured error with code, operation, message, and underlying cause.
type E struct {
	Code Code   // Error classification code
	Op   string // Operation that failed (e.g., "configx.bind")
	Err  error  // Underlying error (may be nil)
	Msg  string // Human-readable message
}

// Error implements the error interface.
func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *E) Unwrap() error {
	return e.Err
}

// New creates a new structured error with the given code and message.
func New(code Code, msg string) error {
	return &E{
		Code: code,
		Msg:  msg,
	}
}

// Wrap creates a new structured error wrapping an existing error.
// The operation name helps identify where the error occurred.
func Wrap(code Code, op string, err error) error {
	return &E{
		Code: code,
		Op:   op,
		Err:  err,
	}
}

// Wrapf creates a new structured error wrapping an existing error with a formatted message.
func Wrapf(code Code, op string, err error, format string, args ...any) error {
	return &E{
		Code: code,
		Op:   op,
		Err:  err,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// CodeOf extracts the error code from an error.
// Returns the empty string if the error carries no code.
func CodeOf(err error) Code {
	var e *E
	if err != nil && errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode checks whether an error carries a specific code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// Is reports whether any error in err's chain matches target.
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
