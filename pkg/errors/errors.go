// Package errors provides structured error types for graphorder.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: malformed or inconsistent input
//   - TRUNCATED_*: input ended before the declared amount of data
//   - INTERNAL_*: invariant violations inside the partitioner or assembler
//   - RESOURCE_*: limits exceeded while loading or computing
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "arc target %d out of range", target)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // Handle load failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTruncatedInput, readErr, "reading offsets of %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors (load failures, surfaced before any partitioning)
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidGraph   Code = "INVALID_GRAPH"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeTruncatedInput Code = "TRUNCATED_INPUT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors (correctness bugs, never recovered)
	ErrCodeInternal Code = "INTERNAL_ERROR"

	// Resource limits
	ErrCodeResourceExhausted Code = "RESOURCE_EXHAUSTED"

	// Unsupported operations or formats
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// IsLoadError reports whether err describes malformed or truncated graph
// input. Load errors abort before any partitioning begins.
func IsLoadError(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidGraph, ErrCodeInvalidFormat, ErrCodeTruncatedInput:
		return true
	}
	return false
}

// IsInternal reports whether err is an invariant violation inside the
// partitioner or assembler. Internal errors indicate a correctness bug,
// not a runtime condition to recover from.
func IsInternal(err error) bool {
	return GetCode(err) == ErrCodeInternal
}
