// Package errors provides structured error types for the depviz application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and HTTP surface
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Each code maps to one failure category of a build:
//   - INVALID_CONFIG: build parameters are missing or invalid
//   - DEPENDENCY_LOOKUP: a source could not resolve one package's dependencies
//   - GRAPH_FORMAT: an adjacency file is structurally invalid
//   - EXPORT_ERROR: exported graph text could not be written or rendered
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "package name must not be empty")
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLookup, origErr, "fetch %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure categories of a build.
const (
	// ErrCodeConfig marks invalid or missing build parameters.
	ErrCodeConfig Code = "INVALID_CONFIG"

	// ErrCodeLookup marks a failed dependency lookup for a single package:
	// missing manifest, network/HTTP failure, malformed response.
	ErrCodeLookup Code = "DEPENDENCY_LOOKUP"

	// ErrCodeGraphFormat marks a structurally invalid adjacency file.
	// Unlike lookup failures, this aborts the whole build.
	ErrCodeGraphFormat Code = "GRAPH_FORMAT"

	// ErrCodeExport marks a failure writing or rendering exported graph text.
	ErrCodeExport Code = "EXPORT_ERROR"
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
