// Package errors provides structured error types for stacklayout.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the resolver, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - Configuration errors: the resolver was set up without something it
//     needs (viewport, a known style, a valid display mode)
//   - Input errors: the node sequence itself is malformed
//   - Everything else: I/O, unsupported formats, internal failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeViewportUnset, "node %q needs a viewport", name)
//	if errors.Is(err, errors.ErrCodeViewportUnset) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "decode %s", path)
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
	ErrCodeViewportUnset  Code = "VIEWPORT_UNSET"
	ErrCodeInvalidDisplay Code = "INVALID_DISPLAY"
	ErrCodeInvalidStyle   Code = "INVALID_STYLE"

	// Input errors
	ErrCodeInvalidInput           Code = "INVALID_INPUT"
	ErrCodeInvalidNode            Code = "INVALID_NODE"
	ErrCodeInvalidFormat          Code = "INVALID_FORMAT"
	ErrCodeInvalidFlexRole        Code = "INVALID_FLEX_ROLE"
	ErrCodeFlexFixedDimensions    Code = "FLEX_FIXED_DIMENSIONS"
	ErrCodeUnresolvedParent       Code = "UNRESOLVED_PARENT"
	ErrCodeUnrecognizedExpression Code = "UNRECOGNIZED_EXPRESSION"
	ErrCodeNoOpenContainer        Code = "NO_OPEN_CONTAINER"
	ErrCodeInvalidPath            Code = "INVALID_PATH"

	// Resource errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
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

// As is [errors.As], re-exported so callers need only this package.
func As(err error, target any) bool {
	return errors.As(err, target)
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

// GetCodeOr is like GetCode but returns fallback for errors without a code.
func GetCodeOr(err error, fallback Code) Code {
	if code := GetCode(err); code != "" {
		return code
	}
	return fallback
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

// IsConfiguration reports whether err stems from resolver setup rather than
// from the node sequence.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeViewportUnset, ErrCodeInvalidDisplay, ErrCodeInvalidStyle:
		return true
	}
	return false
}
