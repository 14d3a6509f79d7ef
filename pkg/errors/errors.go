// Package errors provides structured error types for the Basispoort client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure surfaced by the client carries exactly one code:
//   - INVALID_URL: URL composition or parsing failures
//   - TRANSPORT_ERROR: the request never produced an HTTP response
//   - ERROR_STATUS: the service answered with a non-success status
//   - DESERIALIZATION_ERROR: a success response did not match the expected shape
//   - IO_ERROR: local filesystem failures (certificates, icon files)
//   - UNKNOWN_ENVIRONMENT: an unrecognized environment token
//   - INVALID_INPUT: caller-supplied values that fail validation
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownEnvironment, "unknown environment: %s", token)
//	if errors.Is(err, errors.ErrCodeUnknownEnvironment) {
//	    // Handle unknown environment
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure categories of the client.
const (
	// URL composition errors
	ErrCodeInvalidURL Code = "INVALID_URL"

	// Request/response errors
	ErrCodeTransport       Code = "TRANSPORT_ERROR"
	ErrCodeErrorStatus     Code = "ERROR_STATUS"
	ErrCodeDeserialization Code = "DESERIALIZATION_ERROR"

	// Local errors
	ErrCodeIO                 Code = "IO_ERROR"
	ErrCodeUnknownEnvironment Code = "UNKNOWN_ENVIRONMENT"
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
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

// coder is implemented by rich error types that carry their own code.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error
// with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
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

// StatusError reports a response with a non-success HTTP status.
// Payload holds the decoded JSON error body when the service sent one;
// Raw always holds the body text verbatim.
type StatusError struct {
	Status  int    // HTTP status code
	URL     string // Request URL
	Payload any    // Decoded JSON error body, nil if the body was not JSON
	Raw     string // Raw response body
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Payload != nil {
		return fmt.Sprintf("%s %d: %v", e.URL, e.Status, e.Payload)
	}
	if e.Raw != "" {
		return fmt.Sprintf("%s %d: %s", e.URL, e.Status, e.Raw)
	}
	return fmt.Sprintf("%s %d", e.URL, e.Status)
}

// Code returns the error code for this error type.
func (e *StatusError) Code() Code {
	return ErrCodeErrorStatus
}

// DeserializationError reports a success response whose body did not
// match the expected shape. Status preserves the HTTP status so callers
// can distinguish "service said yes but sent garbage" from a plain
// error status.
type DeserializationError struct {
	Status  int    // HTTP status code of the response
	Snippet string // Leading bytes of the offending body
	Cause   error  // Decoder error
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("decoding response (status %d): %v: %q", e.Status, e.Cause, e.Snippet)
	}
	return fmt.Sprintf("decoding response (status %d): %v", e.Status, e.Cause)
}

// Unwrap returns the decoder error.
func (e *DeserializationError) Unwrap() error {
	return e.Cause
}

// Code returns the error code for this error type.
func (e *DeserializationError) Code() Code {
	return ErrCodeDeserialization
}
