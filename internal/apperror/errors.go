// Package apperror defines the error taxonomy surfaced to API callers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation reports field-keyed validation failures (HTTP 400).
func Validation(fields map[string]string) *Error {
	return &Error{
		Code:    http.StatusBadRequest,
		Message: "validation_failed",
		Fields:  fields,
	}
}

// BadRequest reports a malformed request (HTTP 400).
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message, nil)
}

// NotFound reports a missing resource (HTTP 404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Conflict reports a state conflict (HTTP 409).
func Conflict(message string, err error) *Error {
	return New(http.StatusConflict, message, err)
}

// Internal wraps a persistence or infrastructure failure (HTTP 500).
// The message is what callers see; err is logged, never returned to clients.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Status returns the HTTP status for err, 500 for unknown errors.
func Status(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
