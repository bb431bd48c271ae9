// Package errors defines the application error type and the errors returned over HTTP.
package errors

import (
	stderrors "errors"
	"net/http"
)

const (
	CodeInternal           = "internal_error"
	CodeNotFound           = "not_found"
	CodeServiceUnavailable = "service_unavailable"
)

// AppError is an error that knows how it is rendered to an HTTP client.
type AppError struct {
	Code        string
	Status      int
	Description string
	cause       error
}

// New creates an AppError.
func New(code string, status int, description string) *AppError {
	return &AppError{Code: code, Status: status, Description: description}
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Code + ": " + e.cause.Error()
	}
	return e.Code + ": " + e.Description
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause returns a copy of e wrapping cause. Package-level errors stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.cause = cause
	return &cp
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

var (
	ErrNotFound           = New(CodeNotFound, http.StatusNotFound, "The requested resource was not found")
	ErrInternal           = New(CodeInternal, http.StatusInternalServerError, "An internal error occurred")
	ErrServiceUnavailable = New(CodeServiceUnavailable, http.StatusServiceUnavailable, "The service is not ready")
)

// AsAppError extracts an AppError from err's chain, falling back to ErrInternal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithCause(err)
}
