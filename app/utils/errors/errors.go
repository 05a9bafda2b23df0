package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the machine-readable error kind carried by every failure envelope
type Kind string

const (
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindTooMany      Kind = "too_many_requests"
	KindInternal     Kind = "internal"
)

// AppError is an application error with its external envelope. CurrentTag is
// populated only on concurrency conflicts so the caller can reconcile.
type AppError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	CurrentTag string `json:"current_etag,omitempty"`
	StatusCode int    `json:"-"`
	Cause      error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches a cause to the error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithCurrentTag attaches the entity's current tag to a conflict error
func (e *AppError) WithCurrentTag(tag string) *AppError {
	e.CurrentTag = tag
	return e
}

// New creates a new AppError
func New(kind Kind, message string) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		StatusCode: httpStatus(kind),
	}
}

// Newf creates a new AppError with a formatted message
func Newf(kind Kind, format string, args ...interface{}) *AppError {
	return New(kind, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError
func Wrap(kind Kind, message string, cause error) *AppError {
	return &AppError{
		Kind:       kind,
		Message:    message,
		StatusCode: httpStatus(kind),
		Cause:      cause,
	}
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus returns the HTTP status code an error should map to
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func httpStatus(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooMany:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors covering the core taxonomy. Messages are deliberately
// generic: no response leaks whether a probed tenant or user exists.
var (
	ErrMissingTenant    = New(KindBadRequest, "tenant is required")
	ErrUnknownTenant    = New(KindNotFound, "tenant not found")
	ErrTenantMismatch   = New(KindForbidden, "not entitled to this tenant")
	ErrUnauthenticated  = New(KindUnauthorized, "authentication required")
	ErrInsufficientRole = New(KindForbidden, "forbidden")
	ErrCSRF             = New(KindForbidden, "CSRF token validation failed")
	ErrResetToken       = New(KindBadRequest, "invalid or expired reset token")
	ErrInternal         = New(KindInternal, "internal server error")
	ErrRateLimited      = New(KindTooMany, "rate limit exceeded")
)

// NewPreconditionMissing builds the 400 for a mutation without If-Match
func NewPreconditionMissing() *AppError {
	return New(KindBadRequest, "precondition required: supply the last observed entity tag")
}

// NewConflict builds the 409 for a stale precondition, carrying the current tag
func NewConflict(currentTag string) *AppError {
	return New(KindConflict, "entity changed since last read").WithCurrentTag(currentTag)
}

// NewNotFound builds a 404 for a named resource
func NewNotFound(resource string) *AppError {
	return Newf(KindNotFound, "%s not found", resource)
}

// NewInternal wraps an invariant violation; the cause is for logs only
func NewInternal(cause error) *AppError {
	return Wrap(KindInternal, "internal server error", cause)
}
