// Package apperr defines the typed error carried through the request path.
//
// An Error knows the HTTP status it should be rendered with and whether it is
// operational (expected, safe to show the client) or a crash.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Kind classifies an Error.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindTimeout      Kind = "timeout"
	KindRateLimited  Kind = "rate_limited"
	KindBadGateway   Kind = "bad_gateway"
	KindInternal     Kind = "internal"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusRequestTimeout
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with an HTTP status.
type Error struct {
	Kind        Kind
	Message     string
	StatusCode  int
	Operational bool
	Err         error

	pcs []uintptr
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Stack renders the call stack captured when the error was created.
func (e *Error) Stack() string {
	if len(e.pcs) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.pcs)
	for {
		f, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return b.String()
}

func newError(kind Kind, msg string, cause error, operational bool) *Error {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	return &Error{
		Kind:        kind,
		Message:     msg,
		StatusCode:  kind.Status(),
		Operational: operational,
		Err:         cause,
		pcs:         pcs[:n],
	}
}

// New returns an operational error of the given kind.
func New(kind Kind, msg string) *Error {
	return newError(kind, msg, nil, true)
}

// Wrap returns an operational error of the given kind wrapping cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return newError(kind, msg, cause, true)
}

// Validation returns a 400 error.
func Validation(msg string) *Error {
	return newError(KindValidation, msg, nil, true)
}

// Validationf returns a 400 error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return newError(KindValidation, fmt.Sprintf(format, args...), nil, true)
}

// NotFound returns a 404 error.
func NotFound(msg string) *Error {
	return newError(KindNotFound, msg, nil, true)
}

// RateLimited returns a 429 error.
func RateLimited(msg string) *Error {
	return newError(KindRateLimited, msg, nil, true)
}

// Internal returns a non-operational 500 error wrapping cause.
func Internal(msg string, cause error) *Error {
	return newError(KindInternal, msg, cause, false)
}

// From converts any error into an *Error. Errors that are not already
// application errors become non-operational internal errors.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return newError(KindInternal, "internal server error", err, false)
}

// StatusOf returns the HTTP status an error should be rendered with.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return From(err).StatusCode
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
