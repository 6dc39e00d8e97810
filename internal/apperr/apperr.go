// Package apperr defines the application error taxonomy. Every check
// in the access-control chain, the subscription gate and the ownership
// policy returns a typed outcome from this package; the HTTP boundary
// maps each kind to a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	// KindUnauthenticated means identity was not established or is invalid.
	KindUnauthenticated Kind = "unauthenticated"
	// KindForbidden means identity was established but the operation is disallowed.
	KindForbidden Kind = "forbidden"
	// KindNotFound means the resource is absent or hidden by tenant
	// scoping. Cross-tenant resources are intentionally
	// indistinguishable from absent ones.
	KindNotFound Kind = "not_found"
	// KindInvalidRequest means malformed input or a self-referential
	// policy violation.
	KindInvalidRequest Kind = "invalid_request"
	// KindInternal means an unexpected failure, e.g. the store is
	// unavailable. Never retried here; retrying is the caller's call.
	KindInternal Kind = "internal"
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code bound to the error's kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Unauthenticated returns a KindUnauthenticated error.
func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

// Forbidden returns a KindForbidden error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// InvalidRequest returns a KindInvalidRequest error.
func InvalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind from err, or KindInternal when err is not
// an apperr.Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
