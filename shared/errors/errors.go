// Package errors defines the error taxonomy shared by services and handlers.
// Services return *Error values; the handler boundary maps Kind to an HTTP
// status. Any other error reaching the boundary is treated as Internal.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindConflict
	KindInvalidCode
	KindExpired
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindInvalidCode:
		return "invalid_code"
	case KindExpired:
		return "expired"
	case KindValidation:
		return "validation_error"
	default:
		return "internal"
	}
}

// StatusCode returns the HTTP status used for a kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindInvalidCode, KindExpired, KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Details string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindForbidden, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return New(KindUnauthorized, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

func InvalidCode(format string, args ...any) *Error {
	return New(KindInvalidCode, format, args...)
}

func Expired(format string, args ...any) *Error {
	return New(KindExpired, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// Internal wraps an unexpected failure; cause text goes to Details.
func Internal(message string, cause error) *Error {
	e := &Error{Kind: KindInternal, Message: message}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// KindOf returns the kind of the first *Error in err's chain, KindInternal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}

func IsForbidden(err error) bool {
	return err != nil && KindOf(err) == KindForbidden
}
