// Package apperr defines the error taxonomy shared by services and the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the request boundary.
type Kind string

const (
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindValidation         Kind = "validation_error"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindRetryableIngestion Kind = "retryable_ingestion"
	KindUnreadableDocument Kind = "unreadable_document"
	KindStructuring        Kind = "structuring_error"
	KindTailoring          Kind = "tailoring_error"
	KindUpstream           Kind = "upstream_error"
	KindConfiguration      Kind = "configuration_error"
	KindInternal           Kind = "internal"
)

// Error carries a Kind, a user-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message != "" {
			return e.Message + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Kind, so sentinels like ErrUnauthorized work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// New builds an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Bare kind sentinels for errors.Is checks.
var (
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrValidation         = &Error{Kind: KindValidation}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrConflict           = &Error{Kind: KindConflict}
	ErrRetryableIngestion = &Error{Kind: KindRetryableIngestion}
	ErrUnreadableDocument = &Error{Kind: KindUnreadableDocument}
	ErrStructuring        = &Error{Kind: KindStructuring}
	ErrTailoring          = &Error{Kind: KindTailoring}
	ErrUpstream           = &Error{Kind: KindUpstream}
	ErrConfiguration      = &Error{Kind: KindConfiguration}
)

// Validation is shorthand for a 400 error.
func Validation(message string) *Error { return New(KindValidation, message) }

// NotFound is shorthand for a 404 error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Configuration reports a missing secret or client.
func Configuration(message string) *Error { return New(KindConfiguration, message) }

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps a Kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation, KindUnreadableDocument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRetryableIngestion:
		return http.StatusPaymentRequired
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to a caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindConfiguration:
			return "service not configured"
		case KindInternal:
			return "internal error"
		}
		if e.Message != "" {
			return e.Message
		}
		return string(e.Kind)
	}
	return "internal error"
}
