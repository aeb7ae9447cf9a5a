// Package apperrors defines the error taxonomy shared by the crawl and
// analysis pipeline (spec §7). Components classify failures into one of
// these kinds so the orchestrator can decide whether to retry, fall back,
// or surface a Failure to the caller.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the recognized error classes.
type Kind string

const (
	KindTimeout        Kind = "Timeout"
	KindRateLimited    Kind = "RateLimited"
	KindTransport      Kind = "Transport"
	KindProtectedSite  Kind = "ProtectedSite"
	KindInvalidResp    Kind = "InvalidResponse"
	KindProviderFatal  Kind = "ProviderFatal"
	KindDeadline       Kind = "Deadline"
	KindCancelled      Kind = "Cancelled"
	KindQuotaExceeded  Kind = "QuotaExceeded"
	KindNoContent      Kind = "NoContent"
)

// Error is a classified error carrying one of the Kind values above plus a
// human-readable message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds a classified error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a classified error around an existing cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// As reports whether err (or something it wraps) is an *Error and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, otherwise "".
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// Recoverable reports whether the error kind is eligible for retry per the
// per-phase recoverable-error lists in spec §4.5. ProviderFatal and
// Cancelled are never recoverable.
func Recoverable(kind Kind) bool {
	switch kind {
	case KindTimeout, KindTransport, KindRateLimited, KindInvalidResp:
		return true
	default:
		return false
	}
}
