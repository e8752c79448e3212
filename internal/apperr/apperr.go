// Package apperr defines the error kinds surfaced by the GoalRaiders API.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers that need to map it to a response.
type Kind string

const (
	Unauthenticated    Kind = "unauthenticated"
	InvalidArgument    Kind = "invalid_argument"
	NotFound           Kind = "not_found"
	PermissionDenied   Kind = "permission_denied"
	FailedPrecondition Kind = "failed_precondition"
	Internal           Kind = "internal"
)

// Error carries a kind and a human-readable message, optionally wrapping
// the underlying cause.
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

// New creates an error of the given kind.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind preserving the original cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or Internal for errors that carry none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
