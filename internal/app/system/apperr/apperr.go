// Package apperr defines the error kinds handlers translate into HTTP
// statuses. Stores keep returning their own sentinel errors; features wrap
// them here at the boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the client.
type Kind int

const (
	KindServer Kind = iota
	KindClient
	KindUnauthenticated
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindClient:
		return "BAD_REQUEST"
	case KindUnauthenticated:
		return "UNAUTHORIZED"
	case KindAuthorization:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Error is a classified error with a message that is safe to show.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, logged but not shown
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Client reports a missing or invalid field, enum value, or id.
func Client(msg string) *Error { return &Error{Kind: KindClient, Message: msg} }

// Clientf is Client with formatting.
func Clientf(format string, args ...any) *Error {
	return Client(fmt.Sprintf(format, args...))
}

// Unauthenticated reports a missing or invalid bearer token.
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }

// Forbidden reports an action the caller may not perform.
func Forbidden(msg string) *Error { return &Error{Kind: KindAuthorization, Message: msg} }

// NotFound reports a missing referenced entity.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict reports a uniqueness violation the client caused.
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Server wraps a storage or unexpected failure.
func Server(msg string, err error) *Error {
	return &Error{Kind: KindServer, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindServer for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

// Is reports whether err carries the given kind.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
