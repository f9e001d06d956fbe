// Package apperr defines the error kinds shared across the service layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrCorrupt            = errors.New("corrupt document")
	ErrValidation         = errors.New("validation failed")
	ErrMissingToken       = errors.New("no token provided")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Error pairs an error kind with a message that is safe to show to callers.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an *Error of the given kind.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Invalid returns a validation error with a caller-facing message.
func Invalid(format string, args ...any) error {
	return New(ErrValidation, format, args...)
}

// NotFound returns a not-found error with a caller-facing message.
func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

// Message returns the caller-facing message of err when it carries one.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg, true
	}
	return "", false
}
