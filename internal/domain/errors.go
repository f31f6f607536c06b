package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrKindValidation      ErrorKind = "VALIDATION"
	ErrKindConfiguration   ErrorKind = "CONFIGURATION"
	ErrKindPersistence     ErrorKind = "PERSISTENCE"
	ErrKindForbidden       ErrorKind = "FORBIDDEN"
	ErrKindNotFound        ErrorKind = "NOT_FOUND"
	ErrKindConflict        ErrorKind = "CONFLICT"
	ErrKindUnauthenticated ErrorKind = "UNAUTHENTICATED"
)

// Error is the user-facing failure returned at the workflow boundary.
// Message is a single line suitable for display; Err keeps the cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: ErrKindValidation, Message: fmt.Sprintf(format, args...)}
}

func NewConfigurationError(msg string) *Error {
	return &Error{Kind: ErrKindConfiguration, Message: msg}
}

// NewPersistenceError appends the storage message to what for diagnosability.
func NewPersistenceError(what string, err error) *Error {
	msg := what
	if err != nil {
		msg = fmt.Sprintf("%s: %s", what, RootCause(err).Error())
	}
	return &Error{Kind: ErrKindPersistence, Message: msg, Err: err}
}

func NewForbiddenError(msg string) *Error {
	return &Error{Kind: ErrKindForbidden, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: ErrKindNotFound, Message: msg}
}

func NewConflictError(msg string, err error) *Error {
	return &Error{Kind: ErrKindConflict, Message: msg, Err: err}
}

func NewUnauthenticatedError(msg string) *Error {
	return &Error{Kind: ErrKindUnauthenticated, Message: msg}
}

// KindOf reports the kind of err, defaulting to persistence for foreign errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrKindPersistence
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

// RootCause unwraps err down to the innermost error.
func RootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
