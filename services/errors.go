package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrPrecondition    = errors.New("precondition failed")
	ErrConflict        = errors.New("conflict")
)

// Error carries a caller-facing message for one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func notFound(what string) error {
	return newError(ErrNotFound, "%s not found", what)
}

func forbidden() error {
	return newError(ErrForbidden, "not allowed to manage this store")
}

func preconditionFailed(format string, args ...any) error {
	return newError(ErrPrecondition, format, args...)
}

func conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// dbError turns a missing row into a not-found error and wraps everything else.
func dbError(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict("%s already exists", what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// Message returns the caller-facing text of err, or fallback for internal failures.
func Message(err error, fallback string) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return fallback
}
