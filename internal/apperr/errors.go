// Package apperr defines sentinel errors shared across the application.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrOutsideRoot   = errors.New("path outside managed root")
	ErrWrongNodeType = errors.New("wrong node type")
)

// ValidationError is a recoverable, user-facing validation failure
// (bad name, illegal nesting, duplicate name). It is reported back to the
// caller as a structured reason and never used for control flow elsewhere.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Invalid creates a ValidationError with the given reason.
func Invalid(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
