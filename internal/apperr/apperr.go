// Package apperr defines the sentinel errors shared between the service layer
// and the HTTP handlers. Repositories translate pgx errors into these before
// they cross a package boundary.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing or already-deactivated rows.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when a requester is not the contributor of the
	// segment they are trying to mutate.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateVote is returned when a user re-casts a vote with the same
	// type they already have on record. Nothing is mutated in this case.
	ErrDuplicateVote = errors.New("duplicate vote")

	// ErrUnauthorized covers missing or unresolvable credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUsernameTaken is returned on registration conflicts.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrBadCredentials is returned on login failures. Deliberately does not
	// distinguish unknown user from wrong password.
	ErrBadCredentials = errors.New("invalid username or password")
)

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Validation builds a ValidationError for a single field.
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
