// Package apperror defines the application's error taxonomy.
//
// Services return these domain errors; the handler layer translates them
// into user-visible flash notices. Neither side ever compares error strings —
// always errors.Is against the sentinels, which works through any number of
// fmt.Errorf("%w") wraps.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per failure category.
var (
	ErrValidation   = errors.New("validation failed")  // missing/invalid required field
	ErrConflict     = errors.New("conflict")           // duplicate email
	ErrUnauthorized = errors.New("unauthorized")       // bad credentials / no session
	ErrForbidden    = errors.New("forbidden")          // caller lacks permission for the target
	ErrNotFound     = errors.New("not found")          // referenced id absent
)

// AppError pairs a sentinel with a human-readable message suitable for
// showing directly to the user in a flash notice.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // shown to the user verbatim
	Field   string // optional: the form field at fault
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is walk through to the sentinel.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports a bad or missing form field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

// Conflict reports a uniqueness violation (in practice: duplicate email).
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}

// Unauthorized reports failed authentication. The message is deliberately
// the same for "no such email" and "wrong password" so the login form can't
// be used to probe which addresses are registered.
func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Forbidden reports that the caller is authenticated but not allowed to act
// on the target entity.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// NotFound reports an absent entity by resource name and id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}
