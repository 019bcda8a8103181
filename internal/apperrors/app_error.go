package apperrors

import (
	"errors"
	"fmt"
)

// AppError wraps a lower-level error with an application status code and a
// human-readable message. Repositories use it to surface store failures
// without leaking driver details to the service layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, apperrors.ErrNotFound) etc. to match wrapped sentinels.
func (e *AppError) Is(target error) bool {
	switch e.Code {
	case 404:
		return target == ErrNotFound
	case 400:
		return target == ErrValidation
	case 409:
		return target == ErrConflict
	}
	return errors.Is(e.Err, target)
}

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError for a missing resource.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
