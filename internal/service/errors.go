package service

import "errors"

// ErrEmailTaken is returned when a registration email is already in use,
// whether caught by the pre-check or by the database uniqueness constraint.
var ErrEmailTaken = errors.New("email already registered")

// ValidationError marks caller-fixable input problems. Handlers return
// these as 400 with the message verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
