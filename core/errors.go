package core

import "github.com/pkg/errors"

// FieldError describes a validation failure on a single payload field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports payload problems the validator tags cannot
// express (cross-field rules, empty partial updates). Fields, when set,
// carries per-field messages for the API error body.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals an unrecoverable dependency state; the server should
// stop taking traffic instead of failing every request.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s *shutdown) Error() string { return s.message }

// IsShutdown reports whether err was caused by a shutdown error.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
