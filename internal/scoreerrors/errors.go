// Package scoreerrors defines the error taxonomy shared by the points and store
// packages. It lives apart from both to avoid circular imports.
package scoreerrors

import "errors"

// Code classifies an error.
type Code string

const (
	// CodeCalculation marks invalid match input. Always surfaced to the caller.
	CodeCalculation Code = "CALCULATION_ERROR"
	// CodeStorage marks a persistence backend failure.
	CodeStorage Code = "STORAGE_ERROR"
	// CodeValidation marks malformed or out-of-bounds persisted data.
	CodeValidation Code = "VALIDATION_ERROR"
)

// Sentinels for errors.Is.
var (
	ErrCalculation = &Error{Code: CodeCalculation}
	ErrStorage     = &Error{Code: CodeStorage}
	ErrValidation  = &Error{Code: CodeValidation}
)

// Error carries a code alongside a human-readable message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Calculation returns a CALCULATION_ERROR.
func Calculation(msg string) error {
	return &Error{Code: CodeCalculation, Message: msg}
}

// Storage returns a STORAGE_ERROR wrapping err.
func Storage(msg string, err error) error {
	return &Error{Code: CodeStorage, Message: msg, Err: err}
}

// Validation returns a VALIDATION_ERROR.
func Validation(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

// CodeOf reports the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
