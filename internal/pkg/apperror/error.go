package apperror

import (
	"errors"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

type Code string

const (
	CodeValidation    Code = "validation"
	CodeStateConflict Code = "state_conflict"
	CodeNotFound      Code = "not_found"
	CodeForbidden     Code = "forbidden"
	CodeTransport     Code = "transport"
	CodeInternal      Code = "internal"
)

// Error is a coded domain error. Sentinels are compared by identity with errors.Is.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Transport wraps a failed data-service call.
func Transport(message string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{
		Code:    CodeTransport,
		Message: message,
		Err:     err,
	}
}

func GetCode(err error) Code {
	if err == nil {
		return ""
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return CodeValidation
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

func IsStateConflict(err error) bool {
	return GetCode(err) == CodeStateConflict
}
