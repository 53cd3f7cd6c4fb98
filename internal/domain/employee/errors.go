package employee

import "github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"

var (
	ErrEmployeeNotFound        = apperror.New(apperror.CodeNotFound, "employee not found")
	ErrEmployeeInactive        = apperror.New(apperror.CodeStateConflict, "employee is inactive")
	ErrEmployeeAlreadyInactive = apperror.New(apperror.CodeStateConflict, "employee is already inactive")
	ErrNegativeRate            = apperror.New(apperror.CodeValidation, "rate must not be negative")
)
