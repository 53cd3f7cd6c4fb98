package schedule

import "github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"

var (
	ErrScheduleNotFound  = apperror.New(apperror.CodeNotFound, "schedule not found")
	ErrInvalidTransition = apperror.New(apperror.CodeStateConflict, "schedule status cannot change from its current status")
	ErrScheduleNotOwned  = apperror.New(apperror.CodeForbidden, "schedule belongs to another employee")
	ErrBreakTooLong      = apperror.New(apperror.CodeValidation, "break must be shorter than the shift")
)
