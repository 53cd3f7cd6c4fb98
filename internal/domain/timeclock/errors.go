package timeclock

import "github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"

var (
	ErrAlreadyClockedIn = apperror.New(apperror.CodeStateConflict, "employee is already clocked in")
	ErrNotClockedIn     = apperror.New(apperror.CodeStateConflict, "employee is not clocked in")
	ErrSessionNotFound  = apperror.New(apperror.CodeNotFound, "work session not found")
	ErrSessionNotOwned  = apperror.New(apperror.CodeForbidden, "work session belongs to another employee")
)
