package timeoff

import "github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"

var (
	ErrRequestNotFound   = apperror.New(apperror.CodeNotFound, "time-off request not found")
	ErrInvalidTransition = apperror.New(apperror.CodeStateConflict, "time-off request is not pending")
	ErrInvalidDecision   = apperror.New(apperror.CodeValidation, "decision must be approved or denied")
	ErrSelfApproval      = apperror.New(apperror.CodeForbidden, "cannot resolve your own time-off request")
)
