package payroll

import "github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"

var (
	ErrPayrollPeriodNotFound  = apperror.New(apperror.CodeNotFound, "payroll period not found")
	ErrPayrollEntryNotFound   = apperror.New(apperror.CodeNotFound, "payroll entry not found")
	ErrPeriodNotCompleted     = apperror.New(apperror.CodeStateConflict, "payroll period is not completed")
	ErrPeriodAlreadyClosed    = apperror.New(apperror.CodeStateConflict, "payroll entries already exist for this period")
	ErrEntryStatusConflict    = apperror.New(apperror.CodeStateConflict, "payroll entry status changed concurrently")
	ErrEntryAlreadyPaid       = apperror.New(apperror.CodeStateConflict, "payroll entry already paid")
	ErrInvalidEntryTransition = apperror.New(apperror.CodeStateConflict, "payroll entry status can only advance draft -> approved -> paid")
	ErrInvalidPeriodConfig    = apperror.New(apperror.CodeValidation, "payroll period length must be positive")
)
