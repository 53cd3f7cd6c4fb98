// Package hrdata defines the HR data service contract shared by the in-memory mock
// and the PostgreSQL backend. The composition root chooses one implementation.
package hrdata

import (
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
)

// Service is every data call the HR core makes. Calls are independent; there is no
// transactional guarantee across calls.
type Service interface {
	employee.EmployeeRepository
	schedule.ScheduleRepository
	timeclock.WorkSessionRepository
	timeoff.TimeOffRepository
	payroll.PayrollRepository
}
