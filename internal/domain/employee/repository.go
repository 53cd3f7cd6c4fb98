package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

// EmployeeRepository is the employee slice of the HR data service.
type EmployeeRepository interface {
	ListEmployees(ctx context.Context, businessID string, filter EmployeeFilter) ([]Employee, error)
	GetEmployee(ctx context.Context, businessID string, id string) (Employee, error)
	CreateEmployee(ctx context.Context, newEmployee Employee) (Employee, error)
	UpdateEmployeeRate(ctx context.Context, businessID string, id string, hourlyRate decimal.Decimal, overtimeRate decimal.Decimal) (Employee, error)
	SetEmployeeActive(ctx context.Context, businessID string, id string, active bool) error

	// ListBusinessIDs returns every business with at least one employee. Used by background jobs.
	ListBusinessIDs(ctx context.Context) ([]string, error)
}
