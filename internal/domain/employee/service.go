package employee

import "context"

type EmployeeService interface {
	List(ctx context.Context, businessID string, filter EmployeeFilter) ([]EmployeeResponse, error)
	Get(ctx context.Context, businessID string, id string) (EmployeeResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateRate sets the hourly rate; a nil overtime rate falls back to the default multiplier.
	UpdateRate(ctx context.Context, req UpdateRateRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, businessID string, id string) error
}
