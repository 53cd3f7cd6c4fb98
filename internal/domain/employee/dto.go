package employee

import (
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeFilter struct {
	ActiveOnly bool
	Role       *Role
}

type CreateEmployeeRequest struct {
	BusinessID   string           `json:"-"`
	UserID       *string          `json:"user_id,omitempty"`
	Name         string           `json:"name"`
	Email        *string          `json:"email,omitempty"`
	Role         string           `json:"role"`
	HourlyRate   decimal.Decimal  `json:"hourly_rate"`
	OvertimeRate *decimal.Decimal `json:"overtime_rate,omitempty"`
	StartDate    string           `json:"start_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs.Add("email", "email is not a valid address")
	}
	if !validator.IsInSlice(r.Role, RoleValues) {
		errs.Add("role", "role must be one of owner, manager, employee")
	}
	if r.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "hourly_rate must not be negative")
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs.Add("overtime_rate", "overtime_rate must not be negative")
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}

	return errs.Err()
}

type UpdateRateRequest struct {
	BusinessID   string           `json:"-"`
	EmployeeID   string           `json:"-"`
	HourlyRate   decimal.Decimal  `json:"hourly_rate"`
	OvertimeRate *decimal.Decimal `json:"overtime_rate"`
}

func (r *UpdateRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.HourlyRate.IsNegative() {
		errs.Add("hourly_rate", "hourly_rate must not be negative")
	}
	if r.OvertimeRate != nil && r.OvertimeRate.IsNegative() {
		errs.Add("overtime_rate", "overtime_rate must not be negative")
	}

	return errs.Err()
}

type EmployeeResponse struct {
	ID           string          `json:"id"`
	BusinessID   string          `json:"business_id"`
	UserID       *string         `json:"user_id,omitempty"`
	Name         string          `json:"name"`
	Email        *string         `json:"email,omitempty"`
	Role         Role            `json:"role"`
	HourlyRate   decimal.Decimal `json:"hourly_rate"`
	OvertimeRate decimal.Decimal `json:"overtime_rate"`
	StartDate    string          `json:"start_date"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
}
