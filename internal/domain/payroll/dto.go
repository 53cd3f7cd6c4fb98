package payroll

import (
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EntryFilter struct {
	PeriodID   *string
	EmployeeID *string
	Status     *EntryStatus
}

// ========== PERIOD DTOs ==========

type PeriodResponse struct {
	ID        string       `json:"id"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Status    PeriodStatus `json:"status"`
}

type AdvanceResult struct {
	Created   int      `json:"created"`
	Started   int      `json:"started"`
	Completed int      `json:"completed"`
	Closed    []string `json:"closed_period_ids,omitempty"`
}

// ========== ENTRY DTOs ==========

type AdvanceEntryRequest struct {
	BusinessID string `json:"-"`
	EntryID    string `json:"-"`
	Status     string `json:"status"`
}

func (r *AdvanceEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EntryID) {
		errs.Add("entry_id", "entry_id is required")
	}
	if r.Status != string(EntryStatusApproved) && r.Status != string(EntryStatusPaid) {
		errs.Add("status", "status must be 'approved' or 'paid'")
	}

	return errs.Err()
}

type EntryResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	PayrollPeriodID string          `json:"payroll_period_id"`
	RegularHours    decimal.Decimal `json:"regular_hours"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	HourlyRate      decimal.Decimal `json:"hourly_rate"`
	OvertimeRate    decimal.Decimal `json:"overtime_rate"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	Deductions      decimal.Decimal `json:"deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	Status          EntryStatus     `json:"status"`
}

type SummaryResponse struct {
	EntryCount    int             `json:"entry_count"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	TotalNet      decimal.Decimal `json:"total_net"`
	DraftCount    int             `json:"draft_count"`
	ApprovedCount int             `json:"approved_count"`
	PaidCount     int             `json:"paid_count"`
}
