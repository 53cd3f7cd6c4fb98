package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusUpcoming  PeriodStatus = "upcoming"
	PeriodStatusCurrent   PeriodStatus = "current"
	PeriodStatusCompleted PeriodStatus = "completed"
)

// PayrollPeriod - fixed-length pay period. StartDate and EndDate are inclusive calendar dates.
type PayrollPeriod struct {
	ID         string
	BusinessID string
	StartDate  time.Time
	EndDate    time.Time
	Status     PeriodStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contains reports whether day falls inside the period (date comparison only).
func (p PayrollPeriod) Contains(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(p.StartDate.Year(), p.StartDate.Month(), p.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.EndDate.Year(), p.EndDate.Month(), p.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(start) && !d.After(end)
}

// EntryStatus enum
type EntryStatus string

const (
	EntryStatusDraft    EntryStatus = "draft"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusPaid     EntryStatus = "paid"
)

var EntryStatusValues = []string{
	string(EntryStatusDraft),
	string(EntryStatusApproved),
	string(EntryStatusPaid),
}

// Next returns the status that follows s. Paid is terminal.
func (s EntryStatus) Next() (EntryStatus, bool) {
	switch s {
	case EntryStatusDraft:
		return EntryStatusApproved, true
	case EntryStatusApproved:
		return EntryStatusPaid, true
	}
	return "", false
}

// PayrollEntry - one employee's pay for one period.
// GrossPay = RegularHours*HourlyRate + OvertimeHours*OvertimeRate, NetPay = GrossPay - Deductions.
type PayrollEntry struct {
	ID              string
	BusinessID      string
	EmployeeID      string
	PayrollPeriodID string
	RegularHours    decimal.Decimal
	OvertimeHours   decimal.Decimal
	HourlyRate      decimal.Decimal
	OvertimeRate    decimal.Decimal
	GrossPay        decimal.Decimal
	Deductions      decimal.Decimal
	NetPay          decimal.Decimal
	Status          EntryStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployeeName *string
}
