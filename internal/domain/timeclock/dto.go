package timeclock

import (
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

type SessionFilter struct {
	EmployeeID *string
	From       *time.Time // clock-in at or after
	To         *time.Time // clock-in before
}

type ClockInRequest struct {
	BusinessID string  `json:"-"`
	EmployeeID string  `json:"employee_id"`
	ScheduleID *string `json:"schedule_id,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BusinessID) {
		errs.Add("business_id", "business_id is required")
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.ScheduleID != nil && !validator.IsValidUUID(*r.ScheduleID) {
		errs.Add("schedule_id", "schedule_id must be a valid id")
	}

	return errs.Err()
}

// ClockOutRequest closes SessionID, or the employee's open session when SessionID is empty.
type ClockOutRequest struct {
	BusinessID   string `json:"-"`
	EmployeeID   string `json:"employee_id"`
	SessionID    string `json:"session_id,omitempty"`
	BreakMinutes *int   `json:"break_minutes,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BusinessID) {
		errs.Add("business_id", "business_id is required")
	}
	if validator.IsEmpty(r.EmployeeID) && validator.IsEmpty(r.SessionID) {
		errs.Add("session_id", "session_id or employee_id is required")
	} else if r.SessionID != "" && !validator.IsValidUUID(r.SessionID) {
		errs.Add("session_id", "session_id must be a valid id")
	}
	if r.BreakMinutes != nil && *r.BreakMinutes < 0 {
		errs.Add("break_minutes", "break_minutes must not be negative")
	}

	return errs.Err()
}

type SessionResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	ScheduleID     *string    `json:"schedule_id,omitempty"`
	ClockInTime    time.Time  `json:"clock_in_time"`
	ClockOutTime   *time.Time `json:"clock_out_time,omitempty"`
	BreakDuration  int        `json:"break_duration"`
	TotalHours     float64    `json:"total_hours"`
	IsActive       bool       `json:"is_active"`
	ElapsedSeconds int64      `json:"elapsed_seconds,omitempty"`
}
