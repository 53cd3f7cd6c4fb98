package schedule

import (
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

type ScheduleFilter struct {
	EmployeeID *string
	From       *time.Time // inclusive, by date
	To         *time.Time // inclusive, by date
	Status     *Status
}

type CreateScheduleRequest struct {
	BusinessID    string `json:"-"`
	CreatedBy     string `json:"-"`
	EmployeeID    string `json:"employee_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	BreakDuration int    `json:"break_duration"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !validator.IsValidClock(r.StartTime) {
		errs.Add("start_time", "start_time must be in HH:MM format")
	}
	if !validator.IsValidClock(r.EndTime) {
		errs.Add("end_time", "end_time must be in HH:MM format")
	}
	if r.BreakDuration < 0 {
		errs.Add("break_duration", "break_duration must not be negative")
	}

	return errs.Err()
}

type UpdateStatusRequest struct {
	BusinessID string `json:"-"`
	ScheduleID string `json:"-"`
	Status     string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ScheduleID) {
		errs.Add("schedule_id", "schedule_id is required")
	}
	if !validator.IsInSlice(r.Status, StatusValues) {
		errs.Add("status", "status must be one of scheduled, completed, missed, cancelled")
	}

	return errs.Err()
}

type WeeklyHoursRequest struct {
	BusinessID string
	EmployeeID string
	WeekStart  string // YYYY-MM-DD, empty means the current week
}

func (r *WeeklyHoursRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.WeekStart != "" {
		if _, ok := validator.IsValidDate(r.WeekStart); !ok {
			errs.Add("week_start", "week_start must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

type ScheduleResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	BreakDuration int     `json:"break_duration"`
	DurationHours float64 `json:"duration_hours"`
	Status        Status  `json:"status"`
	CreatedBy     string  `json:"created_by"`
}

type WeeklyHoursResponse struct {
	EmployeeID     string  `json:"employee_id"`
	WeekStart      string  `json:"week_start"`
	ScheduledHours float64 `json:"scheduled_hours"`
	WorkedHours    float64 `json:"worked_hours"`
	RemainingHours float64 `json:"remaining_hours"`
}
