package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeClockIn          NotificationType = "clock_in"
	TypeClockOut         NotificationType = "clock_out"
	TypeTimeOffRequested NotificationType = "time_off_requested"
	TypeTimeOffApproved  NotificationType = "time_off_approved"
	TypeTimeOffDenied    NotificationType = "time_off_denied"
	TypeScheduleCreated  NotificationType = "schedule_created"
	TypePayrollClosed    NotificationType = "payroll_closed"
)

// Event is a notification request. RecipientID is empty for business-wide events.
type Event struct {
	Type        NotificationType       `json:"type"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	Data        map[string]interface{} `json:"data,omitempty"`
	BusinessID  string                 `json:"business_id"`
	RecipientID string                 `json:"recipient_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
