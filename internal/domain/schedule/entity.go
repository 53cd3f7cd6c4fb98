package schedule

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
	StatusCancelled Status = "cancelled"
)

var StatusValues = []string{
	string(StatusScheduled),
	string(StatusCompleted),
	string(StatusMissed),
	string(StatusCancelled),
}

// CanTransition reports whether a shift may move from s to next.
// Only scheduled shifts change status; every other status is terminal.
func (s Status) CanTransition(next Status) bool {
	if s != StatusScheduled {
		return false
	}
	switch next {
	case StatusCompleted, StatusMissed, StatusCancelled:
		return true
	}
	return false
}

// Schedule is one planned shift. StartTime and EndTime are "HH:MM" on Date.
type Schedule struct {
	ID            string
	BusinessID    string
	EmployeeID    string
	Date          time.Time
	StartTime     string
	EndTime       string
	BreakDuration int // minutes
	Status        Status
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
