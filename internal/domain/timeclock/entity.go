package timeclock

import "time"

// WorkSession is one clock-in/clock-out pair. A session with a nil ClockOutTime is open.
type WorkSession struct {
	ID            string
	BusinessID    string
	EmployeeID    string
	ScheduleID    *string
	ClockInTime   time.Time
	ClockOutTime  *time.Time
	BreakDuration int     // minutes
	TotalHours    float64 // set at clock-out only
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s WorkSession) IsOpen() bool {
	return s.ClockOutTime == nil
}

// ClockOutUpdate carries the values computed when a session is closed.
type ClockOutUpdate struct {
	BusinessID    string
	SessionID     string
	ClockOutTime  time.Time
	BreakDuration int
	TotalHours    float64
}
