package timeclock

import "context"

// WorkSessionRepository is the time-clock slice of the HR data service.
type WorkSessionRepository interface {
	ListWorkSessions(ctx context.Context, businessID string, filter SessionFilter) ([]WorkSession, error)
	GetWorkSession(ctx context.Context, businessID string, id string) (WorkSession, error)

	// GetOpenWorkSession returns nil, nil when the employee has no open session.
	GetOpenWorkSession(ctx context.Context, businessID string, employeeID string) (*WorkSession, error)

	// ClockIn stores a new open session and fails with ErrAlreadyClockedIn if one exists.
	ClockIn(ctx context.Context, session WorkSession) (WorkSession, error)

	// ClockOut closes an open session and fails with ErrNotClockedIn if it is already closed.
	ClockOut(ctx context.Context, update ClockOutUpdate) (WorkSession, error)
}
