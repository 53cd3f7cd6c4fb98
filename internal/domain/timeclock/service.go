package timeclock

import "context"

type TimeClockService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (SessionResponse, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (SessionResponse, error)

	// ActiveSession returns the employee's open session started today, or nil.
	ActiveSession(ctx context.Context, businessID string, employeeID string) (*SessionResponse, error)
	ListSessions(ctx context.Context, businessID string, filter SessionFilter) ([]SessionResponse, error)
}
