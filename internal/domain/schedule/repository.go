package schedule

import (
	"context"
)

// ScheduleRepository is the schedule slice of the HR data service.
type ScheduleRepository interface {
	ListSchedules(ctx context.Context, businessID string, filter ScheduleFilter) ([]Schedule, error)
	GetSchedule(ctx context.Context, businessID string, id string) (Schedule, error)
	CreateSchedule(ctx context.Context, newSchedule Schedule) (Schedule, error)

	// UpdateScheduleStatus moves a schedule from -> to and fails with ErrInvalidTransition
	// when the stored status is no longer from.
	UpdateScheduleStatus(ctx context.Context, businessID string, id string, from Status, to Status) (Schedule, error)
}
