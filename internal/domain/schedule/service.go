package schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	Create(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	List(ctx context.Context, businessID string, filter ScheduleFilter) ([]ScheduleResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (ScheduleResponse, error)
	WeeklyHours(ctx context.Context, req WeeklyHoursRequest) (WeeklyHoursResponse, error)

	// MarkMissed flags still-scheduled shifts dated before the given day as missed. Shifts with a
	// clocked-out session are completed instead, and shifts still clocked into are left alone.
	MarkMissed(ctx context.Context, businessID string, before time.Time) (int, error)
}
