package timeoff

import (
	"context"
	"time"
)

// TimeOffRepository is the time-off slice of the HR data service.
type TimeOffRepository interface {
	ListTimeOffRequests(ctx context.Context, businessID string, filter RequestFilter) ([]TimeOffRequest, error)
	GetTimeOffRequest(ctx context.Context, businessID string, id string) (TimeOffRequest, error)
	CreateTimeOffRequest(ctx context.Context, request TimeOffRequest) (TimeOffRequest, error)

	// ResolveTimeOffRequest applies decision to a pending request and fails with
	// ErrInvalidTransition when the stored status is no longer pending.
	ResolveTimeOffRequest(ctx context.Context, businessID string, id string, decision Decision, approverID string, at time.Time) (TimeOffRequest, error)
}
