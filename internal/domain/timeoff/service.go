package timeoff

import "context"

type TimeOffService interface {
	Create(ctx context.Context, req CreateRequest) (RequestResponse, error)
	Get(ctx context.Context, businessID string, id string) (RequestResponse, error)
	List(ctx context.Context, businessID string, filter RequestFilter) (ListResponse, error)

	Approve(ctx context.Context, businessID string, requestID string, approverID string) (RequestResponse, error)
	Deny(ctx context.Context, businessID string, requestID string, approverID string) (RequestResponse, error)

	// BulkApprove approves each id independently; one failure never blocks the others.
	BulkApprove(ctx context.Context, req BulkApproveRequest) (BulkResult, error)
}
