package timeoff

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/notification"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

// maxBulkConcurrency bounds the number of approvals in flight during BulkApprove.
const maxBulkConcurrency = 8

type TimeOffServiceImpl struct {
	timeOffRepo  timeoff.TimeOffRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	logger       *slog.Logger
	now          func() time.Time
}

func NewTimeOffService(
	timeOffRepo timeoff.TimeOffRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	logger *slog.Logger,
) timeoff.TimeOffService {
	if notifier == nil {
		notifier = notification.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimeOffServiceImpl{
		timeOffRepo:  timeOffRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

func mapRequestToResponse(r timeoff.TimeOffRequest) timeoff.RequestResponse {
	return timeoff.RequestResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Type:         r.Type,
		StartDate:    r.StartDate.Format(validator.DateLayout),
		EndDate:      r.EndDate.Format(validator.DateLayout),
		Days:         r.Days(),
		Reason:       r.Reason,
		Status:       r.Status,
		ApprovedBy:   r.ApprovedBy,
		ApprovedAt:   r.ApprovedAt,
		CreatedAt:    r.CreatedAt,
	}
}

// PendingOf returns the pending requests, most recently submitted first.
func PendingOf(requests []timeoff.TimeOffRequest) []timeoff.TimeOffRequest {
	return partition(requests, true)
}

// ResolvedOf returns approved and denied requests, most recently submitted first.
func ResolvedOf(requests []timeoff.TimeOffRequest) []timeoff.TimeOffRequest {
	return partition(requests, false)
}

func partition(requests []timeoff.TimeOffRequest, pending bool) []timeoff.TimeOffRequest {
	out := make([]timeoff.TimeOffRequest, 0, len(requests))
	for _, r := range requests {
		if r.IsPending() == pending {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func Summarize(requests []timeoff.TimeOffRequest) timeoff.Summary {
	var s timeoff.Summary
	for _, r := range requests {
		switch r.Status {
		case timeoff.StatusPending:
			s.Pending++
		case timeoff.StatusApproved:
			s.Approved++
		case timeoff.StatusDenied:
			s.Denied++
		}
	}
	return s
}

func (s *TimeOffServiceImpl) Create(ctx context.Context, req timeoff.CreateRequest) (timeoff.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return timeoff.RequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetEmployee(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		return timeoff.RequestResponse{}, apperror.Transport("failed to get employee", err)
	}
	if !emp.IsActive {
		return timeoff.RequestResponse{}, employee.ErrEmployeeInactive
	}

	startDate, _ := time.Parse(validator.DateLayout, req.StartDate)
	endDate, _ := time.Parse(validator.DateLayout, req.EndDate)

	created, err := s.timeOffRepo.CreateTimeOffRequest(ctx, timeoff.TimeOffRequest{
		BusinessID: req.BusinessID,
		EmployeeID: req.EmployeeID,
		Type:       timeoff.RequestType(req.Type),
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     timeoff.StatusPending,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return timeoff.RequestResponse{}, apperror.Transport("failed to create time-off request", err)
	}

	s.notifier.Notify(ctx, notification.Event{
		Type:       notification.TypeTimeOffRequested,
		Title:      "Time-off requested",
		Body:       fmt.Sprintf("%s requested %s from %s to %s", emp.Name, req.Type, req.StartDate, req.EndDate),
		BusinessID: req.BusinessID,
		Data:       map[string]interface{}{"request_id": created.ID, "employee_id": req.EmployeeID},
	})

	return mapRequestToResponse(created), nil
}

func (s *TimeOffServiceImpl) Get(ctx context.Context, businessID string, id string) (timeoff.RequestResponse, error) {
	req, err := s.timeOffRepo.GetTimeOffRequest(ctx, businessID, id)
	if err != nil {
		return timeoff.RequestResponse{}, apperror.Transport("failed to get time-off request", err)
	}
	return mapRequestToResponse(req), nil
}

func (s *TimeOffServiceImpl) List(ctx context.Context, businessID string, filter timeoff.RequestFilter) (timeoff.ListResponse, error) {
	requests, err := s.timeOffRepo.ListTimeOffRequests(ctx, businessID, filter)
	if err != nil {
		return timeoff.ListResponse{}, apperror.Transport("failed to list time-off requests", err)
	}

	return timeoff.ListResponse{
		Pending:  mapRequests(PendingOf(requests)),
		Resolved: mapRequests(ResolvedOf(requests)),
		Summary:  Summarize(requests),
	}, nil
}

func mapRequests(requests []timeoff.TimeOffRequest) []timeoff.RequestResponse {
	out := make([]timeoff.RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, mapRequestToResponse(r))
	}
	return out
}

func (s *TimeOffServiceImpl) Approve(ctx context.Context, businessID string, requestID string, approverID string) (timeoff.RequestResponse, error) {
	return s.resolve(ctx, businessID, requestID, approverID, timeoff.StatusApproved)
}

func (s *TimeOffServiceImpl) Deny(ctx context.Context, businessID string, requestID string, approverID string) (timeoff.RequestResponse, error) {
	return s.resolve(ctx, businessID, requestID, approverID, timeoff.StatusDenied)
}

func (s *TimeOffServiceImpl) resolve(ctx context.Context, businessID, requestID, approverID string, decision timeoff.Decision) (timeoff.RequestResponse, error) {
	if decision != timeoff.StatusApproved && decision != timeoff.StatusDenied {
		return timeoff.RequestResponse{}, timeoff.ErrInvalidDecision
	}
	if validator.IsEmpty(requestID) || validator.IsEmpty(approverID) {
		var errs validator.ValidationErrors
		if validator.IsEmpty(requestID) {
			errs.Add("request_id", "request_id is required")
		}
		if validator.IsEmpty(approverID) {
			errs.Add("approver_id", "approver_id is required")
		}
		return timeoff.RequestResponse{}, errs
	}

	current, err := s.timeOffRepo.GetTimeOffRequest(ctx, businessID, requestID)
	if err != nil {
		return timeoff.RequestResponse{}, apperror.Transport("failed to get time-off request", err)
	}
	if !current.IsPending() {
		return timeoff.RequestResponse{}, timeoff.ErrInvalidTransition
	}
	if current.EmployeeID == approverID {
		return timeoff.RequestResponse{}, timeoff.ErrSelfApproval
	}

	resolved, err := s.timeOffRepo.ResolveTimeOffRequest(ctx, businessID, requestID, decision, approverID, s.now())
	if err != nil {
		return timeoff.RequestResponse{}, apperror.Transport("failed to resolve time-off request", err)
	}

	eventType := notification.TypeTimeOffApproved
	title := "Time-off approved"
	if decision == timeoff.StatusDenied {
		eventType = notification.TypeTimeOffDenied
		title = "Time-off denied"
	}
	s.notifier.Notify(ctx, notification.Event{
		Type:        eventType,
		Title:       title,
		Body:        fmt.Sprintf("%s %s to %s", resolved.Type, resolved.StartDate.Format(validator.DateLayout), resolved.EndDate.Format(validator.DateLayout)),
		BusinessID:  businessID,
		RecipientID: resolved.EmployeeID,
		Data:        map[string]interface{}{"request_id": resolved.ID, "approved_by": approverID},
	})

	return mapRequestToResponse(resolved), nil
}

// BulkApprove approves every id independently and concurrently. Failures are recorded per
// item and never cancel the rest of the batch, and approvals run to completion even if the
// caller goes away. The returned error is non-nil only for an invalid request.
func (s *TimeOffServiceImpl) BulkApprove(ctx context.Context, req timeoff.BulkApproveRequest) (timeoff.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return timeoff.BulkResult{}, err
	}

	items := make([]timeoff.BulkItem, len(req.RequestIDs))
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(maxBulkConcurrency)
	for i, id := range req.RequestIDs {
		g.Go(func() error {
			item := timeoff.BulkItem{RequestID: id}
			if _, err := s.Approve(ctx, req.BusinessID, id, req.ApproverID); err != nil {
				item.Error = err.Error()
			} else {
				item.Approved = true
			}
			items[i] = item
			return nil
		})
	}
	_ = g.Wait()

	result := timeoff.BulkResult{Requested: len(items), Items: items}
	for _, item := range items {
		if item.Approved {
			result.Approved++
		} else {
			result.Failed++
		}
	}

	s.logger.Info("bulk time-off approval",
		"business_id", req.BusinessID,
		"approver_id", req.ApproverID,
		"requested", result.Requested,
		"approved", result.Approved,
		"failed", result.Failed,
	)
	return result, nil
}
