package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
)

func (s *Store) ListTimeOffRequests(ctx context.Context, businessID string, filter timeoff.RequestFilter) ([]timeoff.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := sortedValues(s.timeOff,
		func(r timeoff.TimeOffRequest) bool {
			if r.BusinessID != businessID {
				return false
			}
			if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
				return false
			}
			if filter.Status != nil && r.Status != *filter.Status {
				return false
			}
			return true
		},
		func(a, b timeoff.TimeOffRequest) bool { return a.CreatedAt.After(b.CreatedAt) },
	)

	for i := range requests {
		s.attachEmployeeNameLocked(&requests[i])
	}
	return requests, nil
}

func (s *Store) GetTimeOffRequest(ctx context.Context, businessID string, id string) (timeoff.TimeOffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.timeOff[id]
	if !ok || req.BusinessID != businessID {
		return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotFound
	}
	s.attachEmployeeNameLocked(&req)
	return req, nil
}

func (s *Store) CreateTimeOffRequest(ctx context.Context, request timeoff.TimeOffRequest) (timeoff.TimeOffRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	request.ID = newID()
	request.StartDate = dateOnly(request.StartDate)
	request.EndDate = dateOnly(request.EndDate)
	request.Status = timeoff.StatusPending
	request.ApprovedBy = nil
	request.ApprovedAt = nil
	if request.CreatedAt.IsZero() {
		request.CreatedAt = now
	}
	request.UpdatedAt = now
	request.EmployeeName = nil
	s.timeOff[request.ID] = request

	s.attachEmployeeNameLocked(&request)
	return request, nil
}

func (s *Store) ResolveTimeOffRequest(ctx context.Context, businessID string, id string, decision timeoff.Decision, approverID string, at time.Time) (timeoff.TimeOffRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.timeOff[id]
	if !ok || req.BusinessID != businessID {
		return timeoff.TimeOffRequest{}, timeoff.ErrRequestNotFound
	}
	if !req.IsPending() {
		return timeoff.TimeOffRequest{}, timeoff.ErrInvalidTransition
	}

	req.Status = decision
	req.ApprovedBy = &approverID
	req.ApprovedAt = &at
	req.UpdatedAt = s.now()
	s.timeOff[id] = req

	s.attachEmployeeNameLocked(&req)
	return req, nil
}

func (s *Store) attachEmployeeNameLocked(req *timeoff.TimeOffRequest) {
	if emp, ok := s.employees[req.EmployeeID]; ok {
		req.EmployeeName = strPtr(emp.Name)
	}
}
