package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
	"github.com/jackc/pgx/v5"
)

const timeOffSelect = `
	SELECT r.id, r.business_id, r.employee_id, r.type, r.start_date, r.end_date, r.reason, r.status,
		r.approved_by, r.approved_at, r.created_at, r.updated_at, e.name
	FROM time_off_requests r
	LEFT JOIN employees e ON e.id = r.employee_id`

func scanTimeOff(row pgx.Row) (timeoff.TimeOffRequest, error) {
	var r timeoff.TimeOffRequest
	err := row.Scan(
		&r.ID, &r.BusinessID, &r.EmployeeID, &r.Type, &r.StartDate, &r.EndDate, &r.Reason, &r.Status,
		&r.ApprovedBy, &r.ApprovedAt, &r.CreatedAt, &r.UpdatedAt, &r.EmployeeName,
	)
	return r, err
}

// ListTimeOffRequests implements timeoff.TimeOffRepository.
func (s *Store) ListTimeOffRequests(ctx context.Context, businessID string, filter timeoff.RequestFilter) ([]timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, s.db)

	var c conditions
	c.add("r.business_id = $%d", businessID)
	if filter.EmployeeID != nil {
		c.add("r.employee_id::text = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		c.add("r.status = $%d", string(*filter.Status))
	}

	query := fmt.Sprintf(`%s %s ORDER BY r.created_at DESC`, timeOffSelect, c.where())
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	defer rows.Close()

	requests := make([]timeoff.TimeOffRequest, 0)
	for rows.Next() {
		r, err := scanTimeOff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-off request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetTimeOffRequest implements timeoff.TimeOffRepository.
func (s *Store) GetTimeOffRequest(ctx context.Context, businessID string, id string) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, s.db)

	r, err := scanTimeOff(q.QueryRow(ctx, timeOffSelect+` WHERE r.id = $1 AND r.business_id = $2`, id, businessID))
	if err != nil {
		return timeoff.TimeOffRequest{}, notFound(err, timeoff.ErrRequestNotFound)
	}
	return r, nil
}

// CreateTimeOffRequest implements timeoff.TimeOffRepository. New requests are always pending.
func (s *Store) CreateTimeOffRequest(ctx context.Context, request timeoff.TimeOffRequest) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, s.db)

	id, err := newID()
	if err != nil {
		return timeoff.TimeOffRequest{}, err
	}

	var createdAt *time.Time
	if !request.CreatedAt.IsZero() {
		createdAt = &request.CreatedAt
	}

	_, err = q.Exec(ctx, `
		INSERT INTO time_off_requests (id, business_id, employee_id, type, start_date, end_date, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5::date, $6::date, $7, $8, COALESCE($9, NOW()))`,
		id, request.BusinessID, request.EmployeeID, string(request.Type),
		request.StartDate.Format("2006-01-02"), request.EndDate.Format("2006-01-02"),
		request.Reason, string(timeoff.StatusPending), createdAt,
	)
	if err != nil {
		return timeoff.TimeOffRequest{}, fmt.Errorf("failed to create time-off request: %w", err)
	}
	return s.GetTimeOffRequest(ctx, request.BusinessID, id)
}

// ResolveTimeOffRequest implements timeoff.TimeOffRepository.
func (s *Store) ResolveTimeOffRequest(ctx context.Context, businessID string, id string, decision timeoff.Decision, approverID string, at time.Time) (timeoff.TimeOffRequest, error) {
	q := GetQuerier(ctx, s.db)

	var resolvedID string
	err := q.QueryRow(ctx, `
		UPDATE time_off_requests
		SET status = $1, approved_by = $2, approved_at = $3, updated_at = NOW()
		WHERE id = $4 AND business_id = $5 AND status = $6
		RETURNING id`,
		string(decision), approverID, at, id, businessID, string(timeoff.StatusPending),
	).Scan(&resolvedID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return timeoff.TimeOffRequest{}, notFound(err, timeoff.ErrRequestNotFound)
		}
		if _, getErr := s.GetTimeOffRequest(ctx, businessID, id); getErr != nil {
			return timeoff.TimeOffRequest{}, getErr
		}
		return timeoff.TimeOffRequest{}, timeoff.ErrInvalidTransition
	}
	return s.GetTimeOffRequest(ctx, businessID, resolvedID)
}
