package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/jackc/pgx/v5"
)

const openSessionIndex = "uq_work_sessions_open"

const sessionColumns = `id, business_id, employee_id, schedule_id, clock_in_time, clock_out_time,
	break_duration, total_hours, created_at, updated_at`

func scanSession(row pgx.Row) (timeclock.WorkSession, error) {
	var ws timeclock.WorkSession
	err := row.Scan(
		&ws.ID, &ws.BusinessID, &ws.EmployeeID, &ws.ScheduleID, &ws.ClockInTime, &ws.ClockOutTime,
		&ws.BreakDuration, &ws.TotalHours, &ws.CreatedAt, &ws.UpdatedAt,
	)
	return ws, err
}

// ListWorkSessions implements timeclock.WorkSessionRepository.
func (s *Store) ListWorkSessions(ctx context.Context, businessID string, filter timeclock.SessionFilter) ([]timeclock.WorkSession, error) {
	q := GetQuerier(ctx, s.db)

	var c conditions
	c.add("business_id = $%d", businessID)
	if filter.EmployeeID != nil {
		c.add("employee_id::text = $%d", *filter.EmployeeID)
	}
	if filter.From != nil {
		c.add("clock_in_time >= $%d", *filter.From)
	}
	if filter.To != nil {
		c.add("clock_in_time < $%d", *filter.To)
	}

	query := fmt.Sprintf(`SELECT %s FROM work_sessions %s ORDER BY clock_in_time DESC`, sessionColumns, c.where())
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]timeclock.WorkSession, 0)
	for rows.Next() {
		ws, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work session: %w", err)
		}
		sessions = append(sessions, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetWorkSession implements timeclock.WorkSessionRepository.
func (s *Store) GetWorkSession(ctx context.Context, businessID string, id string) (timeclock.WorkSession, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT %s FROM work_sessions WHERE id = $1 AND business_id = $2`, sessionColumns)
	ws, err := scanSession(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		return timeclock.WorkSession{}, notFound(err, timeclock.ErrSessionNotFound)
	}
	return ws, nil
}

// GetOpenWorkSession implements timeclock.WorkSessionRepository.
func (s *Store) GetOpenWorkSession(ctx context.Context, businessID string, employeeID string) (*timeclock.WorkSession, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		SELECT %s FROM work_sessions
		WHERE business_id = $1 AND employee_id::text = $2 AND clock_out_time IS NULL
		ORDER BY clock_in_time DESC
		LIMIT 1`, sessionColumns)

	ws, err := scanSession(q.QueryRow(ctx, query, businessID, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open work session: %w", err)
	}
	return &ws, nil
}

// ClockIn implements timeclock.WorkSessionRepository. The partial unique index on open
// sessions rejects a second concurrent clock-in.
func (s *Store) ClockIn(ctx context.Context, session timeclock.WorkSession) (timeclock.WorkSession, error) {
	q := GetQuerier(ctx, s.db)

	id, err := newID()
	if err != nil {
		return timeclock.WorkSession{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO work_sessions (id, business_id, employee_id, schedule_id, clock_in_time, break_duration)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, sessionColumns)

	created, err := scanSession(q.QueryRow(ctx, query,
		id, session.BusinessID, session.EmployeeID, session.ScheduleID, session.ClockInTime, session.BreakDuration,
	))
	if err != nil {
		if isUniqueViolation(err, openSessionIndex) {
			return timeclock.WorkSession{}, timeclock.ErrAlreadyClockedIn
		}
		return timeclock.WorkSession{}, fmt.Errorf("failed to clock in: %w", err)
	}
	return created, nil
}

// ClockOut implements timeclock.WorkSessionRepository.
func (s *Store) ClockOut(ctx context.Context, update timeclock.ClockOutUpdate) (timeclock.WorkSession, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		UPDATE work_sessions
		SET clock_out_time = $1, break_duration = $2, total_hours = $3, updated_at = NOW()
		WHERE id = $4 AND business_id = $5 AND clock_out_time IS NULL
		RETURNING %s`, sessionColumns)

	closed, err := scanSession(q.QueryRow(ctx, query,
		update.ClockOutTime, update.BreakDuration, update.TotalHours, update.SessionID, update.BusinessID,
	))
	if err == nil {
		return closed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return timeclock.WorkSession{}, notFound(err, timeclock.ErrSessionNotFound)
	}

	if _, getErr := s.GetWorkSession(ctx, update.BusinessID, update.SessionID); getErr != nil {
		return timeclock.WorkSession{}, getErr
	}
	return timeclock.WorkSession{}, timeclock.ErrNotClockedIn
}
