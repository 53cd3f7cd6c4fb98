package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/jackc/pgx/v5"
)

const scheduleColumns = `id, business_id, employee_id, date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
	break_duration, status, created_by, created_at, updated_at`

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var sc schedule.Schedule
	err := row.Scan(
		&sc.ID, &sc.BusinessID, &sc.EmployeeID, &sc.Date, &sc.StartTime, &sc.EndTime,
		&sc.BreakDuration, &sc.Status, &sc.CreatedBy, &sc.CreatedAt, &sc.UpdatedAt,
	)
	return sc, err
}

// ListSchedules implements schedule.ScheduleRepository.
func (s *Store) ListSchedules(ctx context.Context, businessID string, filter schedule.ScheduleFilter) ([]schedule.Schedule, error) {
	q := GetQuerier(ctx, s.db)

	var c conditions
	c.add("business_id = $%d", businessID)
	if filter.EmployeeID != nil {
		c.add("employee_id::text = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		c.add("status = $%d", string(*filter.Status))
	}
	if filter.From != nil {
		c.add("date >= $%d::date", filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		c.add("date <= $%d::date", filter.To.Format("2006-01-02"))
	}

	query := fmt.Sprintf(`SELECT %s FROM schedules %s ORDER BY date, start_time, id`, scheduleColumns, c.where())
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]schedule.Schedule, 0)
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return schedules, nil
}

// GetSchedule implements schedule.ScheduleRepository.
func (s *Store) GetSchedule(ctx context.Context, businessID string, id string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE id = $1 AND business_id = $2`, scheduleColumns)
	sc, err := scanSchedule(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		return schedule.Schedule{}, notFound(err, schedule.ErrScheduleNotFound)
	}
	return sc, nil
}

// CreateSchedule implements schedule.ScheduleRepository.
func (s *Store) CreateSchedule(ctx context.Context, newSchedule schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, s.db)

	id, err := newID()
	if err != nil {
		return schedule.Schedule{}, err
	}

	query := fmt.Sprintf(`
		INSERT INTO schedules (id, business_id, employee_id, date, start_time, end_time, break_duration, status, created_by)
		VALUES ($1, $2, $3, $4::date, $5::time, $6::time, $7, $8, $9)
		RETURNING %s`, scheduleColumns)

	created, err := scanSchedule(q.QueryRow(ctx, query,
		id, newSchedule.BusinessID, newSchedule.EmployeeID, newSchedule.Date.Format("2006-01-02"),
		newSchedule.StartTime, newSchedule.EndTime, newSchedule.BreakDuration,
		string(newSchedule.Status), newSchedule.CreatedBy,
	))
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to create schedule: %w", err)
	}
	return created, nil
}

// UpdateScheduleStatus implements schedule.ScheduleRepository.
func (s *Store) UpdateScheduleStatus(ctx context.Context, businessID string, id string, from schedule.Status, to schedule.Status) (schedule.Schedule, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		UPDATE schedules SET status = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3 AND status = $4
		RETURNING %s`, scheduleColumns)

	updated, err := scanSchedule(q.QueryRow(ctx, query, string(to), id, businessID, string(from)))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return schedule.Schedule{}, notFound(err, schedule.ErrScheduleNotFound)
	}

	// Nothing matched: either the row is gone or its status moved on.
	if _, getErr := s.GetSchedule(ctx, businessID, id); getErr != nil {
		return schedule.Schedule{}, getErr
	}
	return schedule.Schedule{}, schedule.ErrInvalidTransition
}
