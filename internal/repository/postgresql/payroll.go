package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/jackc/pgx/v5"
)

const periodColumns = `id, business_id, start_date, end_date, status, created_at, updated_at`

const entrySelect = `
	SELECT pe.id, pe.business_id, pe.employee_id, pe.payroll_period_id, pe.regular_hours, pe.overtime_hours,
		pe.hourly_rate, pe.overtime_rate, pe.gross_pay, pe.deductions, pe.net_pay, pe.status,
		pe.created_at, pe.updated_at, e.name
	FROM payroll_entries pe
	LEFT JOIN employees e ON e.id = pe.employee_id`

const entryUniqueConstraint = "uq_payroll_entries_period_employee"

func scanPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(&p.ID, &p.BusinessID, &p.StartDate, &p.EndDate, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanEntry(row pgx.Row) (payroll.PayrollEntry, error) {
	var e payroll.PayrollEntry
	err := row.Scan(
		&e.ID, &e.BusinessID, &e.EmployeeID, &e.PayrollPeriodID, &e.RegularHours, &e.OvertimeHours,
		&e.HourlyRate, &e.OvertimeRate, &e.GrossPay, &e.Deductions, &e.NetPay, &e.Status,
		&e.CreatedAt, &e.UpdatedAt, &e.EmployeeName,
	)
	return e, err
}

// ========== PERIODS ==========

// ListPayrollPeriods implements payroll.PayrollRepository.
func (s *Store) ListPayrollPeriods(ctx context.Context, businessID string) ([]payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM payroll_periods WHERE business_id = $1 ORDER BY start_date DESC`, periodColumns), businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	periods := make([]payroll.PayrollPeriod, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return periods, nil
}

// GetPayrollPeriod implements payroll.PayrollRepository.
func (s *Store) GetPayrollPeriod(ctx context.Context, businessID string, id string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, s.db)

	p, err := scanPeriod(q.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM payroll_periods WHERE id = $1 AND business_id = $2`, periodColumns), id, businessID))
	if err != nil {
		return payroll.PayrollPeriod{}, notFound(err, payroll.ErrPayrollPeriodNotFound)
	}
	return p, nil
}

// CreatePayrollPeriod implements payroll.PayrollRepository.
func (s *Store) CreatePayrollPeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, s.db)

	id, err := newID()
	if err != nil {
		return payroll.PayrollPeriod{}, err
	}

	created, err := scanPeriod(q.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO payroll_periods (id, business_id, start_date, end_date, status)
		VALUES ($1, $2, $3::date, $4::date, $5)
		RETURNING %s`, periodColumns),
		id, period.BusinessID, period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"),
		string(period.Status),
	))
	if err != nil {
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}
	return created, nil
}

// UpdatePayrollPeriodStatus implements payroll.PayrollRepository.
func (s *Store) UpdatePayrollPeriodStatus(ctx context.Context, businessID string, id string, status payroll.PeriodStatus) error {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_periods SET status = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3`, string(status), id, businessID)
	if err != nil {
		return notFound(err, payroll.ErrPayrollPeriodNotFound)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollPeriodNotFound
	}
	return nil
}

// ========== ENTRIES ==========

// ListPayrollEntries implements payroll.PayrollRepository.
func (s *Store) ListPayrollEntries(ctx context.Context, businessID string, filter payroll.EntryFilter) ([]payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, s.db)

	var c conditions
	c.add("pe.business_id = $%d", businessID)
	if filter.PeriodID != nil {
		c.add("pe.payroll_period_id::text = $%d", *filter.PeriodID)
	}
	if filter.EmployeeID != nil {
		c.add("pe.employee_id::text = $%d", *filter.EmployeeID)
	}
	if filter.Status != nil {
		c.add("pe.status = $%d", string(*filter.Status))
	}

	query := fmt.Sprintf(`%s %s ORDER BY pe.created_at DESC, pe.employee_id`, entrySelect, c.where())
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll entries: %w", err)
	}
	defer rows.Close()

	entries := make([]payroll.PayrollEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPayrollEntry implements payroll.PayrollRepository.
func (s *Store) GetPayrollEntry(ctx context.Context, businessID string, id string) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, s.db)

	e, err := scanEntry(q.QueryRow(ctx, entrySelect+` WHERE pe.id = $1 AND pe.business_id = $2`, id, businessID))
	if err != nil {
		return payroll.PayrollEntry{}, notFound(err, payroll.ErrPayrollEntryNotFound)
	}
	return e, nil
}

// CreatePayrollEntries implements payroll.PayrollRepository. The batch is all-or-nothing.
func (s *Store) CreatePayrollEntries(ctx context.Context, entries []payroll.PayrollEntry) ([]payroll.PayrollEntry, error) {
	ids := make([]string, 0, len(entries))

	err := WithTransaction(ctx, s.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, s.db)
		for _, e := range entries {
			id, err := newID()
			if err != nil {
				return err
			}
			_, err = q.Exec(ctx, `
				INSERT INTO payroll_entries (
					id, business_id, employee_id, payroll_period_id, regular_hours, overtime_hours,
					hourly_rate, overtime_rate, gross_pay, deductions, net_pay, status
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				id, e.BusinessID, e.EmployeeID, e.PayrollPeriodID, e.RegularHours, e.OvertimeHours,
				e.HourlyRate, e.OvertimeRate, e.GrossPay, e.Deductions, e.NetPay, string(e.Status),
			)
			if err != nil {
				if isUniqueViolation(err, entryUniqueConstraint) {
					return payroll.ErrPeriodAlreadyClosed
				}
				return fmt.Errorf("failed to create payroll entry: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := make([]payroll.PayrollEntry, 0, len(ids))
	for i, id := range ids {
		e, err := s.GetPayrollEntry(ctx, entries[i].BusinessID, id)
		if err != nil {
			return nil, err
		}
		created = append(created, e)
	}
	return created, nil
}

// UpdatePayrollEntryStatus implements payroll.PayrollRepository.
func (s *Store) UpdatePayrollEntryStatus(ctx context.Context, businessID string, id string, from payroll.EntryStatus, to payroll.EntryStatus) (payroll.PayrollEntry, error) {
	q := GetQuerier(ctx, s.db)

	var updatedID string
	err := q.QueryRow(ctx, `
		UPDATE payroll_entries SET status = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3 AND status = $4
		RETURNING id`, string(to), id, businessID, string(from)).Scan(&updatedID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollEntry{}, notFound(err, payroll.ErrPayrollEntryNotFound)
		}
		if _, getErr := s.GetPayrollEntry(ctx, businessID, id); getErr != nil {
			return payroll.PayrollEntry{}, getErr
		}
		return payroll.PayrollEntry{}, payroll.ErrEntryStatusConflict
	}
	return s.GetPayrollEntry(ctx, businessID, updatedID)
}
