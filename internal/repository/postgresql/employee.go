package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const employeeColumns = `id, business_id, user_id, name, email, role, hourly_rate, overtime_rate,
	start_date, is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp      employee.Employee
		overtime decimal.NullDecimal
	)
	err := row.Scan(
		&emp.ID, &emp.BusinessID, &emp.UserID, &emp.Name, &emp.Email, &emp.Role,
		&emp.HourlyRate, &overtime, &emp.StartDate, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if overtime.Valid {
		emp.OvertimeRate = &overtime.Decimal
	}
	return emp, nil
}

// ListEmployees implements employee.EmployeeRepository.
func (s *Store) ListEmployees(ctx context.Context, businessID string, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	var c conditions
	c.add("business_id = $%d", businessID)
	if filter.ActiveOnly {
		c.add("is_active = $%d", true)
	}
	if filter.Role != nil {
		c.add("role = $%d", string(*filter.Role))
	}

	query := fmt.Sprintf(`SELECT %s FROM employees %s ORDER BY name, id`, employeeColumns, c.where())
	rows, err := q.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee implements employee.EmployeeRepository.
func (s *Store) GetEmployee(ctx context.Context, businessID string, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`SELECT %s FROM employees WHERE id = $1 AND business_id = $2`, employeeColumns)
	emp, err := scanEmployee(q.QueryRow(ctx, query, id, businessID))
	if err != nil {
		return employee.Employee{}, notFound(err, employee.ErrEmployeeNotFound)
	}
	return emp, nil
}

// CreateEmployee implements employee.EmployeeRepository.
func (s *Store) CreateEmployee(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	id, err := newID()
	if err != nil {
		return employee.Employee{}, err
	}

	var overtime decimal.NullDecimal
	if newEmployee.OvertimeRate != nil {
		overtime = decimal.NewNullDecimal(*newEmployee.OvertimeRate)
	}

	query := fmt.Sprintf(`
		INSERT INTO employees (id, business_id, user_id, name, email, role, hourly_rate, overtime_rate, start_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, employeeColumns)

	created, err := scanEmployee(q.QueryRow(ctx, query,
		id, newEmployee.BusinessID, newEmployee.UserID, newEmployee.Name, newEmployee.Email,
		string(newEmployee.Role), newEmployee.HourlyRate, overtime, newEmployee.StartDate, newEmployee.IsActive,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// UpdateEmployeeRate implements employee.EmployeeRepository.
func (s *Store) UpdateEmployeeRate(ctx context.Context, businessID string, id string, hourlyRate decimal.Decimal, overtimeRate decimal.Decimal) (employee.Employee, error) {
	q := GetQuerier(ctx, s.db)

	query := fmt.Sprintf(`
		UPDATE employees
		SET hourly_rate = $1, overtime_rate = $2, updated_at = NOW()
		WHERE id = $3 AND business_id = $4
		RETURNING %s`, employeeColumns)

	updated, err := scanEmployee(q.QueryRow(ctx, query, hourlyRate, overtimeRate, id, businessID))
	if err != nil {
		return employee.Employee{}, notFound(err, employee.ErrEmployeeNotFound)
	}
	return updated, nil
}

// SetEmployeeActive implements employee.EmployeeRepository.
func (s *Store) SetEmployeeActive(ctx context.Context, businessID string, id string, active bool) error {
	q := GetQuerier(ctx, s.db)

	tag, err := q.Exec(ctx, `
		UPDATE employees SET is_active = $1, updated_at = NOW()
		WHERE id = $2 AND business_id = $3`, active, id, businessID)
	if err != nil {
		return notFound(err, employee.ErrEmployeeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// ListBusinessIDs implements employee.EmployeeRepository.
func (s *Store) ListBusinessIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, `SELECT DISTINCT business_id FROM employees ORDER BY business_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
