package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/shopspring/decimal"
)

func (s *Store) ListEmployees(ctx context.Context, businessID string, filter employee.EmployeeFilter) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.employees,
		func(e employee.Employee) bool {
			if e.BusinessID != businessID {
				return false
			}
			if filter.ActiveOnly && !e.IsActive {
				return false
			}
			if filter.Role != nil && e.Role != *filter.Role {
				return false
			}
			return true
		},
		func(a, b employee.Employee) bool { return a.Name < b.Name },
	), nil
}

func (s *Store) GetEmployee(ctx context.Context, businessID string, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, ok := s.employees[id]
	if !ok || emp.BusinessID != businessID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	newEmployee.ID = newID()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	s.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (s *Store) UpdateEmployeeRate(ctx context.Context, businessID string, id string, hourlyRate decimal.Decimal, overtimeRate decimal.Decimal) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[id]
	if !ok || emp.BusinessID != businessID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	emp.HourlyRate = hourlyRate
	emp.OvertimeRate = &overtimeRate
	emp.UpdatedAt = s.now()
	s.employees[id] = emp
	return emp, nil
}

func (s *Store) SetEmployeeActive(ctx context.Context, businessID string, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, ok := s.employees[id]
	if !ok || emp.BusinessID != businessID {
		return employee.ErrEmployeeNotFound
	}
	emp.IsActive = active
	emp.UpdatedAt = s.now()
	s.employees[id] = emp
	return nil
}

func (s *Store) ListBusinessIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, e := range s.employees {
		seen[e.BusinessID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
