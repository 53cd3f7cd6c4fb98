package memory

import (
	"context"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
)

func (s *Store) ListPayrollPeriods(ctx context.Context, businessID string) ([]payroll.PayrollPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.periods,
		func(p payroll.PayrollPeriod) bool { return p.BusinessID == businessID },
		func(a, b payroll.PayrollPeriod) bool { return a.StartDate.After(b.StartDate) },
	), nil
}

func (s *Store) GetPayrollPeriod(ctx context.Context, businessID string, id string) (payroll.PayrollPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.periods[id]
	if !ok || p.BusinessID != businessID {
		return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
	}
	return p, nil
}

func (s *Store) CreatePayrollPeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	period.ID = newID()
	period.StartDate = dateOnly(period.StartDate)
	period.EndDate = dateOnly(period.EndDate)
	period.CreatedAt = now
	period.UpdatedAt = now
	s.periods[period.ID] = period
	return period, nil
}

func (s *Store) UpdatePayrollPeriodStatus(ctx context.Context, businessID string, id string, status payroll.PeriodStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.periods[id]
	if !ok || p.BusinessID != businessID {
		return payroll.ErrPayrollPeriodNotFound
	}
	p.Status = status
	p.UpdatedAt = s.now()
	s.periods[id] = p
	return nil
}

func (s *Store) ListPayrollEntries(ctx context.Context, businessID string, filter payroll.EntryFilter) ([]payroll.PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := sortedValues(s.payrollEntries,
		func(e payroll.PayrollEntry) bool {
			if e.BusinessID != businessID {
				return false
			}
			if filter.PeriodID != nil && e.PayrollPeriodID != *filter.PeriodID {
				return false
			}
			if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
				return false
			}
			if filter.Status != nil && e.Status != *filter.Status {
				return false
			}
			return true
		},
		func(a, b payroll.PayrollEntry) bool {
			if a.PayrollPeriodID != b.PayrollPeriodID {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.EmployeeID < b.EmployeeID
		},
	)

	for i := range entries {
		s.attachEntryNameLocked(&entries[i])
	}
	return entries, nil
}

func (s *Store) GetPayrollEntry(ctx context.Context, businessID string, id string) (payroll.PayrollEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.payrollEntries[id]
	if !ok || e.BusinessID != businessID {
		return payroll.PayrollEntry{}, payroll.ErrPayrollEntryNotFound
	}
	s.attachEntryNameLocked(&e)
	return e, nil
}

func (s *Store) CreatePayrollEntries(ctx context.Context, entries []payroll.PayrollEntry) ([]payroll.PayrollEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		for _, existing := range s.payrollEntries {
			if existing.PayrollPeriodID == e.PayrollPeriodID && existing.EmployeeID == e.EmployeeID {
				return nil, payroll.ErrPeriodAlreadyClosed
			}
		}
	}

	now := s.now()
	created := make([]payroll.PayrollEntry, 0, len(entries))
	for _, e := range entries {
		e.ID = newID()
		e.CreatedAt = now
		e.UpdatedAt = now
		e.EmployeeName = nil
		s.payrollEntries[e.ID] = e

		s.attachEntryNameLocked(&e)
		created = append(created, e)
	}
	return created, nil
}

func (s *Store) UpdatePayrollEntryStatus(ctx context.Context, businessID string, id string, from payroll.EntryStatus, to payroll.EntryStatus) (payroll.PayrollEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.payrollEntries[id]
	if !ok || e.BusinessID != businessID {
		return payroll.PayrollEntry{}, payroll.ErrPayrollEntryNotFound
	}
	if e.Status != from {
		return payroll.PayrollEntry{}, payroll.ErrEntryStatusConflict
	}
	e.Status = to
	e.UpdatedAt = s.now()
	s.payrollEntries[id] = e

	s.attachEntryNameLocked(&e)
	return e, nil
}

func (s *Store) attachEntryNameLocked(e *payroll.PayrollEntry) {
	if emp, ok := s.employees[e.EmployeeID]; ok {
		e.EmployeeName = strPtr(emp.Name)
	}
}
