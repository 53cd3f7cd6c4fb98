package memory

import (
	"context"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
)

func (s *Store) ListSchedules(ctx context.Context, businessID string, filter schedule.ScheduleFilter) ([]schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.schedules,
		func(sc schedule.Schedule) bool {
			if sc.BusinessID != businessID {
				return false
			}
			if filter.EmployeeID != nil && sc.EmployeeID != *filter.EmployeeID {
				return false
			}
			if filter.Status != nil && sc.Status != *filter.Status {
				return false
			}
			day := dateOnly(sc.Date)
			if filter.From != nil && day.Before(dateOnly(*filter.From)) {
				return false
			}
			if filter.To != nil && day.After(dateOnly(*filter.To)) {
				return false
			}
			return true
		},
		func(a, b schedule.Schedule) bool {
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.StartTime < b.StartTime
		},
	), nil
}

func (s *Store) GetSchedule(ctx context.Context, businessID string, id string) (schedule.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[id]
	if !ok || sc.BusinessID != businessID {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return sc, nil
}

func (s *Store) CreateSchedule(ctx context.Context, newSchedule schedule.Schedule) (schedule.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	newSchedule.ID = newID()
	newSchedule.Date = dateOnly(newSchedule.Date)
	newSchedule.CreatedAt = now
	newSchedule.UpdatedAt = now
	s.schedules[newSchedule.ID] = newSchedule
	return newSchedule, nil
}

func (s *Store) UpdateScheduleStatus(ctx context.Context, businessID string, id string, from schedule.Status, to schedule.Status) (schedule.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.schedules[id]
	if !ok || sc.BusinessID != businessID {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	if sc.Status != from {
		return schedule.Schedule{}, schedule.ErrInvalidTransition
	}
	sc.Status = to
	sc.UpdatedAt = s.now()
	s.schedules[id] = sc
	return sc, nil
}
