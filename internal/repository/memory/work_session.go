package memory

import (
	"context"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
)

func (s *Store) ListWorkSessions(ctx context.Context, businessID string, filter timeclock.SessionFilter) ([]timeclock.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedValues(s.sessions,
		func(ws timeclock.WorkSession) bool {
			if ws.BusinessID != businessID {
				return false
			}
			if filter.EmployeeID != nil && ws.EmployeeID != *filter.EmployeeID {
				return false
			}
			if filter.From != nil && ws.ClockInTime.Before(*filter.From) {
				return false
			}
			if filter.To != nil && !ws.ClockInTime.Before(*filter.To) {
				return false
			}
			return true
		},
		func(a, b timeclock.WorkSession) bool { return a.ClockInTime.After(b.ClockInTime) },
	), nil
}

func (s *Store) GetWorkSession(ctx context.Context, businessID string, id string) (timeclock.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.sessions[id]
	if !ok || ws.BusinessID != businessID {
		return timeclock.WorkSession{}, timeclock.ErrSessionNotFound
	}
	return ws, nil
}

func (s *Store) GetOpenWorkSession(ctx context.Context, businessID string, employeeID string) (*timeclock.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.openSessionLocked(businessID, employeeID), nil
}

func (s *Store) openSessionLocked(businessID, employeeID string) *timeclock.WorkSession {
	var open *timeclock.WorkSession
	for _, ws := range s.sessions {
		if ws.BusinessID != businessID || ws.EmployeeID != employeeID || !ws.IsOpen() {
			continue
		}
		if open == nil || ws.ClockInTime.After(open.ClockInTime) {
			found := ws
			open = &found
		}
	}
	return open
}

func (s *Store) ClockIn(ctx context.Context, session timeclock.WorkSession) (timeclock.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openSessionLocked(session.BusinessID, session.EmployeeID) != nil {
		return timeclock.WorkSession{}, timeclock.ErrAlreadyClockedIn
	}

	now := s.now()
	session.ID = newID()
	session.ClockOutTime = nil
	session.TotalHours = 0
	session.CreatedAt = now
	session.UpdatedAt = now
	s.sessions[session.ID] = session
	return session, nil
}

func (s *Store) ClockOut(ctx context.Context, update timeclock.ClockOutUpdate) (timeclock.WorkSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.sessions[update.SessionID]
	if !ok || ws.BusinessID != update.BusinessID {
		return timeclock.WorkSession{}, timeclock.ErrSessionNotFound
	}
	if !ws.IsOpen() {
		return timeclock.WorkSession{}, timeclock.ErrNotClockedIn
	}

	clockOut := update.ClockOutTime
	ws.ClockOutTime = &clockOut
	ws.BreakDuration = update.BreakDuration
	ws.TotalHours = update.TotalHours
	ws.UpdatedAt = s.now()
	s.sessions[ws.ID] = ws
	return ws, nil
}
