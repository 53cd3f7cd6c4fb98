package timeclock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/notification"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/hours"
)

type TimeClockServiceImpl struct {
	sessionRepo  timeclock.WorkSessionRepository
	scheduleRepo schedule.ScheduleRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	logger       *slog.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewTimeClockService(
	sessionRepo timeclock.WorkSessionRepository,
	scheduleRepo schedule.ScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	logger *slog.Logger,
	loc *time.Location,
) timeclock.TimeClockService {
	if notifier == nil {
		notifier = notification.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TimeClockServiceImpl{
		sessionRepo:  sessionRepo,
		scheduleRepo: scheduleRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		logger:       logger,
		loc:          loc,
		now:          time.Now,
	}
}

func mapSessionToResponse(s timeclock.WorkSession) timeclock.SessionResponse {
	return timeclock.SessionResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		ScheduleID:    s.ScheduleID,
		ClockInTime:   s.ClockInTime,
		ClockOutTime:  s.ClockOutTime,
		BreakDuration: s.BreakDuration,
		TotalHours:    s.TotalHours,
		IsActive:      s.IsOpen(),
	}
}

// ActiveSessionOf returns the session as active only when it is open and was clocked in on
// now's calendar day in loc. Sessions left open past midnight are not reported.
func ActiveSessionOf(session *timeclock.WorkSession, now time.Time, loc *time.Location) *timeclock.SessionResponse {
	if session == nil || !session.IsOpen() {
		return nil
	}
	if !hours.SameDay(session.ClockInTime, now, loc) {
		return nil
	}

	resp := mapSessionToResponse(*session)
	resp.ElapsedSeconds = Elapsed(*session, now)
	return &resp
}

// Elapsed is the running duration of an open session in whole seconds.
func Elapsed(session timeclock.WorkSession, now time.Time) int64 {
	end := now
	if session.ClockOutTime != nil {
		end = *session.ClockOutTime
	}
	if end.Before(session.ClockInTime) {
		return 0
	}
	return int64(end.Sub(session.ClockInTime) / time.Second)
}

func (s *TimeClockServiceImpl) ClockIn(ctx context.Context, req timeclock.ClockInRequest) (timeclock.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.SessionResponse{}, err
	}

	emp, err := s.employeeRepo.GetEmployee(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		return timeclock.SessionResponse{}, apperror.Transport("failed to get employee", err)
	}
	if !emp.IsActive {
		return timeclock.SessionResponse{}, employee.ErrEmployeeInactive
	}

	open, err := s.sessionRepo.GetOpenWorkSession(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		return timeclock.SessionResponse{}, apperror.Transport("failed to check open session", err)
	}
	if open != nil {
		return timeclock.SessionResponse{}, timeclock.ErrAlreadyClockedIn
	}

	session := timeclock.WorkSession{
		BusinessID:  req.BusinessID,
		EmployeeID:  req.EmployeeID,
		ClockInTime: s.now(),
	}

	if req.ScheduleID != nil {
		sc, err := s.scheduleRepo.GetSchedule(ctx, req.BusinessID, *req.ScheduleID)
		if err != nil {
			return timeclock.SessionResponse{}, apperror.Transport("failed to get schedule", err)
		}
		if sc.EmployeeID != req.EmployeeID {
			return timeclock.SessionResponse{}, schedule.ErrScheduleNotOwned
		}
		session.ScheduleID = &sc.ID
		session.BreakDuration = sc.BreakDuration
	}

	created, err := s.sessionRepo.ClockIn(ctx, session)
	if err != nil {
		return timeclock.SessionResponse{}, apperror.Transport("failed to clock in", err)
	}

	s.notifier.Notify(ctx, notification.Event{
		Type:        notification.TypeClockIn,
		Title:       "Clocked in",
		Body:        fmt.Sprintf("%s clocked in", emp.Name),
		BusinessID:  req.BusinessID,
		RecipientID: req.EmployeeID,
		Data:        map[string]interface{}{"session_id": created.ID},
	})

	return mapSessionToResponse(created), nil
}

func (s *TimeClockServiceImpl) ClockOut(ctx context.Context, req timeclock.ClockOutRequest) (timeclock.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return timeclock.SessionResponse{}, err
	}

	session, err := s.resolveOpenSession(ctx, req)
	if err != nil {
		return timeclock.SessionResponse{}, err
	}

	breakMinutes := session.BreakDuration
	if req.BreakMinutes != nil {
		breakMinutes = *req.BreakMinutes
	}

	clockOut := s.now()
	closed, err := s.sessionRepo.ClockOut(ctx, timeclock.ClockOutUpdate{
		BusinessID:    req.BusinessID,
		SessionID:     session.ID,
		ClockOutTime:  clockOut,
		BreakDuration: breakMinutes,
		TotalHours:    hours.SessionHours(session.ClockInTime, clockOut, breakMinutes),
	})
	if err != nil {
		return timeclock.SessionResponse{}, apperror.Transport("failed to clock out", err)
	}

	if closed.ScheduleID != nil {
		s.completeSchedule(ctx, req.BusinessID, *closed.ScheduleID)
	}

	s.notifier.Notify(ctx, notification.Event{
		Type:        notification.TypeClockOut,
		Title:       "Clocked out",
		Body:        fmt.Sprintf("%.2f hours worked", closed.TotalHours),
		BusinessID:  req.BusinessID,
		RecipientID: closed.EmployeeID,
		Data:        map[string]interface{}{"session_id": closed.ID, "total_hours": closed.TotalHours},
	})

	return mapSessionToResponse(closed), nil
}

func (s *TimeClockServiceImpl) resolveOpenSession(ctx context.Context, req timeclock.ClockOutRequest) (timeclock.WorkSession, error) {
	if req.SessionID == "" {
		open, err := s.sessionRepo.GetOpenWorkSession(ctx, req.BusinessID, req.EmployeeID)
		if err != nil {
			return timeclock.WorkSession{}, apperror.Transport("failed to check open session", err)
		}
		if open == nil {
			return timeclock.WorkSession{}, timeclock.ErrNotClockedIn
		}
		return *open, nil
	}

	session, err := s.sessionRepo.GetWorkSession(ctx, req.BusinessID, req.SessionID)
	if err != nil {
		return timeclock.WorkSession{}, apperror.Transport("failed to get work session", err)
	}
	if req.EmployeeID != "" && session.EmployeeID != req.EmployeeID {
		return timeclock.WorkSession{}, timeclock.ErrSessionNotOwned
	}
	if !session.IsOpen() {
		return timeclock.WorkSession{}, timeclock.ErrNotClockedIn
	}
	return session, nil
}

func (s *TimeClockServiceImpl) completeSchedule(ctx context.Context, businessID, scheduleID string) {
	_, err := s.scheduleRepo.UpdateScheduleStatus(ctx, businessID, scheduleID, schedule.StatusScheduled, schedule.StatusCompleted)
	if err != nil {
		s.logger.Warn("failed to complete schedule after clock-out",
			"business_id", businessID,
			"schedule_id", scheduleID,
			"error", err,
		)
	}
}

func (s *TimeClockServiceImpl) ActiveSession(ctx context.Context, businessID string, employeeID string) (*timeclock.SessionResponse, error) {
	open, err := s.sessionRepo.GetOpenWorkSession(ctx, businessID, employeeID)
	if err != nil {
		return nil, apperror.Transport("failed to get open session", err)
	}
	return ActiveSessionOf(open, s.now(), s.loc), nil
}

func (s *TimeClockServiceImpl) ListSessions(ctx context.Context, businessID string, filter timeclock.SessionFilter) ([]timeclock.SessionResponse, error) {
	sessions, err := s.sessionRepo.ListWorkSessions(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Transport("failed to list work sessions", err)
	}

	responses := make([]timeclock.SessionResponse, 0, len(sessions))
	for _, ws := range sessions {
		responses = append(responses, mapSessionToResponse(ws))
	}
	return responses, nil
}
