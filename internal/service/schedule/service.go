package schedule

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
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/hours"
)

type ScheduleServiceImpl struct {
	scheduleRepo schedule.ScheduleRepository
	sessionRepo  timeclock.WorkSessionRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	logger       *slog.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	sessionRepo timeclock.WorkSessionRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	logger *slog.Logger,
	loc *time.Location,
) schedule.ScheduleService {
	if notifier == nil {
		notifier = notification.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleServiceImpl{
		scheduleRepo: scheduleRepo,
		sessionRepo:  sessionRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		logger:       logger,
		loc:          loc,
		now:          time.Now,
	}
}

func mapScheduleToResponse(s schedule.Schedule) schedule.ScheduleResponse {
	duration, _ := hours.ShiftDurationHours(s.StartTime, s.EndTime)
	return schedule.ScheduleResponse{
		ID:            s.ID,
		EmployeeID:    s.EmployeeID,
		Date:          s.Date.Format(validator.DateLayout),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		BreakDuration: s.BreakDuration,
		DurationHours: duration,
		Status:        s.Status,
		CreatedBy:     s.CreatedBy,
	}
}

func (s *ScheduleServiceImpl) Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	duration, err := hours.ShiftDurationHours(req.StartTime, req.EndTime)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if float64(req.BreakDuration) >= duration*60 {
		return schedule.ScheduleResponse{}, schedule.ErrBreakTooLong
	}

	emp, err := s.employeeRepo.GetEmployee(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		return schedule.ScheduleResponse{}, apperror.Transport("failed to get employee", err)
	}
	if !emp.IsActive {
		return schedule.ScheduleResponse{}, employee.ErrEmployeeInactive
	}

	date, _ := time.Parse(validator.DateLayout, req.Date)
	created, err := s.scheduleRepo.CreateSchedule(ctx, schedule.Schedule{
		BusinessID:    req.BusinessID,
		EmployeeID:    req.EmployeeID,
		Date:          date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		BreakDuration: req.BreakDuration,
		Status:        schedule.StatusScheduled,
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		return schedule.ScheduleResponse{}, apperror.Transport("failed to create schedule", err)
	}

	s.notifier.Notify(ctx, notification.Event{
		Type:        notification.TypeScheduleCreated,
		Title:       "New shift scheduled",
		Body:        fmt.Sprintf("%s %s-%s", req.Date, req.StartTime, req.EndTime),
		BusinessID:  req.BusinessID,
		RecipientID: req.EmployeeID,
		Data:        map[string]interface{}{"schedule_id": created.ID},
	})

	return mapScheduleToResponse(created), nil
}

func (s *ScheduleServiceImpl) List(ctx context.Context, businessID string, filter schedule.ScheduleFilter) ([]schedule.ScheduleResponse, error) {
	schedules, err := s.scheduleRepo.ListSchedules(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Transport("failed to list schedules", err)
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		responses = append(responses, mapScheduleToResponse(sc))
	}
	return responses, nil
}

func (s *ScheduleServiceImpl) UpdateStatus(ctx context.Context, req schedule.UpdateStatusRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	current, err := s.scheduleRepo.GetSchedule(ctx, req.BusinessID, req.ScheduleID)
	if err != nil {
		return schedule.ScheduleResponse{}, apperror.Transport("failed to get schedule", err)
	}

	next := schedule.Status(req.Status)
	if !current.Status.CanTransition(next) {
		return schedule.ScheduleResponse{}, schedule.ErrInvalidTransition
	}

	updated, err := s.scheduleRepo.UpdateScheduleStatus(ctx, req.BusinessID, req.ScheduleID, current.Status, next)
	if err != nil {
		return schedule.ScheduleResponse{}, apperror.Transport("failed to update schedule status", err)
	}
	return mapScheduleToResponse(updated), nil
}

func (s *ScheduleServiceImpl) WeeklyHours(ctx context.Context, req schedule.WeeklyHoursRequest) (schedule.WeeklyHoursResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.WeeklyHoursResponse{}, err
	}

	weekStart := hours.WeekStart(s.now(), s.loc)
	if req.WeekStart != "" {
		weekStart, _ = time.ParseInLocation(validator.DateLayout, req.WeekStart, s.loc)
	}
	weekEnd := weekStart.AddDate(0, 0, 7)
	lastDay := weekEnd.AddDate(0, 0, -1)

	schedules, err := s.scheduleRepo.ListSchedules(ctx, req.BusinessID, schedule.ScheduleFilter{
		EmployeeID: &req.EmployeeID,
		From:       &weekStart,
		To:         &lastDay,
	})
	if err != nil {
		return schedule.WeeklyHoursResponse{}, apperror.Transport("failed to list schedules", err)
	}

	sessions, err := s.sessionRepo.ListWorkSessions(ctx, req.BusinessID, timeclock.SessionFilter{
		EmployeeID: &req.EmployeeID,
		From:       &weekStart,
		To:         &weekEnd,
	})
	if err != nil {
		return schedule.WeeklyHoursResponse{}, apperror.Transport("failed to list work sessions", err)
	}

	weekly, err := hours.WeeklyHours(schedules, sessions, weekStart)
	if err != nil {
		return schedule.WeeklyHoursResponse{}, err
	}

	return schedule.WeeklyHoursResponse{
		EmployeeID:     req.EmployeeID,
		WeekStart:      weekStart.Format(validator.DateLayout),
		ScheduledHours: weekly.Scheduled,
		WorkedHours:    weekly.Worked,
		RemainingHours: weekly.Remaining,
	}, nil
}

// MarkMissed flags still-scheduled shifts dated before the day of before. A shift with a
// linked session is completed instead, or left alone while that session is open. Shifts that
// changed status concurrently are skipped.
func (s *ScheduleServiceImpl) MarkMissed(ctx context.Context, businessID string, before time.Time) (int, error) {
	status := schedule.StatusScheduled
	lastDay := before.In(s.loc).AddDate(0, 0, -1)

	schedules, err := s.scheduleRepo.ListSchedules(ctx, businessID, schedule.ScheduleFilter{
		To:     &lastDay,
		Status: &status,
	})
	if err != nil {
		return 0, apperror.Transport("failed to list schedules", err)
	}

	if len(schedules) == 0 {
		return 0, nil
	}

	// A clock-in may land the evening before the shift date.
	earliest := schedules[0].Date
	for _, sc := range schedules[1:] {
		if sc.Date.Before(earliest) {
			earliest = sc.Date
		}
	}
	from := time.Date(earliest.Year(), earliest.Month(), earliest.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, -1)
	sessions, err := s.sessionRepo.ListWorkSessions(ctx, businessID, timeclock.SessionFilter{From: &from, To: &before})
	if err != nil {
		return 0, apperror.Transport("failed to list work sessions", err)
	}

	// schedule id -> whether a linked session is still open
	worked := make(map[string]bool)
	for _, ws := range sessions {
		if ws.ScheduleID == nil {
			continue
		}
		worked[*ws.ScheduleID] = worked[*ws.ScheduleID] || ws.IsOpen()
	}

	marked := 0
	for _, sc := range schedules {
		open, linked := worked[sc.ID]
		next := schedule.StatusMissed
		switch {
		case linked && open:
			// still clocked in; ClockOut completes it
			continue
		case linked:
			next = schedule.StatusCompleted
		}

		_, err := s.scheduleRepo.UpdateScheduleStatus(ctx, businessID, sc.ID, schedule.StatusScheduled, next)
		if err != nil {
			if apperror.IsStateConflict(err) {
				continue
			}
			return marked, apperror.Transport("failed to update schedule status", err)
		}
		if next == schedule.StatusMissed {
			marked++
		}
	}

	if marked > 0 {
		s.logger.Info("schedules marked missed", "business_id", businessID, "count", marked)
	}
	return marked, nil
}
