package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/notification"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/repository/memory"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/hours"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "biz-1"

// Wednesday 2025-03-12 10:00 UTC; the week starts Monday 2025-03-10.
var testNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *recordingNotifier) Notify(_ context.Context, ev notification.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type fixture struct {
	svc      *ScheduleServiceImpl
	store    *memory.Store
	notifier *recordingNotifier
	emp      employee.Employee
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}

	emp, err := store.CreateEmployee(context.Background(), employee.Employee{
		BusinessID: testBusinessID,
		Name:       "Erin Barista",
		Role:       employee.RoleEmployee,
		HourlyRate: decimal.RequireFromString("15.00"),
		IsActive:   true,
	})
	require.NoError(t, err)

	svc := NewScheduleService(store, store, store, notifier, nil, time.UTC).(*ScheduleServiceImpl)
	svc.now = func() time.Time { return testNow }

	return fixture{svc: svc, store: store, notifier: notifier, emp: emp}
}

func (f fixture) createShift(t *testing.T, date, start, end string) schedule.ScheduleResponse {
	t.Helper()
	created, err := f.svc.Create(context.Background(), schedule.CreateScheduleRequest{
		BusinessID:    testBusinessID,
		CreatedBy:     "mgr-1",
		EmployeeID:    f.emp.ID,
		Date:          date,
		StartTime:     start,
		EndTime:       end,
		BreakDuration: 30,
	})
	require.NoError(t, err)
	return created
}

func TestScheduleService_Create(t *testing.T) {
	f := setup(t)

	created := f.createShift(t, "2025-03-10", "09:00", "17:00")
	assert.Equal(t, schedule.StatusScheduled, created.Status)
	assert.Equal(t, 8.0, created.DurationHours)
	assert.Equal(t, "2025-03-10", created.Date)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notification.TypeScheduleCreated, f.notifier.events[0].Type)
	assert.Equal(t, f.emp.ID, f.notifier.events[0].RecipientID)
}

func TestScheduleService_Create_Rejects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		start   string
		end     string
		brk     int
		wantErr error
	}{
		{name: "end before start", start: "17:00", end: "09:00", wantErr: hours.ErrInvalidTimeRange},
		{name: "zero length", start: "09:00", end: "09:00", wantErr: hours.ErrInvalidTimeRange},
		{name: "break as long as shift", start: "09:00", end: "10:00", brk: 60, wantErr: schedule.ErrBreakTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, schedule.CreateScheduleRequest{
				BusinessID:    testBusinessID,
				EmployeeID:    f.emp.ID,
				Date:          "2025-03-10",
				StartTime:     tt.start,
				EndTime:       tt.end,
				BreakDuration: tt.brk,
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
		})
	}

	_, err := f.svc.Create(ctx, schedule.CreateScheduleRequest{
		BusinessID: testBusinessID,
		EmployeeID: f.emp.ID,
		Date:       "2025-03-10",
		StartTime:  "9am",
		EndTime:    "17:00",
	})
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	assert.Empty(t, f.notifier.events)
}

func TestScheduleService_Create_InactiveEmployee(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.store.SetEmployeeActive(context.Background(), testBusinessID, f.emp.ID, false))

	_, err := f.svc.Create(context.Background(), schedule.CreateScheduleRequest{
		BusinessID: testBusinessID,
		EmployeeID: f.emp.ID,
		Date:       "2025-03-10",
		StartTime:  "09:00",
		EndTime:    "17:00",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestScheduleService_UpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	created := f.createShift(t, "2025-03-10", "09:00", "17:00")

	updated, err := f.svc.UpdateStatus(ctx, schedule.UpdateStatusRequest{
		BusinessID: testBusinessID,
		ScheduleID: created.ID,
		Status:     string(schedule.StatusCancelled),
	})
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCancelled, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, schedule.UpdateStatusRequest{
		BusinessID: testBusinessID,
		ScheduleID: created.ID,
		Status:     string(schedule.StatusScheduled),
	})
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)
}

func TestScheduleService_WeeklyHours(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.createShift(t, "2025-03-07", "09:00", "17:00") // previous week
	f.createShift(t, "2025-03-10", "09:00", "17:00")
	f.createShift(t, "2025-03-11", "12:00", "16:30")
	f.createShift(t, "2025-03-17", "09:00", "17:00") // next week

	clockIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session, err := f.store.ClockIn(ctx, timeclock.WorkSession{BusinessID: testBusinessID, EmployeeID: f.emp.ID, ClockInTime: clockIn})
	require.NoError(t, err)
	_, err = f.store.ClockOut(ctx, timeclock.ClockOutUpdate{
		BusinessID:   testBusinessID,
		SessionID:    session.ID,
		ClockOutTime: clockIn.Add(8 * time.Hour),
		TotalHours:   7.5,
	})
	require.NoError(t, err)

	weekly, err := f.svc.WeeklyHours(ctx, schedule.WeeklyHoursRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", weekly.WeekStart)
	assert.InDelta(t, 12.5, weekly.ScheduledHours, 1e-9)
	assert.InDelta(t, 7.5, weekly.WorkedHours, 1e-9)
	assert.InDelta(t, 5.0, weekly.RemainingHours, 1e-9)

	next, err := f.svc.WeeklyHours(ctx, schedule.WeeklyHoursRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID, WeekStart: "2025-03-17"})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, next.ScheduledHours, 1e-9)
	assert.Zero(t, next.WorkedHours)
}

func TestScheduleService_MarkMissed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	past := f.createShift(t, "2025-03-10", "09:00", "17:00")
	done := f.createShift(t, "2025-03-11", "09:00", "17:00")
	today := f.createShift(t, "2025-03-12", "09:00", "17:00")

	_, err := f.store.UpdateScheduleStatus(ctx, testBusinessID, done.ID, schedule.StatusScheduled, schedule.StatusCompleted)
	require.NoError(t, err)

	marked, err := f.svc.MarkMissed(ctx, testBusinessID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	got, err := f.store.GetSchedule(ctx, testBusinessID, past.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusMissed, got.Status)

	got, err = f.store.GetSchedule(ctx, testBusinessID, today.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusScheduled, got.Status)
}

func TestScheduleService_MarkMissed_SkipsWorkedShifts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	overnight := f.createShift(t, "2025-03-11", "18:00", "23:30")
	worked := f.createShift(t, "2025-03-10", "09:00", "17:00")
	skipped := f.createShift(t, "2025-03-10", "18:00", "22:00")

	clockIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	session, err := f.store.ClockIn(ctx, timeclock.WorkSession{
		BusinessID:  testBusinessID,
		EmployeeID:  f.emp.ID,
		ScheduleID:  &worked.ID,
		ClockInTime: clockIn,
	})
	require.NoError(t, err)
	_, err = f.store.ClockOut(ctx, timeclock.ClockOutUpdate{
		BusinessID:   testBusinessID,
		SessionID:    session.ID,
		ClockOutTime: clockIn.Add(8 * time.Hour),
		TotalHours:   7.5,
	})
	require.NoError(t, err)

	_, err = f.store.ClockIn(ctx, timeclock.WorkSession{
		BusinessID:  testBusinessID,
		EmployeeID:  f.emp.ID,
		ScheduleID:  &overnight.ID,
		ClockInTime: time.Date(2025, 3, 11, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	marked, err := f.svc.MarkMissed(ctx, testBusinessID, time.Date(2025, 3, 12, 0, 10, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	tests := []struct {
		id   string
		want schedule.Status
	}{
		{overnight.ID, schedule.StatusScheduled},
		{worked.ID, schedule.StatusCompleted},
		{skipped.ID, schedule.StatusMissed},
	}
	for _, tt := range tests {
		got, err := f.store.GetSchedule(ctx, testBusinessID, tt.id)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Status, "schedule %s", tt.id)
	}
}
