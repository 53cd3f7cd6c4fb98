package timeclock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "biz-1"

type fixture struct {
	svc   *TimeClockServiceImpl
	store *memory.Store
	emp   employee.Employee
	clock *time.Time
}

func setup(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	emp, err := store.CreateEmployee(context.Background(), employee.Employee{
		BusinessID: testBusinessID,
		Name:       "Erin Barista",
		Role:       employee.RoleEmployee,
		HourlyRate: decimal.RequireFromString("15.00"),
		IsActive:   true,
	})
	require.NoError(t, err)

	clock := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	svc := NewTimeClockService(store, store, store, nil, nil, time.UTC).(*TimeClockServiceImpl)
	svc.now = func() time.Time { return clock }

	return fixture{svc: svc, store: store, emp: emp, clock: &clock}
}

func (f fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestClockIn_WhileActiveConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID}

	opened, err := f.svc.ClockIn(ctx, req)
	require.NoError(t, err)
	assert.True(t, opened.IsActive)

	_, err = f.svc.ClockIn(ctx, req)
	assert.ErrorIs(t, err, timeclock.ErrAlreadyClockedIn)
	assert.Equal(t, apperror.CodeStateConflict, apperror.GetCode(err))
}

func TestClockOut_WithoutActiveConflicts(t *testing.T) {
	f := setup(t)

	_, err := f.svc.ClockOut(context.Background(), timeclock.ClockOutRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)
	assert.Equal(t, apperror.CodeStateConflict, apperror.GetCode(err))
}

func TestClockOut_ComputesHoursAndCompletesSchedule(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sc, err := f.store.CreateSchedule(ctx, schedule.Schedule{
		BusinessID:    testBusinessID,
		EmployeeID:    f.emp.ID,
		Date:          *f.clock,
		StartTime:     "09:00",
		EndTime:       "17:30",
		BreakDuration: 30,
		Status:        schedule.StatusScheduled,
	})
	require.NoError(t, err)

	opened, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID, ScheduleID: &sc.ID})
	require.NoError(t, err)
	assert.Equal(t, 30, opened.BreakDuration)

	f.advance(8*time.Hour + 30*time.Minute)

	closed, err := f.svc.ClockOut(ctx, timeclock.ClockOutRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.InDelta(t, 8.0, closed.TotalHours, 1e-9)

	got, err := f.store.GetSchedule(ctx, testBusinessID, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.StatusCompleted, got.Status)

	_, err = f.svc.ClockOut(ctx, timeclock.ClockOutRequest{BusinessID: testBusinessID, SessionID: closed.ID})
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)
}

func TestClockOut_BreakOverrideFloorsAtZero(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	require.NoError(t, err)
	f.advance(20 * time.Minute)

	breakMinutes := 45
	closed, err := f.svc.ClockOut(ctx, timeclock.ClockOutRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID, BreakMinutes: &breakMinutes})
	require.NoError(t, err)
	assert.Zero(t, closed.TotalHours)
	assert.Equal(t, 45, closed.BreakDuration)
}

func TestClockOut_OtherEmployeesSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	opened, err := f.svc.ClockIn(ctx, timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	require.NoError(t, err)

	_, err = f.svc.ClockOut(ctx, timeclock.ClockOutRequest{BusinessID: testBusinessID, EmployeeID: "someone-else", SessionID: opened.ID})
	assert.ErrorIs(t, err, timeclock.ErrSessionNotOwned)
}

func TestClockIn_ScheduleOfAnotherEmployee(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	sc, err := f.store.CreateSchedule(ctx, schedule.Schedule{
		BusinessID: testBusinessID,
		EmployeeID: "someone-else",
		Date:       *f.clock,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     schedule.StatusScheduled,
	})
	require.NoError(t, err)

	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID, ScheduleID: &sc.ID})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotOwned)
}

func TestActiveSession_SameDayOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	active, err := f.svc.ActiveSession(ctx, testBusinessID, f.emp.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	require.NoError(t, err)
	f.advance(90 * time.Minute)

	active, err = f.svc.ActiveSession(ctx, testBusinessID, f.emp.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, int64(5400), active.ElapsedSeconds)

	// Still open the next day: not reported as active, but clocking in again conflicts.
	f.advance(24 * time.Hour)
	active, err = f.svc.ActiveSession(ctx, testBusinessID, f.emp.ID)
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = f.svc.ClockIn(ctx, timeclock.ClockInRequest{BusinessID: testBusinessID, EmployeeID: f.emp.ID})
	assert.ErrorIs(t, err, timeclock.ErrAlreadyClockedIn)
}

func TestActiveSessionOf_UsesBusinessTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	clockIn := time.Date(2025, 3, 12, 23, 0, 0, 0, loc) // 04:00 UTC on the 13th
	session := &timeclock.WorkSession{ID: "s1", ClockInTime: clockIn}

	assert.NotNil(t, ActiveSessionOf(session, clockIn.Add(30*time.Minute), loc))
	assert.Nil(t, ActiveSessionOf(session, clockIn.Add(2*time.Hour), loc))
	assert.Nil(t, ActiveSessionOf(nil, clockIn, loc))
}

type failingSessions struct {
	timeclock.WorkSessionRepository
}

func (failingSessions) GetOpenWorkSession(context.Context, string, string) (*timeclock.WorkSession, error) {
	return nil, errors.New("i/o timeout")
}

func TestActiveSession_TransportError(t *testing.T) {
	svc := NewTimeClockService(failingSessions{}, nil, nil, nil, nil, nil)

	_, err := svc.ActiveSession(context.Background(), testBusinessID, "emp-1")
	assert.Equal(t, apperror.CodeTransport, apperror.GetCode(err))
}
