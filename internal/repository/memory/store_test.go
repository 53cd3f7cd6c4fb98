package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "biz-1"

var seedNow = time.Date(2025, 3, 13, 15, 0, 0, 0, time.UTC) // Thursday

func TestSeed_GeneratesBusiness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	result := store.Seed(testBusinessID, seedNow)

	assert.Equal(t, testBusinessID, result.BusinessID)
	assert.NotEmpty(t, result.OwnerID)
	assert.NotEmpty(t, result.ManagerID)
	assert.Len(t, result.StaffIDs, 3)

	employees, err := store.ListEmployees(ctx, testBusinessID, employee.EmployeeFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, employees, 5)

	var flatRate *employee.Employee
	for i := range employees {
		if employees[i].HourlyRate.Equal(decimal.RequireFromString("15.00")) {
			flatRate = &employees[i]
		}
	}
	require.NotNil(t, flatRate, "seed must include a $15/h employee")
	assert.Nil(t, flatRate.OvertimeRate)

	schedules, err := store.ListSchedules(ctx, testBusinessID, schedule.ScheduleFilter{})
	require.NoError(t, err)
	assert.Len(t, schedules, 15)

	// Monday to Wednesday are in the past for every staff member.
	sessions, err := store.ListWorkSessions(ctx, testBusinessID, timeclock.SessionFilter{})
	require.NoError(t, err)
	assert.Len(t, sessions, 9)
	for _, ws := range sessions {
		assert.False(t, ws.IsOpen())
	}

	pending := timeoff.StatusPending
	requests, err := store.ListTimeOffRequests(ctx, testBusinessID, timeoff.RequestFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, requests, 2)
	assert.True(t, requests[0].CreatedAt.After(requests[1].CreatedAt))
	assert.NotNil(t, requests[0].EmployeeName)

	periods, err := store.ListPayrollPeriods(ctx, testBusinessID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, payroll.PeriodStatusCurrent, periods[0].Status)
	assert.Equal(t, payroll.PeriodStatusCompleted, periods[1].Status)
	assert.Equal(t, periods[0].StartDate, periods[1].EndDate.AddDate(0, 0, 1))

	entries, err := store.ListPayrollEntries(ctx, testBusinessID, payroll.EntryFilter{PeriodID: &periods[1].ID})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	ids, err := store.ListBusinessIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testBusinessID}, ids)
}

func TestStore_ScopedByBusiness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	result := store.Seed(testBusinessID, seedNow)

	_, err := store.GetEmployee(ctx, "other-biz", result.OwnerID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	employees, err := store.ListEmployees(ctx, "other-biz", employee.EmployeeFilter{})
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestStore_ClockIn_OneOpenSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	session := timeclock.WorkSession{BusinessID: testBusinessID, EmployeeID: "emp-1", ClockInTime: seedNow}
	opened, err := store.ClockIn(ctx, session)
	require.NoError(t, err)
	assert.True(t, opened.IsOpen())

	_, err = store.ClockIn(ctx, session)
	assert.ErrorIs(t, err, timeclock.ErrAlreadyClockedIn)

	open, err := store.GetOpenWorkSession(ctx, testBusinessID, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, opened.ID, open.ID)

	closed, err := store.ClockOut(ctx, timeclock.ClockOutUpdate{
		BusinessID:   testBusinessID,
		SessionID:    opened.ID,
		ClockOutTime: seedNow.Add(4 * time.Hour),
		TotalHours:   4,
	})
	require.NoError(t, err)
	assert.False(t, closed.IsOpen())
	assert.Equal(t, 4.0, closed.TotalHours)

	_, err = store.ClockOut(ctx, timeclock.ClockOutUpdate{BusinessID: testBusinessID, SessionID: opened.ID, ClockOutTime: seedNow})
	assert.ErrorIs(t, err, timeclock.ErrNotClockedIn)

	open, err = store.GetOpenWorkSession(ctx, testBusinessID, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestStore_ClockIn_ConcurrentCallsOpenOneSession(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ClockIn(ctx, timeclock.WorkSession{BusinessID: testBusinessID, EmployeeID: "emp-1", ClockInTime: seedNow})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func TestStore_ResolveTimeOffRequest_OnlyFromPending(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	created, err := store.CreateTimeOffRequest(ctx, timeoff.TimeOffRequest{
		BusinessID: testBusinessID,
		EmployeeID: "emp-1",
		Type:       timeoff.TypeVacation,
		StartDate:  seedNow,
		EndDate:    seedNow.AddDate(0, 0, 2),
		Reason:     "Trip",
	})
	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusPending, created.Status)
	assert.Equal(t, 3, created.Days())

	resolved, err := store.ResolveTimeOffRequest(ctx, testBusinessID, created.ID, timeoff.StatusApproved, "mgr-1", seedNow)
	require.NoError(t, err)
	assert.Equal(t, timeoff.StatusApproved, resolved.Status)
	require.NotNil(t, resolved.ApprovedBy)
	assert.Equal(t, "mgr-1", *resolved.ApprovedBy)

	_, err = store.ResolveTimeOffRequest(ctx, testBusinessID, created.ID, timeoff.StatusDenied, "mgr-1", seedNow)
	assert.ErrorIs(t, err, timeoff.ErrInvalidTransition)
}

func TestStore_UpdateScheduleStatus_Conditional(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	created, err := store.CreateSchedule(ctx, schedule.Schedule{
		BusinessID: testBusinessID,
		EmployeeID: "emp-1",
		Date:       seedNow,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     schedule.StatusScheduled,
	})
	require.NoError(t, err)

	_, err = store.UpdateScheduleStatus(ctx, testBusinessID, created.ID, schedule.StatusScheduled, schedule.StatusCompleted)
	require.NoError(t, err)

	_, err = store.UpdateScheduleStatus(ctx, testBusinessID, created.ID, schedule.StatusScheduled, schedule.StatusMissed)
	assert.ErrorIs(t, err, schedule.ErrInvalidTransition)
}

func TestStore_CreatePayrollEntries_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	entry := payroll.PayrollEntry{
		BusinessID:      testBusinessID,
		EmployeeID:      "emp-1",
		PayrollPeriodID: "period-1",
		Status:          payroll.EntryStatusDraft,
	}
	created, err := store.CreatePayrollEntries(ctx, []payroll.PayrollEntry{entry})
	require.NoError(t, err)
	require.Len(t, created, 1)

	_, err = store.CreatePayrollEntries(ctx, []payroll.PayrollEntry{entry})
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyClosed)

	_, err = store.UpdatePayrollEntryStatus(ctx, testBusinessID, created[0].ID, payroll.EntryStatusApproved, payroll.EntryStatusPaid)
	assert.ErrorIs(t, err, payroll.ErrEntryStatusConflict)
}
