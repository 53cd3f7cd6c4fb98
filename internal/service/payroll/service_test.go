package payroll

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testBusinessID = "biz-1"

var testConfig = Config{
	PeriodDays:    14,
	AnchorDate:    time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
	DeductionRate: decimal.RequireFromString("0.10"),
}

type fixture struct {
	svc   payroll.PayrollService
	store *memory.Store
	emp   employee.Employee
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

	svc := NewPayrollService(store, store, store, nil, nil, testConfig, time.UTC)
	return fixture{svc: svc, store: store, emp: emp}
}

// work records a closed session of the given length starting at 08:00 on day.
func (f fixture) work(t *testing.T, day time.Time, worked float64) {
	t.Helper()
	ctx := context.Background()
	clockIn := day.Add(8 * time.Hour)
	session, err := f.store.ClockIn(ctx, timeclock.WorkSession{BusinessID: testBusinessID, EmployeeID: f.emp.ID, ClockInTime: clockIn})
	require.NoError(t, err)
	_, err = f.store.ClockOut(ctx, timeclock.ClockOutUpdate{
		BusinessID:   testBusinessID,
		SessionID:    session.ID,
		ClockOutTime: clockIn.Add(time.Duration(worked * float64(time.Hour))),
		TotalHours:   worked,
	})
	require.NoError(t, err)
}

// workTwoWeeks records 45h in the week of March 3 and 40h in the week of March 10.
func (f fixture) workTwoWeeks(t *testing.T) {
	t.Helper()
	for d := 0; d < 5; d++ {
		f.work(t, time.Date(2025, 3, 3+d, 0, 0, 0, 0, time.UTC), 9)
		f.work(t, time.Date(2025, 3, 10+d, 0, 0, 0, 0, time.UTC), 8)
	}
}

func (f fixture) completedPeriod(t *testing.T) payroll.PayrollPeriod {
	t.Helper()
	period, err := f.store.CreatePayrollPeriod(context.Background(), payroll.PayrollPeriod{
		BusinessID: testBusinessID,
		StartDate:  time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		Status:     payroll.PeriodStatusCompleted,
	})
	require.NoError(t, err)
	return period
}

func TestClosePeriod_WeeklyOvertimeSplit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.workTwoWeeks(t)
	f.work(t, time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC), 8) // next period
	period := f.completedPeriod(t)

	entries, err := f.svc.ClosePeriod(ctx, testBusinessID, period.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, payroll.EntryStatusDraft, e.Status)
	assert.Equal(t, "80.00", e.RegularHours.StringFixed(2))
	assert.Equal(t, "5.00", e.OvertimeHours.StringFixed(2))
	assert.Equal(t, "22.50", e.OvertimeRate.StringFixed(2))
	assert.Equal(t, "1312.50", e.GrossPay.StringFixed(2))
	assert.Equal(t, "131.25", e.Deductions.StringFixed(2))
	assert.Equal(t, "1181.25", e.NetPay.StringFixed(2))

	_, err = f.svc.ClosePeriod(ctx, testBusinessID, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyClosed)
}

func TestClosePeriod_RequiresCompletedPeriod(t *testing.T) {
	f := setup(t)
	period, err := f.store.CreatePayrollPeriod(context.Background(), payroll.PayrollPeriod{
		BusinessID: testBusinessID,
		StartDate:  time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
		Status:     payroll.PeriodStatusCurrent,
	})
	require.NoError(t, err)

	_, err = f.svc.ClosePeriod(context.Background(), testBusinessID, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotCompleted)
	assert.Equal(t, apperror.CodeStateConflict, apperror.GetCode(err))
}

func TestAdvanceEntry_NeverBackward(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.workTwoWeeks(t)
	period := f.completedPeriod(t)
	entries, err := f.svc.ClosePeriod(ctx, testBusinessID, period.ID)
	require.NoError(t, err)
	id := entries[0].ID

	_, err = f.svc.AdvanceEntry(ctx, payroll.AdvanceEntryRequest{BusinessID: testBusinessID, EntryID: id, Status: string(payroll.EntryStatusPaid)})
	assert.ErrorIs(t, err, payroll.ErrInvalidEntryTransition)

	approved, err := f.svc.AdvanceEntry(ctx, payroll.AdvanceEntryRequest{BusinessID: testBusinessID, EntryID: id, Status: string(payroll.EntryStatusApproved)})
	require.NoError(t, err)
	assert.Equal(t, payroll.EntryStatusApproved, approved.Status)

	_, err = f.svc.AdvanceEntry(ctx, payroll.AdvanceEntryRequest{BusinessID: testBusinessID, EntryID: id, Status: string(payroll.EntryStatusApproved)})
	assert.ErrorIs(t, err, payroll.ErrInvalidEntryTransition)

	paid, err := f.svc.AdvanceEntry(ctx, payroll.AdvanceEntryRequest{BusinessID: testBusinessID, EntryID: id, Status: string(payroll.EntryStatusPaid)})
	require.NoError(t, err)
	assert.Equal(t, payroll.EntryStatusPaid, paid.Status)

	_, err = f.svc.AdvanceEntry(ctx, payroll.AdvanceEntryRequest{BusinessID: testBusinessID, EntryID: id, Status: string(payroll.EntryStatusApproved)})
	assert.ErrorIs(t, err, payroll.ErrEntryAlreadyPaid)

	_, err = f.svc.AdvanceEntry(ctx, payroll.AdvanceEntryRequest{BusinessID: testBusinessID, EntryID: id, Status: string(payroll.EntryStatusDraft)})
	assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))

	summary, err := f.svc.Summary(ctx, testBusinessID, payroll.EntryFilter{PeriodID: &period.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, "85", summary.TotalHours.String())
	assert.Equal(t, "1312.50", summary.TotalGross.StringFixed(2))
}

func TestEnsurePeriods_ContiguousFixedLength(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.EnsurePeriods(ctx, testBusinessID, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "2025-03-17", created[0].StartDate)
	assert.Equal(t, "2025-03-30", created[0].EndDate)
	assert.Equal(t, "2025-03-31", created[1].StartDate)

	again, err := f.svc.EnsurePeriods(ctx, testBusinessID, time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, again)

	later, err := f.svc.EnsurePeriods(ctx, testBusinessID, time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, "2025-04-14", later[0].StartDate)
}

func TestEnsurePeriods_AnchorAfterToday(t *testing.T) {
	f := setup(t)

	created, err := f.svc.EnsurePeriods(context.Background(), testBusinessID, time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, created)
	assert.Equal(t, "2025-02-17", created[0].StartDate)
}

func TestAdvancePeriods_OneCurrentAndClosesCompleted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.workTwoWeeks(t)

	first, err := f.svc.AdvancePeriods(ctx, testBusinessID, time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 1, first.Started)
	assert.Zero(t, first.Completed)

	second, err := f.svc.AdvancePeriods(ctx, testBusinessID, time.Date(2025, 3, 18, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, second.Created)
	assert.Equal(t, 1, second.Started)
	assert.Equal(t, 1, second.Completed)
	require.Len(t, second.Closed, 1)

	periods, err := f.svc.ListPeriods(ctx, testBusinessID)
	require.NoError(t, err)
	counts := map[payroll.PeriodStatus]int{}
	for _, p := range periods {
		counts[p.Status]++
	}
	assert.Equal(t, 1, counts[payroll.PeriodStatusCurrent])
	assert.Equal(t, 1, counts[payroll.PeriodStatusCompleted])
	assert.Equal(t, 1, counts[payroll.PeriodStatusUpcoming])

	entries, err := f.svc.ListEntries(ctx, testBusinessID, payroll.EntryFilter{PeriodID: &second.Closed[0]})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1312.50", entries[0].GrossPay.StringFixed(2))
}

// flakyEntries fails the first CreatePayrollEntries call.
type flakyEntries struct {
	*memory.Store
	failed bool
}

func (f *flakyEntries) CreatePayrollEntries(ctx context.Context, entries []payroll.PayrollEntry) ([]payroll.PayrollEntry, error) {
	if !f.failed {
		f.failed = true
		return nil, errors.New("connection reset")
	}
	return f.Store.CreatePayrollEntries(ctx, entries)
}

func TestAdvancePeriods_RetriesFailedClose(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.workTwoWeeks(t)

	repo := &flakyEntries{Store: f.store}
	svc := NewPayrollService(repo, f.store, f.store, nil, nil, testConfig, time.UTC)

	_, err := svc.AdvancePeriods(ctx, testBusinessID, time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	failed, err := svc.AdvancePeriods(ctx, testBusinessID, time.Date(2025, 3, 18, 9, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeTransport, apperror.GetCode(err))
	assert.Equal(t, 1, failed.Completed)
	assert.Empty(t, failed.Closed)

	periods, err := svc.ListPeriods(ctx, testBusinessID)
	require.NoError(t, err)
	current := 0
	for _, p := range periods {
		if p.Status == payroll.PeriodStatusCurrent {
			current++
		}
	}
	assert.Equal(t, 1, current, "a failed close must not leave the business without a current period")

	retry, err := svc.AdvancePeriods(ctx, testBusinessID, time.Date(2025, 3, 18, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, retry.Completed)
	require.Len(t, retry.Closed, 1)

	entries, err := svc.ListEntries(ctx, testBusinessID, payroll.EntryFilter{PeriodID: &retry.Closed[0]})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1312.50", entries[0].GrossPay.StringFixed(2))

	again, err := svc.AdvancePeriods(ctx, testBusinessID, time.Date(2025, 3, 18, 11, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, again.Closed)
}

func TestExport_WritesRowsAndTotals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.workTwoWeeks(t)
	period := f.completedPeriod(t)
	_, err := f.svc.ClosePeriod(ctx, testBusinessID, period.ID)
	require.NoError(t, err)

	data, err := f.svc.Export(ctx, testBusinessID, period.ID)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Payroll")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Payroll 2025-03-03 to 2025-03-16 (completed)", rows[0][0])
	assert.Equal(t, "Employee ID", rows[1][0])
	assert.Equal(t, f.emp.ID, rows[2][0])
	assert.Equal(t, "Erin Barista", rows[2][1])
	assert.Equal(t, "1312.5", rows[2][6])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "85", rows[3][2])
}

func TestBuildEntries_SkipsOpenSessionsAndIdleEmployees(t *testing.T) {
	period := payroll.PayrollPeriod{
		ID:         "p1",
		BusinessID: testBusinessID,
		StartDate:  time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
	}
	rate := decimal.RequireFromString("20")
	employees := []employee.Employee{
		{ID: "worked", HourlyRate: decimal.RequireFromString("10"), OvertimeRate: &rate},
		{ID: "idle", HourlyRate: decimal.RequireFromString("10")},
	}
	out := time.Date(2025, 3, 4, 17, 0, 0, 0, time.UTC)
	sessions := []timeclock.WorkSession{
		{EmployeeID: "worked", ClockInTime: time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), ClockOutTime: &out, TotalHours: 8},
		{EmployeeID: "worked", ClockInTime: time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)},
		{EmployeeID: "idle", ClockInTime: time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)},
	}

	entries := BuildEntries(period, employees, sessions, Config{}, time.UTC)
	require.Len(t, entries, 1)
	assert.Equal(t, "worked", entries[0].EmployeeID)
	assert.Equal(t, "80.00", entries[0].GrossPay.StringFixed(2))
	assert.True(t, entries[0].Deductions.IsZero())
	assert.Equal(t, "20.00", entries[0].OvertimeRate.StringFixed(2))
}
