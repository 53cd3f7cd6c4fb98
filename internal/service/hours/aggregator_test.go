package hours

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestShiftDurationHours(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 8},
		{"09:00", "17:30", 8.5},
		{"00:00", "23:59", 23 + 59.0/60},
		{"12:15", "12:30", 0.25},
	}
	for _, c := range cases {
		got, err := ShiftDurationHours(c.start, c.end)
		require.NoError(t, err, "%s-%s", c.start, c.end)
		assert.InDelta(t, c.want, got, 1e-9, "%s-%s", c.start, c.end)
	}
}

func TestShiftDurationHours_InvalidRange(t *testing.T) {
	for _, c := range [][2]string{{"17:00", "09:00"}, {"09:00", "09:00"}} {
		_, err := ShiftDurationHours(c[0], c[1])
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
		assert.Equal(t, apperror.CodeValidation, apperror.GetCode(err))
	}
}

func TestShiftDurationHours_InvalidFormat(t *testing.T) {
	for _, c := range [][2]string{{"9:00", "17:00"}, {"09:00", "25:00"}, {"", "17:00"}, {"09:00", "5pm"}} {
		_, err := ShiftDurationHours(c[0], c[1])
		assert.ErrorIs(t, err, ErrInvalidTimeFormat)
	}
}

func TestWeeklyHours(t *testing.T) {
	weekStart := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC) // Monday
	out := func(in time.Time, h float64) *time.Time {
		o := in.Add(time.Duration(h * float64(time.Hour)))
		return &o
	}

	schedules := []schedule.Schedule{
		{ID: "prev-week", Date: weekStart.AddDate(0, 0, -1), StartTime: "09:00", EndTime: "17:00"},
		{ID: "mon", Date: weekStart, StartTime: "09:00", EndTime: "17:00"},
		{ID: "tue", Date: weekStart.AddDate(0, 0, 1), StartTime: "12:00", EndTime: "16:30"},
	}

	monIn := weekStart.Add(9 * time.Hour)
	lastWeekIn := weekStart.Add(-15 * time.Hour)
	tueIn := weekStart.Add(33 * time.Hour)
	sessions := []timeclock.WorkSession{
		{ID: "old", ClockInTime: lastWeekIn, ClockOutTime: out(lastWeekIn, 8), TotalHours: 8},
		{ID: "mon", ClockInTime: monIn, ClockOutTime: out(monIn, 8), TotalHours: 7.5},
		{ID: "open", ClockInTime: tueIn},
	}

	got, err := WeeklyHours(schedules, sessions, weekStart)
	require.NoError(t, err)
	assert.InDelta(t, 12.5, got.Scheduled, 1e-9)
	assert.InDelta(t, 7.5, got.Worked, 1e-9)
	assert.InDelta(t, 5.0, got.Remaining, 1e-9)
}

func TestWeeklyHours_RemainingNeverNegative(t *testing.T) {
	weekStart := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	in := weekStart.Add(8 * time.Hour)
	o := in.Add(10 * time.Hour)

	got, err := WeeklyHours(
		[]schedule.Schedule{{ID: "s1", Date: weekStart, StartTime: "08:00", EndTime: "12:00"}},
		[]timeclock.WorkSession{{ID: "w1", ClockInTime: in, ClockOutTime: &o, TotalHours: 10}},
		weekStart,
	)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Remaining)
	assert.InDelta(t, 4.0, got.Scheduled, 1e-9)
	assert.InDelta(t, 10.0, got.Worked, 1e-9)
}

func TestWeeklyHours_MalformedScheduleFailsWhole(t *testing.T) {
	weekStart := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	schedules := []schedule.Schedule{
		{ID: "ok", Date: weekStart, StartTime: "09:00", EndTime: "17:00"},
		{ID: "bad", Date: weekStart, StartTime: "17:00", EndTime: "09:00"},
	}

	got, err := WeeklyHours(schedules, nil, weekStart)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
	assert.Equal(t, Weekly{}, got)
}

func TestSessionHours(t *testing.T) {
	in := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	assert.InDelta(t, 7.5, SessionHours(in, in.Add(8*time.Hour), 30), 1e-9)
	assert.InDelta(t, 8.0, SessionHours(in, in.Add(8*time.Hour), 0), 1e-9)
	assert.Equal(t, 0.0, SessionHours(in, in.Add(10*time.Minute), 30))
}

func TestEffectiveOvertimeRate(t *testing.T) {
	emp := employee.Employee{HourlyRate: d("15.00")}

	assert.True(t, EffectiveOvertimeRate(emp, nil).Equal(d("22.50")))
	assert.Equal(t, "22.50", EffectiveOvertimeRate(emp, nil).StringFixed(2))

	supplied := d("25")
	assert.True(t, EffectiveOvertimeRate(emp, &supplied).Equal(d("25.00")))

	odd := employee.Employee{HourlyRate: d("13.33")}
	assert.Equal(t, "20.00", EffectiveOvertimeRate(odd, nil).StringFixed(2)) // 19.995 rounds half up
}

func TestGrossAndNetPay(t *testing.T) {
	gross := GrossPay(d("80"), d("5"), d("15"), d("22.50"))
	assert.True(t, gross.Equal(d("1312.50")), "gross = %s", gross)

	net := NetPay(gross, d("100.25"))
	assert.True(t, net.Equal(d("1212.25")), "net = %s", net)
}

func TestSplitOvertime(t *testing.T) {
	regular, overtime := SplitOvertime(d("45.5"), DefaultWeeklyThreshold)
	assert.True(t, regular.Equal(d("40")))
	assert.True(t, overtime.Equal(d("5.5")))

	regular, overtime = SplitOvertime(d("32"), DefaultWeeklyThreshold)
	assert.True(t, regular.Equal(d("32")))
	assert.True(t, overtime.IsZero())
}

func TestPayrollSummary(t *testing.T) {
	entries := []payroll.PayrollEntry{
		{RegularHours: d("80"), OvertimeHours: d("5"), GrossPay: d("1312.50"), NetPay: d("1200.00"), Status: payroll.EntryStatusDraft},
		{RegularHours: d("40"), OvertimeHours: d("0"), GrossPay: d("800.00"), NetPay: d("750.00"), Status: payroll.EntryStatusPaid},
		// stored gross is trusted even when it disagrees with the rates
		{RegularHours: d("10"), OvertimeHours: d("0"), HourlyRate: d("10"), GrossPay: d("1.00"), NetPay: d("1.00"), Status: payroll.EntryStatusApproved},
	}

	got := PayrollSummary(entries)
	assert.Equal(t, 3, got.EntryCount)
	assert.True(t, got.TotalHours.Equal(d("135")))
	assert.True(t, got.TotalGross.Equal(d("2113.50")))
	assert.True(t, got.TotalNet.Equal(d("1951.00")))
	assert.Equal(t, 1, got.DraftCount)
	assert.Equal(t, 1, got.ApprovedCount)
	assert.Equal(t, 1, got.PaidCount)

	empty := PayrollSummary(nil)
	assert.True(t, empty.TotalGross.IsZero())
}

func TestWeekStart(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)

	// Sunday 23:00 local is still the week that began the previous Monday.
	sunday := time.Date(2024, time.March, 10, 23, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, loc), WeekStart(sunday, loc))

	monday := time.Date(2024, time.March, 11, 0, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, loc), WeekStart(monday, loc))
}

func TestSameDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	a := time.Date(2024, time.March, 4, 18, 0, 0, 0, time.UTC) // 01:00 on the 5th in loc
	b := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b, time.UTC))
}
