// Package hours holds the pure hour and pay computations shared by the schedule,
// time-clock and payroll services. Nothing here does I/O or keeps state.
package hours

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTimeFormat = apperror.New(apperror.CodeValidation, "time must be in HH:MM format")
	ErrInvalidTimeRange  = apperror.New(apperror.CodeValidation, "end time must be after start time")
)

// OvertimeMultiplier is applied to the hourly rate when no overtime rate is set.
var OvertimeMultiplier = decimal.NewFromFloat(1.5)

// CurrencyPlaces is the precision of every displayed amount.
const CurrencyPlaces = 2

// DefaultWeeklyThreshold is the number of hours per week paid at the regular rate.
var DefaultWeeklyThreshold = decimal.NewFromInt(40)

var referenceDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

func parseClock(s string) (time.Time, error) {
	if !validator.IsValidClock(s) {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	t, err := time.Parse(validator.ClockLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidTimeFormat)
	}
	return referenceDate.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// ShiftDurationHours returns end - start in hours for two "HH:MM" times on the same day.
func ShiftDurationHours(startTime, endTime string) (float64, error) {
	start, err := parseClock(startTime)
	if err != nil {
		return 0, err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return 0, err
	}
	if !end.After(start) {
		return 0, fmt.Errorf("%s-%s: %w", startTime, endTime, ErrInvalidTimeRange)
	}
	return end.Sub(start).Hours(), nil
}

// Weekly is the scheduled/worked/remaining breakdown for one week.
type Weekly struct {
	Scheduled float64
	Worked    float64
	Remaining float64
}

// WeeklyHours sums shift durations dated on or after weekStart and the hours of completed
// sessions clocked in at or after weekStart. One malformed schedule fails the whole call.
func WeeklyHours(schedules []schedule.Schedule, sessions []timeclock.WorkSession, weekStart time.Time) (Weekly, error) {
	var result Weekly
	startDay := dateOnly(weekStart)

	for _, s := range schedules {
		if dateOnly(s.Date).Before(startDay) {
			continue
		}
		duration, err := ShiftDurationHours(s.StartTime, s.EndTime)
		if err != nil {
			return Weekly{}, fmt.Errorf("schedule %s: %w", s.ID, err)
		}
		result.Scheduled += duration
	}

	for _, s := range sessions {
		if s.ClockOutTime == nil || s.ClockInTime.Before(weekStart) {
			continue
		}
		result.Worked += s.TotalHours
	}

	result.Remaining = math.Max(0, result.Scheduled-result.Worked)
	return result, nil
}

// SessionHours is (clockOut - clockIn) minus the break, floored at zero.
func SessionHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	worked := clockOut.Sub(clockIn).Hours() - float64(breakMinutes)/60
	return math.Max(0, worked)
}

// PayrollSummary totals stored entries for display. Gross pay is trusted as stored.
func PayrollSummary(entries []payroll.PayrollEntry) payroll.SummaryResponse {
	summary := payroll.SummaryResponse{
		EntryCount: len(entries),
		TotalHours: decimal.Zero,
		TotalGross: decimal.Zero,
		TotalNet:   decimal.Zero,
	}

	for _, e := range entries {
		summary.TotalHours = summary.TotalHours.Add(e.RegularHours).Add(e.OvertimeHours)
		summary.TotalGross = summary.TotalGross.Add(e.GrossPay)
		summary.TotalNet = summary.TotalNet.Add(e.NetPay)

		switch e.Status {
		case payroll.EntryStatusDraft:
			summary.DraftCount++
		case payroll.EntryStatusApproved:
			summary.ApprovedCount++
		case payroll.EntryStatusPaid:
			summary.PaidCount++
		}
	}

	return summary
}

// EffectiveOvertimeRate returns supplied when present, otherwise 1.5x the hourly rate,
// rounded to currency precision.
func EffectiveOvertimeRate(emp employee.Employee, supplied *decimal.Decimal) decimal.Decimal {
	if supplied != nil {
		return supplied.Round(CurrencyPlaces)
	}
	return emp.HourlyRate.Mul(OvertimeMultiplier).Round(CurrencyPlaces)
}

// GrossPay = regular*hourly + overtime*overtimeRate, rounded to currency precision.
func GrossPay(regularHours, overtimeHours, hourlyRate, overtimeRate decimal.Decimal) decimal.Decimal {
	return regularHours.Mul(hourlyRate).Add(overtimeHours.Mul(overtimeRate)).Round(CurrencyPlaces)
}

// NetPay = gross - deductions.
func NetPay(grossPay, deductions decimal.Decimal) decimal.Decimal {
	return grossPay.Sub(deductions).Round(CurrencyPlaces)
}

// SplitOvertime splits one week's hours at threshold.
func SplitOvertime(weekHours, threshold decimal.Decimal) (regular, overtime decimal.Decimal) {
	if weekHours.LessThanOrEqual(threshold) {
		return weekHours, decimal.Zero
	}
	return threshold, weekHours.Sub(threshold)
}

// WeekStart returns Monday 00:00 of t's week in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -offset)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
