package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/notification"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/hours"
	"github.com/shopspring/decimal"
)

// Config controls how pay periods are laid out and how entries are computed.
type Config struct {
	PeriodDays      int             // default: 14
	AnchorDate      time.Time       // first day of some period; periods repeat every PeriodDays from it
	DeductionRate   decimal.Decimal // fraction of gross withheld, e.g. 0.10
	WeeklyThreshold decimal.Decimal // hours per week paid at the regular rate, default 40
}

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	sessionRepo  timeclock.WorkSessionRepository
	notifier     notification.Notifier
	logger       *slog.Logger
	config       Config
	loc          *time.Location
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	sessionRepo timeclock.WorkSessionRepository,
	notifier notification.Notifier,
	logger *slog.Logger,
	cfg Config,
	loc *time.Location,
) payroll.PayrollService {
	if cfg.PeriodDays == 0 {
		cfg.PeriodDays = 14
	}
	if cfg.AnchorDate.IsZero() {
		// A Monday, so default periods start on Mondays.
		cfg.AnchorDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if cfg.WeeklyThreshold.IsZero() {
		cfg.WeeklyThreshold = hours.DefaultWeeklyThreshold
	}
	if notifier == nil {
		notifier = notification.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		sessionRepo:  sessionRepo,
		notifier:     notifier,
		logger:       logger,
		config:       cfg,
		loc:          loc,
	}
}

func mapPeriodToResponse(p payroll.PayrollPeriod) payroll.PeriodResponse {
	return payroll.PeriodResponse{
		ID:        p.ID,
		StartDate: p.StartDate.Format(validator.DateLayout),
		EndDate:   p.EndDate.Format(validator.DateLayout),
		Status:    p.Status,
	}
}

func mapEntryToResponse(e payroll.PayrollEntry) payroll.EntryResponse {
	return payroll.EntryResponse{
		ID:              e.ID,
		EmployeeID:      e.EmployeeID,
		EmployeeName:    e.EmployeeName,
		PayrollPeriodID: e.PayrollPeriodID,
		RegularHours:    e.RegularHours,
		OvertimeHours:   e.OvertimeHours,
		HourlyRate:      e.HourlyRate,
		OvertimeRate:    e.OvertimeRate,
		GrossPay:        e.GrossPay,
		Deductions:      e.Deductions,
		NetPay:          e.NetPay,
		Status:          e.Status,
	}
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// periodStartFor returns the first day of the period containing day.
func (s *PayrollServiceImpl) periodStartFor(day time.Time) time.Time {
	anchor := calendarDay(s.config.AnchorDate)
	days := int(calendarDay(day).Sub(anchor).Hours() / 24)
	return anchor.AddDate(0, 0, floorDiv(days, s.config.PeriodDays)*s.config.PeriodDays)
}

// statusOn is the status a period should have on today.
func statusOn(p payroll.PayrollPeriod, today time.Time) payroll.PeriodStatus {
	switch {
	case calendarDay(p.EndDate).Before(today):
		return payroll.PeriodStatusCompleted
	case calendarDay(p.StartDate).After(today):
		return payroll.PeriodStatusUpcoming
	default:
		return payroll.PeriodStatusCurrent
	}
}

func (s *PayrollServiceImpl) today(now time.Time) time.Time {
	return calendarDay(now.In(s.loc))
}

// ========== PERIODS ==========

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, businessID string) ([]payroll.PeriodResponse, error) {
	periods, err := s.payrollRepo.ListPayrollPeriods(ctx, businessID)
	if err != nil {
		return nil, apperror.Transport("failed to list payroll periods", err)
	}

	responses := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, mapPeriodToResponse(p))
	}
	return responses, nil
}

// EnsurePeriods creates every missing period from the latest stored one (or the current
// one when none exist) through the period after the current one. New periods start as
// upcoming; AdvancePeriods moves them along.
func (s *PayrollServiceImpl) EnsurePeriods(ctx context.Context, businessID string, now time.Time) ([]payroll.PeriodResponse, error) {
	if s.config.PeriodDays <= 0 {
		return nil, payroll.ErrInvalidPeriodConfig
	}

	existing, err := s.payrollRepo.ListPayrollPeriods(ctx, businessID)
	if err != nil {
		return nil, apperror.Transport("failed to list payroll periods", err)
	}

	currentStart := s.periodStartFor(s.today(now))
	lastStart := currentStart.AddDate(0, 0, s.config.PeriodDays)

	next := currentStart
	if len(existing) > 0 {
		next = latestFollowing(existing)
	}

	var created []payroll.PeriodResponse
	for !next.After(lastStart) {
		period, err := s.payrollRepo.CreatePayrollPeriod(ctx, payroll.PayrollPeriod{
			BusinessID: businessID,
			StartDate:  next,
			EndDate:    next.AddDate(0, 0, s.config.PeriodDays-1),
			Status:     payroll.PeriodStatusUpcoming,
		})
		if err != nil {
			return created, apperror.Transport("failed to create payroll period", err)
		}
		created = append(created, mapPeriodToResponse(period))
		next = next.AddDate(0, 0, s.config.PeriodDays)
	}

	return created, nil
}

// latestFollowing returns the day after the last stored period ends.
func latestFollowing(periods []payroll.PayrollPeriod) time.Time {
	var last time.Time
	for _, p := range periods {
		if end := calendarDay(p.EndDate); end.After(last) {
			last = end
		}
	}
	return last.AddDate(0, 0, 1)
}

// AdvancePeriods ensures periods exist, moves each period to the status its dates imply
// and closes periods that became completed.
func (s *PayrollServiceImpl) AdvancePeriods(ctx context.Context, businessID string, now time.Time) (payroll.AdvanceResult, error) {
	var result payroll.AdvanceResult

	created, err := s.EnsurePeriods(ctx, businessID, now)
	result.Created = len(created)
	if err != nil {
		return result, err
	}

	periods, err := s.payrollRepo.ListPayrollPeriods(ctx, businessID)
	if err != nil {
		return result, apperror.Transport("failed to list payroll periods", err)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })

	today := s.today(now)
	var completed []payroll.PayrollPeriod
	for _, p := range periods {
		if want := statusOn(p, today); p.Status != payroll.PeriodStatusCompleted && want != p.Status {
			if p.Status == payroll.PeriodStatusUpcoming {
				result.Started++
			}
			if err := s.payrollRepo.UpdatePayrollPeriodStatus(ctx, businessID, p.ID, want); err != nil {
				return result, apperror.Transport("failed to update payroll period status", err)
			}
			if want == payroll.PeriodStatusCompleted {
				result.Completed++
			}
			p.Status = want
		}
		if p.Status == payroll.PeriodStatusCompleted {
			completed = append(completed, p)
		}
	}

	// Completed periods without entries are closed on every run until entries exist.
	var errs []error
	for _, p := range completed {
		entries, err := s.ClosePeriod(ctx, businessID, p.ID)
		if errors.Is(err, payroll.ErrPeriodAlreadyClosed) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("period %s: %w", p.ID, err))
			continue
		}
		if len(entries) > 0 {
			result.Closed = append(result.Closed, p.ID)
		}
	}

	return result, errors.Join(errs...)
}

// ClosePeriod creates one draft entry per employee with completed work sessions in the
// period. Hours are split into regular and overtime per calendar week.
func (s *PayrollServiceImpl) ClosePeriod(ctx context.Context, businessID string, periodID string) ([]payroll.EntryResponse, error) {
	period, err := s.payrollRepo.GetPayrollPeriod(ctx, businessID, periodID)
	if err != nil {
		return nil, apperror.Transport("failed to get payroll period", err)
	}
	if period.Status != payroll.PeriodStatusCompleted {
		return nil, payroll.ErrPeriodNotCompleted
	}

	existing, err := s.payrollRepo.ListPayrollEntries(ctx, businessID, payroll.EntryFilter{PeriodID: &periodID})
	if err != nil {
		return nil, apperror.Transport("failed to list payroll entries", err)
	}
	if len(existing) > 0 {
		return nil, payroll.ErrPeriodAlreadyClosed
	}

	from := time.Date(period.StartDate.Year(), period.StartDate.Month(), period.StartDate.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(period.EndDate.Year(), period.EndDate.Month(), period.EndDate.Day(), 0, 0, 0, 0, s.loc).AddDate(0, 0, 1)
	sessions, err := s.sessionRepo.ListWorkSessions(ctx, businessID, timeclock.SessionFilter{From: &from, To: &to})
	if err != nil {
		return nil, apperror.Transport("failed to list work sessions", err)
	}

	employees, err := s.employeeRepo.ListEmployees(ctx, businessID, employee.EmployeeFilter{})
	if err != nil {
		return nil, apperror.Transport("failed to list employees", err)
	}

	entries := BuildEntries(period, employees, sessions, s.config, s.loc)
	if len(entries) == 0 {
		s.logger.Debug("payroll period closed without entries", "business_id", businessID, "period_id", periodID)
		return []payroll.EntryResponse{}, nil
	}

	created, err := s.payrollRepo.CreatePayrollEntries(ctx, entries)
	if err != nil {
		return nil, apperror.Transport("failed to create payroll entries", err)
	}

	summary := hours.PayrollSummary(created)
	s.logger.Info("payroll period closed",
		"business_id", businessID,
		"period_id", periodID,
		"entries", summary.EntryCount,
		"total_gross", summary.TotalGross.StringFixed(hours.CurrencyPlaces),
	)
	s.notifier.Notify(ctx, notification.Event{
		Type:       notification.TypePayrollClosed,
		Title:      "Payroll period closed",
		Body:       fmt.Sprintf("%s to %s: %d entries", period.StartDate.Format(validator.DateLayout), period.EndDate.Format(validator.DateLayout), summary.EntryCount),
		BusinessID: businessID,
		Data:       map[string]interface{}{"period_id": periodID, "total_gross": summary.TotalGross.StringFixed(hours.CurrencyPlaces)},
	})

	responses := make([]payroll.EntryResponse, 0, len(created))
	for _, e := range created {
		responses = append(responses, mapEntryToResponse(e))
	}
	return responses, nil
}

// BuildEntries computes draft entries for a period from completed sessions. Employees
// without worked hours get no entry.
func BuildEntries(period payroll.PayrollPeriod, employees []employee.Employee, sessions []timeclock.WorkSession, cfg Config, loc *time.Location) []payroll.PayrollEntry {
	if loc == nil {
		loc = time.UTC
	}
	threshold := cfg.WeeklyThreshold
	if threshold.IsZero() {
		threshold = hours.DefaultWeeklyThreshold
	}

	weekly := make(map[string]map[time.Time]decimal.Decimal)
	for _, ws := range sessions {
		if ws.IsOpen() || !period.Contains(ws.ClockInTime.In(loc)) {
			continue
		}
		week := hours.WeekStart(ws.ClockInTime, loc)
		if weekly[ws.EmployeeID] == nil {
			weekly[ws.EmployeeID] = make(map[time.Time]decimal.Decimal)
		}
		weekly[ws.EmployeeID][week] = weekly[ws.EmployeeID][week].Add(decimal.NewFromFloat(ws.TotalHours))
	}

	var entries []payroll.PayrollEntry
	for _, emp := range employees {
		weeks, ok := weekly[emp.ID]
		if !ok {
			continue
		}

		regular, overtime := decimal.Zero, decimal.Zero
		for _, worked := range weeks {
			r, o := hours.SplitOvertime(worked.Round(2), threshold)
			regular = regular.Add(r)
			overtime = overtime.Add(o)
		}
		if regular.Add(overtime).IsZero() {
			continue
		}

		overtimeRate := hours.EffectiveOvertimeRate(emp, emp.OvertimeRate)
		gross := hours.GrossPay(regular, overtime, emp.HourlyRate, overtimeRate)
		deductions := gross.Mul(cfg.DeductionRate).Round(hours.CurrencyPlaces)

		entries = append(entries, payroll.PayrollEntry{
			BusinessID:      period.BusinessID,
			EmployeeID:      emp.ID,
			PayrollPeriodID: period.ID,
			RegularHours:    regular,
			OvertimeHours:   overtime,
			HourlyRate:      emp.HourlyRate,
			OvertimeRate:    overtimeRate,
			GrossPay:        gross,
			Deductions:      deductions,
			NetPay:          hours.NetPay(gross, deductions),
			Status:          payroll.EntryStatusDraft,
		})
	}
	return entries
}

// ========== ENTRIES ==========

func (s *PayrollServiceImpl) ListEntries(ctx context.Context, businessID string, filter payroll.EntryFilter) ([]payroll.EntryResponse, error) {
	entries, err := s.payrollRepo.ListPayrollEntries(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Transport("failed to list payroll entries", err)
	}

	responses := make([]payroll.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, mapEntryToResponse(e))
	}
	return responses, nil
}

// AdvanceEntry moves an entry exactly one step along draft -> approved -> paid.
func (s *PayrollServiceImpl) AdvanceEntry(ctx context.Context, req payroll.AdvanceEntryRequest) (payroll.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EntryResponse{}, err
	}

	entry, err := s.payrollRepo.GetPayrollEntry(ctx, req.BusinessID, req.EntryID)
	if err != nil {
		return payroll.EntryResponse{}, apperror.Transport("failed to get payroll entry", err)
	}

	next, ok := entry.Status.Next()
	if !ok {
		return payroll.EntryResponse{}, payroll.ErrEntryAlreadyPaid
	}
	if payroll.EntryStatus(req.Status) != next {
		return payroll.EntryResponse{}, payroll.ErrInvalidEntryTransition
	}

	updated, err := s.payrollRepo.UpdatePayrollEntryStatus(ctx, req.BusinessID, req.EntryID, entry.Status, next)
	if err != nil {
		return payroll.EntryResponse{}, apperror.Transport("failed to update payroll entry", err)
	}
	return mapEntryToResponse(updated), nil
}

func (s *PayrollServiceImpl) Summary(ctx context.Context, businessID string, filter payroll.EntryFilter) (payroll.SummaryResponse, error) {
	entries, err := s.payrollRepo.ListPayrollEntries(ctx, businessID, filter)
	if err != nil {
		return payroll.SummaryResponse{}, apperror.Transport("failed to list payroll entries", err)
	}
	return hours.PayrollSummary(entries), nil
}

func (s *PayrollServiceImpl) Export(ctx context.Context, businessID string, periodID string) ([]byte, error) {
	period, err := s.payrollRepo.GetPayrollPeriod(ctx, businessID, periodID)
	if err != nil {
		return nil, apperror.Transport("failed to get payroll period", err)
	}

	entries, err := s.payrollRepo.ListPayrollEntries(ctx, businessID, payroll.EntryFilter{PeriodID: &periodID})
	if err != nil {
		return nil, apperror.Transport("failed to list payroll entries", err)
	}

	return WriteWorkbook(period, entries)
}
