package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
)

// HRJobs keeps payroll periods and shift statuses in step with the calendar for every business.
type HRJobs struct {
	employeeRepo    employee.EmployeeRepository
	payrollService  payroll.PayrollService
	scheduleService schedule.ScheduleService
	logger          *slog.Logger
	now             func() time.Time
}

func NewHRJobs(
	employeeRepo employee.EmployeeRepository,
	payrollService payroll.PayrollService,
	scheduleService schedule.ScheduleService,
	logger *slog.Logger,
) *HRJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &HRJobs{
		employeeRepo:    employeeRepo,
		payrollService:  payrollService,
		scheduleService: scheduleService,
		logger:          logger,
		now:             time.Now,
	}
}

func (j *HRJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("advance_payroll_periods", interval, j.AdvancePayrollPeriods)
	scheduler.AddJob("mark_missed_schedules", interval, j.MarkMissedSchedules)
}

// AdvancePayrollPeriods generates, advances and closes payroll periods. A failing business
// does not stop the others; all failures are returned joined.
func (j *HRJobs) AdvancePayrollPeriods(ctx context.Context) error {
	now := j.now()
	return j.forEachBusiness(ctx, func(businessID string) error {
		result, err := j.payrollService.AdvancePeriods(ctx, businessID, now)
		if err != nil {
			return err
		}
		if result.Created > 0 || result.Started > 0 || result.Completed > 0 || len(result.Closed) > 0 {
			j.logger.Info("cron: payroll periods advanced",
				"business_id", businessID,
				"created", result.Created,
				"started", result.Started,
				"completed", result.Completed,
				"closed", len(result.Closed),
			)
		}
		return nil
	})
}

// MarkMissedSchedules flags shifts from earlier days that were never worked.
func (j *HRJobs) MarkMissedSchedules(ctx context.Context) error {
	now := j.now()
	return j.forEachBusiness(ctx, func(businessID string) error {
		_, err := j.scheduleService.MarkMissed(ctx, businessID, now)
		return err
	})
}

func (j *HRJobs) forEachBusiness(ctx context.Context, fn func(businessID string) error) error {
	businessIDs, err := j.employeeRepo.ListBusinessIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list businesses: %w", err)
	}

	var errs []error
	for _, businessID := range businessIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(businessID); err != nil {
			errs = append(errs, fmt.Errorf("business %s: %w", businessID, err))
		}
	}
	return errors.Join(errs...)
}
