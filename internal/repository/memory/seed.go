package memory

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
	"github.com/shopspring/decimal"
)

// SeedResult lists the ids generated by Seed so callers can mint tokens or run demos.
type SeedResult struct {
	BusinessID string
	OwnerID    string
	ManagerID  string
	StaffIDs   []string
}

type seedEmployee struct {
	name         string
	email        string
	role         employee.Role
	hourlyRate   string
	overtimeRate string
}

var seedEmployees = []seedEmployee{
	{name: "Olivia Owner", email: "olivia@example.com", role: employee.RoleOwner, hourlyRate: "35.00", overtimeRate: "52.50"},
	{name: "Marcus Manager", email: "marcus@example.com", role: employee.RoleManager, hourlyRate: "24.00", overtimeRate: "36.00"},
	{name: "Erin Barista", email: "erin@example.com", role: employee.RoleEmployee, hourlyRate: "15.00"},
	{name: "Sam Cashier", email: "sam@example.com", role: employee.RoleEmployee, hourlyRate: "16.50", overtimeRate: "25.00"},
	{name: "Priya Cook", email: "priya@example.com", role: employee.RoleEmployee, hourlyRate: "18.25"},
}

// Seed fills the store with a realistic small business: staff with rates, this week's
// shifts, worked sessions for the days already past, time-off requests in every status
// and a closed bi-weekly payroll period followed by the current one.
func (s *Store) Seed(businessID string, now time.Time) SeedResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := SeedResult{BusinessID: businessID}
	today := dateOnly(now)
	weekStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	hireDate := weekStart.AddDate(-1, 0, 0)

	staff := make([]employee.Employee, 0, len(seedEmployees))
	for _, se := range seedEmployees {
		email := se.email
		emp := employee.Employee{
			ID:         newID(),
			BusinessID: businessID,
			Name:       se.name,
			Email:      &email,
			Role:       se.role,
			HourlyRate: decimal.RequireFromString(se.hourlyRate),
			StartDate:  hireDate,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if se.overtimeRate != "" {
			rate := decimal.RequireFromString(se.overtimeRate)
			emp.OvertimeRate = &rate
		}
		s.employees[emp.ID] = emp

		switch se.role {
		case employee.RoleOwner:
			result.OwnerID = emp.ID
		case employee.RoleManager:
			result.ManagerID = emp.ID
		default:
			result.StaffIDs = append(result.StaffIDs, emp.ID)
			staff = append(staff, emp)
		}
	}

	for i, emp := range staff {
		for day := 0; day < 5; day++ {
			date := weekStart.AddDate(0, 0, day)
			startHour := 8 + i
			sc := schedule.Schedule{
				ID:            newID(),
				BusinessID:    businessID,
				EmployeeID:    emp.ID,
				Date:          date,
				StartTime:     fmt.Sprintf("%02d:00", startHour),
				EndTime:       fmt.Sprintf("%02d:30", startHour+8),
				BreakDuration: 30,
				Status:        schedule.StatusScheduled,
				CreatedBy:     result.ManagerID,
				CreatedAt:     now,
				UpdatedAt:     now,
			}

			if date.Before(today) {
				scheduleID := sc.ID
				clockIn := date.Add(time.Duration(startHour) * time.Hour)
				clockOut := clockIn.Add(8*time.Hour + 30*time.Minute)
				ws := timeclock.WorkSession{
					ID:            newID(),
					BusinessID:    businessID,
					EmployeeID:    emp.ID,
					ScheduleID:    &scheduleID,
					ClockInTime:   clockIn,
					ClockOutTime:  &clockOut,
					BreakDuration: 30,
					TotalHours:    8,
					CreatedAt:     clockIn,
					UpdatedAt:     clockOut,
				}
				s.sessions[ws.ID] = ws
				sc.Status = schedule.StatusCompleted
			}
			s.schedules[sc.ID] = sc
		}
	}

	s.seedTimeOffLocked(businessID, result, today, now)
	s.seedPayrollLocked(businessID, staff, today, now)

	return result
}

func (s *Store) seedTimeOffLocked(businessID string, result SeedResult, today, now time.Time) {
	if len(result.StaffIDs) < 3 {
		return
	}

	approvedAt := now.Add(-48 * time.Hour)
	deniedAt := now.Add(-24 * time.Hour)
	requests := []timeoff.TimeOffRequest{
		{
			EmployeeID: result.StaffIDs[0],
			Type:       timeoff.TypeVacation,
			StartDate:  today.AddDate(0, 0, 14),
			EndDate:    today.AddDate(0, 0, 18),
			Reason:     "Family trip",
			Status:     timeoff.StatusPending,
			CreatedAt:  now.Add(-2 * time.Hour),
		},
		{
			EmployeeID: result.StaffIDs[1],
			Type:       timeoff.TypePersonal,
			StartDate:  today.AddDate(0, 0, 7),
			EndDate:    today.AddDate(0, 0, 7),
			Reason:     "Moving apartments",
			Status:     timeoff.StatusPending,
			CreatedAt:  now.Add(-1 * time.Hour),
		},
		{
			EmployeeID: result.StaffIDs[2],
			Type:       timeoff.TypeSick,
			StartDate:  today.AddDate(0, 0, -10),
			EndDate:    today.AddDate(0, 0, -9),
			Reason:     "Flu",
			Status:     timeoff.StatusApproved,
			ApprovedBy: &result.ManagerID,
			ApprovedAt: &approvedAt,
			CreatedAt:  now.Add(-72 * time.Hour),
		},
		{
			EmployeeID: result.StaffIDs[0],
			Type:       timeoff.TypePersonal,
			StartDate:  today.AddDate(0, 0, 3),
			EndDate:    today.AddDate(0, 0, 3),
			Reason:     "Concert",
			Status:     timeoff.StatusDenied,
			ApprovedBy: &result.OwnerID,
			ApprovedAt: &deniedAt,
			CreatedAt:  now.Add(-30 * time.Hour),
		},
	}

	for _, r := range requests {
		r.ID = newID()
		r.BusinessID = businessID
		r.UpdatedAt = r.CreatedAt
		if r.ApprovedAt != nil {
			r.UpdatedAt = *r.ApprovedAt
		}
		s.timeOff[r.ID] = r
	}
}

func (s *Store) seedPayrollLocked(businessID string, staff []employee.Employee, today, now time.Time) {
	currentStart := today.AddDate(0, 0, -((int(today.Weekday()) + 6) % 7))
	previous := payroll.PayrollPeriod{
		ID:         newID(),
		BusinessID: businessID,
		StartDate:  currentStart.AddDate(0, 0, -14),
		EndDate:    currentStart.AddDate(0, 0, -1),
		Status:     payroll.PeriodStatusCompleted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	current := payroll.PayrollPeriod{
		ID:         newID(),
		BusinessID: businessID,
		StartDate:  currentStart,
		EndDate:    currentStart.AddDate(0, 0, 13),
		Status:     payroll.PeriodStatusCurrent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.periods[previous.ID] = previous
	s.periods[current.ID] = current

	regular := decimal.NewFromInt(80)
	overtime := decimal.NewFromInt(5)
	deductionRate := decimal.RequireFromString("0.10")
	for _, emp := range staff {
		overtimeRate := emp.HourlyRate.Mul(decimal.RequireFromString("1.5")).Round(2)
		if emp.OvertimeRate != nil {
			overtimeRate = *emp.OvertimeRate
		}
		gross := regular.Mul(emp.HourlyRate).Add(overtime.Mul(overtimeRate)).Round(2)
		deductions := gross.Mul(deductionRate).Round(2)
		entry := payroll.PayrollEntry{
			ID:              newID(),
			BusinessID:      businessID,
			EmployeeID:      emp.ID,
			PayrollPeriodID: previous.ID,
			RegularHours:    regular,
			OvertimeHours:   overtime,
			HourlyRate:      emp.HourlyRate,
			OvertimeRate:    overtimeRate,
			GrossPay:        gross,
			Deductions:      deductions,
			NetPay:          gross.Sub(deductions),
			Status:          payroll.EntryStatusDraft,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		s.payrollEntries[entry.ID] = entry
	}
}
