package employee

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/apperror"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/service/hours"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	logger       *slog.Logger
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, logger *slog.Logger) employee.EmployeeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		logger:       logger,
	}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	return employee.EmployeeResponse{
		ID:           emp.ID,
		BusinessID:   emp.BusinessID,
		UserID:       emp.UserID,
		Name:         emp.Name,
		Email:        emp.Email,
		Role:         emp.Role,
		HourlyRate:   emp.HourlyRate,
		OvertimeRate: hours.EffectiveOvertimeRate(emp, emp.OvertimeRate),
		StartDate:    emp.StartDate.Format(validator.DateLayout),
		IsActive:     emp.IsActive,
		CreatedAt:    emp.CreatedAt,
	}
}

func (s *EmployeeServiceImpl) List(ctx context.Context, businessID string, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.ListEmployees(ctx, businessID, filter)
	if err != nil {
		return nil, apperror.Transport("failed to list employees", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, mapEmployeeToResponse(emp))
	}
	return responses, nil
}

func (s *EmployeeServiceImpl) Get(ctx context.Context, businessID string, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetEmployee(ctx, businessID, id)
	if err != nil {
		return employee.EmployeeResponse{}, apperror.Transport("failed to get employee", err)
	}
	return mapEmployeeToResponse(emp), nil
}

func (s *EmployeeServiceImpl) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	startDate, _ := time.Parse(validator.DateLayout, req.StartDate)
	emp := employee.Employee{
		BusinessID: req.BusinessID,
		UserID:     req.UserID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Role:       employee.Role(req.Role),
		HourlyRate: req.HourlyRate,
		StartDate:  startDate,
		IsActive:   true,
	}
	if req.OvertimeRate != nil {
		rate := hours.EffectiveOvertimeRate(emp, req.OvertimeRate)
		emp.OvertimeRate = &rate
	}

	created, err := s.employeeRepo.CreateEmployee(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, apperror.Transport("failed to create employee", err)
	}

	s.logger.Info("employee created", "business_id", created.BusinessID, "employee_id", created.ID, "role", created.Role)
	return mapEmployeeToResponse(created), nil
}

// UpdateRate stores the hourly rate together with the effective overtime rate, so a
// missing overtime rate is persisted as 1.5x the new hourly rate.
func (s *EmployeeServiceImpl) UpdateRate(ctx context.Context, req employee.UpdateRateRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	existing, err := s.employeeRepo.GetEmployee(ctx, req.BusinessID, req.EmployeeID)
	if err != nil {
		return employee.EmployeeResponse{}, apperror.Transport("failed to get employee", err)
	}
	if !existing.IsActive {
		return employee.EmployeeResponse{}, employee.ErrEmployeeInactive
	}

	existing.HourlyRate = req.HourlyRate
	overtimeRate := hours.EffectiveOvertimeRate(existing, req.OvertimeRate)

	updated, err := s.employeeRepo.UpdateEmployeeRate(ctx, req.BusinessID, req.EmployeeID, req.HourlyRate, overtimeRate)
	if err != nil {
		return employee.EmployeeResponse{}, apperror.Transport("failed to update employee rate", err)
	}

	s.logger.Info("employee rate updated",
		"business_id", req.BusinessID,
		"employee_id", req.EmployeeID,
		"hourly_rate", updated.HourlyRate.StringFixed(hours.CurrencyPlaces),
		"overtime_rate", overtimeRate.StringFixed(hours.CurrencyPlaces),
	)
	return mapEmployeeToResponse(updated), nil
}

func (s *EmployeeServiceImpl) Deactivate(ctx context.Context, businessID string, id string) error {
	existing, err := s.employeeRepo.GetEmployee(ctx, businessID, id)
	if err != nil {
		return apperror.Transport("failed to get employee", err)
	}
	if !existing.IsActive {
		return employee.ErrEmployeeAlreadyInactive
	}

	if err := s.employeeRepo.SetEmployeeActive(ctx, businessID, id, false); err != nil {
		return apperror.Transport("failed to deactivate employee", err)
	}
	return nil
}
