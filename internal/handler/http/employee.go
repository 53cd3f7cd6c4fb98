package http

import (
	"net/http"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UpdateRate(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}

// List returns the business's employees. Query: active=true, role=<role>.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	filter := employee.EmployeeFilter{ActiveOnly: r.URL.Query().Get("active") == "true"}
	if role := r.URL.Query().Get("role"); role != "" {
		if !validator.IsInSlice(role, employee.RoleValues) {
			response.ValidationError(w, map[string]string{"role": "role must be one of owner, manager, employee"})
			return
		}
		rl := employee.Role(role)
		filter.Role = &rl
	}

	employees, err := h.employeeService.List(r.Context(), claims.BusinessID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, employees, &response.Meta{TotalItems: len(employees)})
}

func (h *EmployeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	emp, err := h.employeeService.Get(r.Context(), claims.BusinessID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, emp)
}

func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID

	emp, err := h.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", emp)
}

func (h *EmployeeHandlerImpl) UpdateRate(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.UpdateRateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID
	req.EmployeeID = chi.URLParam(r, "id")

	emp, err := h.employeeService.UpdateRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate updated successfully", emp)
}

func (h *EmployeeHandlerImpl) Deactivate(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.Deactivate(r.Context(), claims.BusinessID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deactivated", nil)
}
