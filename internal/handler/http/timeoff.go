package http

import (
	"net/http"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TimeOffHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Deny(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)
}

type TimeOffHandlerImpl struct {
	timeOffService timeoff.TimeOffService
}

func NewTimeOffHandler(timeOffService timeoff.TimeOffService) TimeOffHandler {
	return &TimeOffHandlerImpl{timeOffService: timeOffService}
}

// List returns requests split into pending and resolved. Employees only see their own.
func (h *TimeOffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	employeeID, allowed := scopedEmployeeID(claims, optionalQuery(r, "employee_id"))
	if !allowed {
		response.Forbidden(w, "Cannot view another employee's requests")
		return
	}
	filter := timeoff.RequestFilter{EmployeeID: employeeID}
	if status := r.URL.Query().Get("status"); status != "" {
		if !validator.IsInSlice(status, timeoff.StatusValues) {
			response.ValidationError(w, map[string]string{"status": "status must be one of pending, approved, denied"})
			return
		}
		st := timeoff.Status(status)
		filter.Status = &st
	}

	list, err := h.timeOffService.List(r.Context(), claims.BusinessID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, list)
}

func (h *TimeOffHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	req, err := h.timeOffService.Get(r.Context(), claims.BusinessID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if !claims.Role.CanManage() && req.EmployeeID != claims.EmployeeID {
		response.NotFound(w, "time-off request not found")
		return
	}

	response.Success(w, req)
}

// Create files a request for the caller.
func (h *TimeOffHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req timeoff.CreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID
	req.EmployeeID = claims.EmployeeID

	created, err := h.timeOffService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time-off request submitted", created)
}

func (h *TimeOffHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	resolved, err := h.timeOffService.Approve(r.Context(), claims.BusinessID, chi.URLParam(r, "id"), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request approved", resolved)
}

func (h *TimeOffHandlerImpl) Deny(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	resolved, err := h.timeOffService.Deny(r.Context(), claims.BusinessID, chi.URLParam(r, "id"), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Time-off request denied", resolved)
}

// BulkApprove always answers 200 with per-item outcomes once the batch is accepted.
func (h *TimeOffHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req timeoff.BulkApproveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID
	req.ApproverID = claims.EmployeeID

	result, err := h.timeOffService.BulkApprove(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
