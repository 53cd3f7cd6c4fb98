package http

import (
	"net/http"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	WeeklyHours(w http.ResponseWriter, r *http.Request)
}

type ScheduleHandlerImpl struct {
	scheduleService schedule.ScheduleService
}

func NewScheduleHandler(scheduleService schedule.ScheduleService) ScheduleHandler {
	return &ScheduleHandlerImpl{scheduleService: scheduleService}
}

// List returns shifts. Query: employee_id, from, to (YYYY-MM-DD, inclusive), status.
func (h *ScheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	filter := schedule.ScheduleFilter{
		EmployeeID: optionalQuery(r, "employee_id"),
		From:       dateQuery(r, "from", &errs),
		To:         dateQuery(r, "to", &errs),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !validator.IsInSlice(status, schedule.StatusValues) {
			errs.Add("status", "status must be one of scheduled, completed, missed, cancelled")
		}
		st := schedule.Status(status)
		filter.Status = &st
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	schedules, err := h.scheduleService.List(r.Context(), claims.BusinessID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, schedules, &response.Meta{TotalItems: len(schedules)})
}

func (h *ScheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req schedule.CreateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID
	req.CreatedBy = claims.EmployeeID

	sc, err := h.scheduleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Schedule created successfully", sc)
}

func (h *ScheduleHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req schedule.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID
	req.ScheduleID = chi.URLParam(r, "id")

	sc, err := h.scheduleService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule status updated", sc)
}

// WeeklyHours reports scheduled, worked and remaining hours. Query: employee_id, week_start.
func (h *ScheduleHandlerImpl) WeeklyHours(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	employeeID, allowed := scopedEmployeeID(claims, optionalQuery(r, "employee_id"))
	if !allowed {
		response.Forbidden(w, "Cannot view another employee's hours")
		return
	}
	req := schedule.WeeklyHoursRequest{
		BusinessID: claims.BusinessID,
		EmployeeID: claims.EmployeeID,
		WeekStart:  r.URL.Query().Get("week_start"),
	}
	if employeeID != nil {
		req.EmployeeID = *employeeID
	}

	resp, err := h.scheduleService.WeeklyHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
