package http

import (
	"net/http"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

type TimeClockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
	ListSessions(w http.ResponseWriter, r *http.Request)
}

type TimeClockHandlerImpl struct {
	timeClockService timeclock.TimeClockService
}

func NewTimeClockHandler(timeClockService timeclock.TimeClockService) TimeClockHandler {
	return &TimeClockHandlerImpl{timeClockService: timeClockService}
}

// ClockIn starts a session for the caller. Managers may clock in another employee.
func (h *TimeClockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req timeclock.ClockInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var requested *string
	if req.EmployeeID != "" {
		requested = &req.EmployeeID
	}
	employeeID, allowed := scopedEmployeeID(claims, requested)
	if !allowed {
		response.Forbidden(w, "Cannot clock in another employee")
		return
	}
	req.EmployeeID = claims.EmployeeID
	if employeeID != nil {
		req.EmployeeID = *employeeID
	}
	req.BusinessID = claims.BusinessID

	session, err := h.timeClockService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", session)
}

// ClockOut closes the session named by session_id, or the caller's open session.
func (h *TimeClockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req timeclock.ClockOutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var requested *string
	if req.EmployeeID != "" {
		requested = &req.EmployeeID
	}
	employeeID, allowed := scopedEmployeeID(claims, requested)
	if !allowed {
		response.Forbidden(w, "Cannot clock out another employee")
		return
	}
	req.EmployeeID = ""
	if employeeID != nil {
		req.EmployeeID = *employeeID
	} else if req.SessionID == "" {
		req.EmployeeID = claims.EmployeeID
	}
	req.BusinessID = claims.BusinessID

	session, err := h.timeClockService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", session)
}

// Active returns today's open session, or null data when there is none.
func (h *TimeClockHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	employeeID, allowed := scopedEmployeeID(claims, optionalQuery(r, "employee_id"))
	if !allowed {
		response.Forbidden(w, "Cannot view another employee's session")
		return
	}
	target := claims.EmployeeID
	if employeeID != nil {
		target = *employeeID
	}

	session, err := h.timeClockService.ActiveSession(r.Context(), claims.BusinessID, target)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, session)
}

// ListSessions returns work sessions. Query: employee_id, from, to. Dates (YYYY-MM-DD) are
// inclusive; RFC3339 timestamps bound clock-in exactly, with to exclusive.
func (h *TimeClockHandlerImpl) ListSessions(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	employeeID, allowed := scopedEmployeeID(claims, optionalQuery(r, "employee_id"))
	if !allowed {
		response.Forbidden(w, "Cannot view another employee's sessions")
		return
	}

	var errs validator.ValidationErrors
	filter := timeclock.SessionFilter{
		EmployeeID: employeeID,
		From:       timeQuery(r, "from", false, &errs),
		To:         timeQuery(r, "to", true, &errs),
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	sessions, err := h.timeClockService.ListSessions(r.Context(), claims.BusinessID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, sessions, &response.Meta{TotalItems: len(sessions)})
}
