package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PayrollHandler interface {
	// Periods
	ListPeriods(w http.ResponseWriter, r *http.Request)
	EnsurePeriods(w http.ResponseWriter, r *http.Request)
	AdvancePeriods(w http.ResponseWriter, r *http.Request)
	ClosePeriod(w http.ResponseWriter, r *http.Request)
	ExportPeriod(w http.ResponseWriter, r *http.Request)

	// Entries
	ListEntries(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	AdvanceEntry(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{
		payrollService: payrollService,
		now:            time.Now,
	}
}

// ========== PERIODS ==========

func (h *PayrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	periods, err := h.payrollService.ListPeriods(r.Context(), claims.BusinessID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, periods, &response.Meta{TotalItems: len(periods)})
}

// EnsurePeriods creates any missing periods up to the one after the current period.
func (h *PayrollHandlerImpl) EnsurePeriods(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	created, err := h.payrollService.EnsurePeriods(r.Context(), claims.BusinessID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("%d payroll periods created", len(created)), created)
}

// AdvancePeriods runs the period lifecycle on demand, as the background job does.
func (h *PayrollHandlerImpl) AdvancePeriods(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	result, err := h.payrollService.AdvancePeriods(r.Context(), claims.BusinessID, h.now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *PayrollHandlerImpl) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	entries, err := h.payrollService.ClosePeriod(r.Context(), claims.BusinessID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period closed", entries)
}

func (h *PayrollHandlerImpl) ExportPeriod(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	periodID := chi.URLParam(r, "id")
	data, err := h.payrollService.Export(r.Context(), claims.BusinessID, periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, fmt.Sprintf("payroll-%s.xlsx", periodID), xlsxContentType, data)
}

// ========== ENTRIES ==========

func entryFilter(r *http.Request) (payroll.EntryFilter, error) {
	filter := payroll.EntryFilter{
		PeriodID:   optionalQuery(r, "period_id"),
		EmployeeID: optionalQuery(r, "employee_id"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if !validator.IsInSlice(status, payroll.EntryStatusValues) {
			var errs validator.ValidationErrors
			errs.Add("status", "status must be one of draft, approved, paid")
			return payroll.EntryFilter{}, errs
		}
		st := payroll.EntryStatus(status)
		filter.Status = &st
	}
	return filter, nil
}

// ListEntries returns payroll entries. Employees only see their own.
func (h *PayrollHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	filter, err := entryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	employeeID, allowed := scopedEmployeeID(claims, filter.EmployeeID)
	if !allowed {
		response.Forbidden(w, "Cannot view another employee's pay")
		return
	}
	filter.EmployeeID = employeeID

	entries, err := h.payrollService.ListEntries(r.Context(), claims.BusinessID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries, &response.Meta{TotalItems: len(entries)})
}

func (h *PayrollHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	filter, err := entryFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.payrollService.Summary(r.Context(), claims.BusinessID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

func (h *PayrollHandlerImpl) AdvanceEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.AdvanceEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BusinessID = claims.BusinessID
	req.EntryID = chi.URLParam(r, "id")

	entry, err := h.payrollService.AdvanceEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, fmt.Sprintf("Payroll entry marked %s", entry.Status), entry)
}
