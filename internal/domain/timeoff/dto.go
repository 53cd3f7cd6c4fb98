package timeoff

import (
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/validator"
)

type RequestFilter struct {
	EmployeeID *string
	Status     *Status
}

type CreateRequest struct {
	BusinessID string `json:"-"`
	EmployeeID string `json:"-"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsInSlice(r.Type, TypeValues) {
		errs.Add("type", "type must be one of vacation, sick, personal")
	}

	startDate, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	endDate, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type ResolveRequest struct {
	RequestID string `json:"request_id"`
}

type BulkApproveRequest struct {
	BusinessID string   `json:"-"`
	ApproverID string   `json:"-"`
	RequestIDs []string `json:"request_ids"`
}

func (r *BulkApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.RequestIDs) == 0 {
		errs.Add("request_ids", "at least one request is required")
	}
	for _, id := range r.RequestIDs {
		if validator.IsEmpty(id) {
			errs.Add("request_ids", "request ids must not be empty")
			break
		}
	}
	if validator.IsEmpty(r.ApproverID) {
		errs.Add("approver_id", "approver_id is required")
	}

	return errs.Err()
}

// BulkItem is the outcome of one id in a bulk approval.
type BulkItem struct {
	RequestID string `json:"request_id"`
	Approved  bool   `json:"approved"`
	Error     string `json:"error,omitempty"`
}

type BulkResult struct {
	Requested int        `json:"requested"`
	Approved  int        `json:"approved"`
	Failed    int        `json:"failed"`
	Items     []BulkItem `json:"items"`
}

type Summary struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Denied   int `json:"denied"`
}

type RequestResponse struct {
	ID           string      `json:"id"`
	EmployeeID   string      `json:"employee_id"`
	EmployeeName *string     `json:"employee_name,omitempty"`
	Type         RequestType `json:"type"`
	StartDate    string      `json:"start_date"`
	EndDate      string      `json:"end_date"`
	Days         int         `json:"days"`
	Reason       string      `json:"reason"`
	Status       Status      `json:"status"`
	ApprovedBy   *string     `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time  `json:"approved_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ListResponse partitions requests the way the approval queue renders them.
type ListResponse struct {
	Pending  []RequestResponse `json:"pending"`
	Resolved []RequestResponse `json:"resolved"`
	Summary  Summary           `json:"summary"`
}
