package timeoff

import "time"

type RequestType string

const (
	TypeVacation RequestType = "vacation"
	TypeSick     RequestType = "sick"
	TypePersonal RequestType = "personal"
)

var TypeValues = []string{
	string(TypeVacation),
	string(TypeSick),
	string(TypePersonal),
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

var StatusValues = []string{
	string(StatusPending),
	string(StatusApproved),
	string(StatusDenied),
}

// Decision is the resolution applied to a pending request.
type Decision = Status

// TimeOffRequest entity. ApprovedBy and ApprovedAt are set iff Status is not pending,
// for denials as well as approvals.
type TimeOffRequest struct {
	ID         string
	BusinessID string
	EmployeeID string
	Type       RequestType
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     Status
	ApprovedBy *string
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relationships (for responses)
	EmployeeName *string
}

func (r TimeOffRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Days returns the inclusive number of calendar days covered.
func (r TimeOffRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
