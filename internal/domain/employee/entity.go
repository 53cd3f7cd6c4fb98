package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleOwner    Role = "owner"    // Business owner - full access
	RoleManager  Role = "manager"  // Can schedule shifts and approve time off
	RoleEmployee Role = "employee" // Regular staff
)

var RoleValues = []string{
	string(RoleOwner),
	string(RoleManager),
	string(RoleEmployee),
}

// CanManage reports whether the role may manage schedules, rates and approvals.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleManager
}

type Employee struct {
	ID           string
	BusinessID   string
	UserID       *string // weak link to the identity provider, never an ownership edge
	Name         string
	Email        *string
	Role         Role
	HourlyRate   decimal.Decimal
	OvertimeRate *decimal.Decimal
	StartDate    time.Time
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
