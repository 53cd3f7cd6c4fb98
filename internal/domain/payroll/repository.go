package payroll

import "context"

// PayrollRepository is the payroll slice of the HR data service.
// All methods include businessID to prevent cross-business data access.
type PayrollRepository interface {
	// Periods
	ListPayrollPeriods(ctx context.Context, businessID string) ([]PayrollPeriod, error)
	GetPayrollPeriod(ctx context.Context, businessID string, id string) (PayrollPeriod, error)
	CreatePayrollPeriod(ctx context.Context, period PayrollPeriod) (PayrollPeriod, error)
	UpdatePayrollPeriodStatus(ctx context.Context, businessID string, id string, status PeriodStatus) error

	// Entries
	ListPayrollEntries(ctx context.Context, businessID string, filter EntryFilter) ([]PayrollEntry, error)
	GetPayrollEntry(ctx context.Context, businessID string, id string) (PayrollEntry, error)
	CreatePayrollEntries(ctx context.Context, entries []PayrollEntry) ([]PayrollEntry, error)

	// UpdatePayrollEntryStatus moves an entry from -> to and fails with
	// ErrEntryStatusConflict when the stored status is no longer from.
	UpdatePayrollEntryStatus(ctx context.Context, businessID string, id string, from EntryStatus, to EntryStatus) (PayrollEntry, error)
}
