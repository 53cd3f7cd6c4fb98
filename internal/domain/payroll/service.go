package payroll

import (
	"context"
	"time"
)

type PayrollService interface {
	// Periods
	ListPeriods(ctx context.Context, businessID string) ([]PeriodResponse, error)
	EnsurePeriods(ctx context.Context, businessID string, now time.Time) ([]PeriodResponse, error)
	AdvancePeriods(ctx context.Context, businessID string, now time.Time) (AdvanceResult, error)
	ClosePeriod(ctx context.Context, businessID string, periodID string) ([]EntryResponse, error)

	// Entries
	ListEntries(ctx context.Context, businessID string, filter EntryFilter) ([]EntryResponse, error)
	AdvanceEntry(ctx context.Context, req AdvanceEntryRequest) (EntryResponse, error)
	Summary(ctx context.Context, businessID string, filter EntryFilter) (SummaryResponse, error)

	// Export renders a period's entries as an xlsx workbook.
	Export(ctx context.Context, businessID string, periodID string) ([]byte, error)
}
