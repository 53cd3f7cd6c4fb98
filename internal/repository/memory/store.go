// Package memory is the in-memory HR data service used for local development, demos and
// tests. It keeps the same contract and the same conditional-update semantics as the
// PostgreSQL backend.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/employee"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/hrdata"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/payroll"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/schedule"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeclock"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/domain/timeoff"
	"github.com/google/uuid"
)

var _ hrdata.Service = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	employees      map[string]employee.Employee
	schedules      map[string]schedule.Schedule
	sessions       map[string]timeclock.WorkSession
	timeOff        map[string]timeoff.TimeOffRequest
	periods        map[string]payroll.PayrollPeriod
	payrollEntries map[string]payroll.PayrollEntry

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		employees:      make(map[string]employee.Employee),
		schedules:      make(map[string]schedule.Schedule),
		sessions:       make(map[string]timeclock.WorkSession),
		timeOff:        make(map[string]timeoff.TimeOffRequest),
		periods:        make(map[string]payroll.PayrollPeriod),
		payrollEntries: make(map[string]payroll.PayrollEntry),
		now:            time.Now,
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string {
	return &s
}

// sortedValues returns map values ordered by less.
func sortedValues[T any](m map[string]T, keep func(T) bool, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
