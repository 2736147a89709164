package leave

import (
	"context"
	"time"
)

// LeaveRepository exposes the single query the access synchronizer needs.
type LeaveRepository interface {
	// EmployeeIDsOnFullDayLeave returns the ids of employees with a
	// validated full-day leave covering the given day.
	EmployeeIDsOnFullDayLeave(ctx context.Context, day time.Time) (map[string]struct{}, error)
}

// HolidayRepository answers "is this day a public holiday".
type HolidayRepository interface {
	ExistsOn(ctx context.Context, day time.Time) (bool, error)
}
