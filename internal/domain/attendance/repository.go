package attendance

import (
	"context"
	"time"
)

// Filter narrows List queries.
type Filter struct {
	EmployeeID *string
	From       *time.Time
	To         *time.Time
	OpenOnly   bool
	Page       int
	Limit      int
}

// AttendanceRepository defines data access for attendance spans.
type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetOpenForDay returns the open span whose check-in falls inside
	// [dayStart, dayEnd), or nil when the employee is not clocked in.
	// The state guard reads this fresh for every event.
	GetOpenForDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (*Attendance, error)

	// GetLatestForDay returns the newest span (open or closed) whose
	// check-in falls inside the day window, or nil.
	GetLatestForDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (*Attendance, error)

	// Close sets check_out on an open span. Returns ErrAlreadyClosed when
	// the span was closed in the meantime.
	Close(ctx context.Context, id string, checkOut time.Time) error

	// ListOpenSince returns every open span with check-in at or after the
	// given instant, for the auto-close sweep.
	ListOpenSince(ctx context.Context, since time.Time) ([]Attendance, error)

	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)
}
