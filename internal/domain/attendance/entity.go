package attendance

import "time"

// Attendance is one employee attendance span. CheckOut is nil while the
// span is open; the reconciliation engine and the auto-close sweep are the
// only writers.
type Attendance struct {
	ID         string
	EmployeeID string
	CheckIn    time.Time  // UTC
	CheckOut   *time.Time // UTC, nil while open
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
}

// Open reports whether the span has no check-out yet.
func (a Attendance) Open() bool {
	return a.CheckOut == nil
}
