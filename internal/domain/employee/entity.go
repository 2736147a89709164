package employee

import "time"

// AccessStatus is the employee's state on the access-control terminals.
type AccessStatus string

const (
	AccessNormal  AccessStatus = "normal"
	AccessBlocked AccessStatus = "blocked"
)

type Employee struct {
	ID   string
	Name string

	// BadgeID is the external identifier the terminals report
	// (employeeNoString). Employees without one are invisible to the bridge.
	BadgeID *string

	WorkCalendarID *string
	AccessStatus   AccessStatus
	Active         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
