package leave

import "time"

// Leave is an HR leave request. Only validated, full-day leaves affect the
// access synchronizer; half-day and hourly requests are ignored.
type Leave struct {
	ID         string
	EmployeeID string
	DateFrom   time.Time
	DateTo     time.Time
	State      string
	IsFullDay  bool
}

const StateValidated = "validate"

// Holiday is a global public holiday blocking every employee for its span.
type Holiday struct {
	ID       string
	Name     string
	DateFrom time.Time
	DateTo   time.Time
}
