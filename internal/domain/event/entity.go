package event

import "time"

// Kind is the resolved meaning of an access event.
type Kind string

const (
	KindCheckIn  Kind = "check_in"
	KindCheckOut Kind = "check_out"
)

// Log is an immutable record of one applied (or synthesized) access event.
// The (DeviceID, EmployeeID, Timestamp) triple is unique and serves as the
// idempotency key: replaying the same device report is a no-op.
type Log struct {
	ID         string
	DeviceID   string
	EmployeeID string
	Timestamp  time.Time // UTC
	Kind       Kind
	CreatedAt  time.Time

	// DTO
	DeviceName   *string
	EmployeeName *string
}
