package device

import (
	"fmt"
	"time"
)

// Role tells the bridge how to interpret events coming from a terminal.
// Terminals mounted at an entrance report check-ins only, terminals at an
// exit report check-outs only. RoleNone means the event label (or, for
// webhooks, the employee's current attendance state) decides.
type Role string

const (
	RoleNone     Role = "none"
	RoleCheckIn  Role = "check_in"
	RoleCheckOut Role = "check_out"
)

var RoleValues = []string{
	string(RoleNone),
	string(RoleCheckIn),
	string(RoleCheckOut),
}

type State string

const (
	StateDraft     State = "draft"
	StateConfirmed State = "confirmed"
	StateError     State = "error"
)

type Device struct {
	ID        string
	Name      string
	IPAddress string
	Port      int
	Username  string
	Password  string
	Role      Role
	State     State

	// LastFetchTime is the UTC high-water mark for incremental log polling.
	// It only advances after a fully successful fetch, so a failed cycle is
	// re-fetched on the next run.
	LastFetchTime *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BaseURL returns the ISAPI root for this terminal.
func (d Device) BaseURL() string {
	return fmt.Sprintf("http://%s:%d/ISAPI/", d.IPAddress, d.Port)
}
