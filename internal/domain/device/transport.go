package device

import "context"

// RawEvent is one decoded access-control event exactly as a terminal
// reported it. Time is the unparsed device timestamp; it may or may not
// carry a UTC offset.
type RawEvent struct {
	BadgeID string
	Time    string
	Label   string
}

// EventPage is one page of a paginated event search.
type EventPage struct {
	Events []RawEvent
	Total  int
}

type Info struct {
	Model           string
	SerialNumber    string
	FirmwareVersion string
}

// Transport is the wire-level capability the bridge needs from a terminal.
// The core never touches the ISAPI protocol directly; it consumes decoded
// event lists and issues enable/disable commands through this interface.
type Transport interface {
	// DeviceInfo probes the terminal, used by connection tests.
	DeviceInfo(ctx context.Context, dev Device) (Info, error)

	// SearchEvents returns one page of access events inside the window.
	// startTime/endTime are device-local ISO timestamps with offset.
	SearchEvents(ctx context.Context, dev Device, startTime, endTime string, position int, pageSize int) (EventPage, error)

	// SetUserBlocked enables or disables a badge on the terminal.
	SetUserBlocked(ctx context.Context, dev Device, badgeID string, blocked bool) error

	// CreateUser registers a badge on the terminal.
	CreateUser(ctx context.Context, dev Device, badgeID, name string) error

	// ListUserBadges returns the badges already present on the terminal.
	ListUserBadges(ctx context.Context, dev Device) (map[string]struct{}, error)

	// ConfigureHTTPHost points the terminal's event push at our webhook.
	ConfigureHTTPHost(ctx context.Context, dev Device, hostIP string, hostPort int, path string) error
}
