package event

import (
	"context"
	"time"
)

// LogRepository defines data access for the append-only event log.
type LogRepository interface {
	// Create inserts a new log entry. Returns ErrDuplicate when the
	// (device, employee, timestamp) key already exists.
	Create(ctx context.Context, entry Log) (Log, error)

	// Exists reports whether an entry with the exact natural key is present.
	Exists(ctx context.Context, deviceID, employeeID string, ts time.Time) (bool, error)

	// ListRecent returns the newest entries, for the admin API.
	ListRecent(ctx context.Context, limit int) ([]Log, error)
}
