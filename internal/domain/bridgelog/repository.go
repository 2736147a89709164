package bridgelog

import (
	"context"
	"time"
)

// LogRepository persists bridge log entries and tracks notification
// shipping.
type LogRepository interface {
	Create(ctx context.Context, level Level, message string) error

	ListUnshipped(ctx context.Context, limit int) ([]Entry, error)

	MarkShipped(ctx context.Context, ids []int64) error

	// DeleteOlderThan removes entries created before the cutoff and returns
	// how many were deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
