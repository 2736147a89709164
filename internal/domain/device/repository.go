package device

import (
	"context"
	"time"
)

// DeviceRepository defines data access methods for access-control terminals.
type DeviceRepository interface {
	Create(ctx context.Context, dev Device) (Device, error)

	GetByID(ctx context.Context, id string) (Device, error)

	// GetByIP resolves the terminal a webhook push came from.
	GetByIP(ctx context.Context, ip string) (Device, error)

	List(ctx context.Context) ([]Device, error)

	ListByState(ctx context.Context, state State) ([]Device, error)

	Update(ctx context.Context, dev Device) error

	UpdateState(ctx context.Context, id string, state State) error

	// UpdateLastFetchTime advances the polling high-water mark. Called only
	// after a fetch cycle completed without transport errors.
	UpdateLastFetchTime(ctx context.Context, id string, t time.Time) error

	Delete(ctx context.Context, id string) error
}
