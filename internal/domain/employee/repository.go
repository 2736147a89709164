package employee

import "context"

// EmployeeRepository defines read access to the HR employee table plus the
// single field the bridge owns: the stored access status.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByBadge resolves a device-reported badge id. Returns
	// ErrEmployeeNotFound for unknown badges.
	GetByBadge(ctx context.Context, badgeID string) (Employee, error)

	// ListActiveWithBadge returns every active employee that has a badge,
	// i.e. everyone the access synchronizer manages.
	ListActiveWithBadge(ctx context.Context) ([]Employee, error)

	// UpdateAccessStatus persists the stored status after a device push
	// succeeded.
	UpdateAccessStatus(ctx context.Context, id string, status AccessStatus) error
}
