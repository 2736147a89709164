package database

import "context"

// TxRunner runs a function inside a database transaction. Repositories
// called with the derived context join the same transaction via
// GetQuerier. Service code depends on this interface so tests can swap in
// a pass-through implementation.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
