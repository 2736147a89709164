package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/bridgelog"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
)

type bridgeLogRepositoryImpl struct {
	db *database.DB
}

func NewBridgeLogRepository(db *database.DB) bridgelog.LogRepository {
	return &bridgeLogRepositoryImpl{db: db}
}

// Create implements bridgelog.LogRepository.
func (r *bridgeLogRepositoryImpl) Create(ctx context.Context, level bridgelog.Level, message string) error {
	q := GetQuerier(ctx, r.db)

	query := `INSERT INTO bridge_logs (level, message, created_at) VALUES ($1, $2, NOW())`

	if _, err := q.Exec(ctx, query, level, message); err != nil {
		return fmt.Errorf("failed to create bridge log: %w", err)
	}

	return nil
}

// ListUnshipped implements bridgelog.LogRepository.
func (r *bridgeLogRepositoryImpl) ListUnshipped(ctx context.Context, limit int) ([]bridgelog.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, level, message, created_at, shipped_at
		FROM bridge_logs
		WHERE shipped_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bridge logs: %w", err)
	}
	defer rows.Close()

	var entries []bridgelog.Entry
	for rows.Next() {
		var e bridgelog.Entry
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &e.CreatedAt, &e.ShippedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bridge log: %w", err)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}

// MarkShipped implements bridgelog.LogRepository.
func (r *bridgeLogRepositoryImpl) MarkShipped(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `UPDATE bridge_logs SET shipped_at = NOW() WHERE id = ANY($1)`

	if _, err := q.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to mark bridge logs shipped: %w", err)
	}

	return nil
}

// DeleteOlderThan implements bridgelog.LogRepository.
func (r *bridgeLogRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM bridge_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete bridge logs: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
