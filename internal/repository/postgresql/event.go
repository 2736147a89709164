package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/event"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/jackc/pgx/v5/pgconn"
)

type eventLogRepositoryImpl struct {
	db *database.DB
}

func NewEventLogRepository(db *database.DB) event.LogRepository {
	return &eventLogRepositoryImpl{db: db}
}

// Create implements event.LogRepository.
func (r *eventLogRepositoryImpl) Create(ctx context.Context, entry event.Log) (event.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_logs (id, device_id, employee_id, ts, kind, created_at)
		VALUES (uuidv7(), $1, $2, $3, $4, NOW())
		RETURNING id, device_id, employee_id, ts, kind, created_at
	`

	var result event.Log
	err := q.QueryRow(ctx, query, entry.DeviceID, entry.EmployeeID, entry.Timestamp, entry.Kind).Scan(
		&result.ID,
		&result.DeviceID,
		&result.EmployeeID,
		&result.Timestamp,
		&result.Kind,
		&result.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return event.Log{}, event.ErrDuplicate
		}
		return event.Log{}, fmt.Errorf("failed to create attendance log: %w", err)
	}

	return result, nil
}

// Exists implements event.LogRepository.
func (r *eventLogRepositoryImpl) Exists(ctx context.Context, deviceID, employeeID string, ts time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM attendance_logs
			WHERE device_id = $1 AND employee_id = $2 AND ts = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, deviceID, employeeID, ts).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check attendance log: %w", err)
	}

	return exists, nil
}

// ListRecent implements event.LogRepository.
func (r *eventLogRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]event.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT al.id, al.device_id, al.employee_id, al.ts, al.kind, al.created_at,
		       d.name, e.name
		FROM attendance_logs al
		JOIN devices d ON d.id = al.device_id
		JOIN employees e ON e.id = al.employee_id
		ORDER BY al.ts DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	var logs []event.Log
	for rows.Next() {
		var l event.Log
		err := rows.Scan(
			&l.ID,
			&l.DeviceID,
			&l.EmployeeID,
			&l.Timestamp,
			&l.Kind,
			&l.CreatedAt,
			&l.DeviceName,
			&l.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return logs, nil
}
