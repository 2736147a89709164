package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

const deviceColumns = `id, name, ip_address, port, username, password, role, state, last_fetch_time, created_at, updated_at`

func scanDevice(row pgx.Row) (device.Device, error) {
	var d device.Device
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.IPAddress,
		&d.Port,
		&d.Username,
		&d.Password,
		&d.Role,
		&d.State,
		&d.LastFetchTime,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Create implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Create(ctx context.Context, dev device.Device) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO devices (id, name, ip_address, port, username, password, role, state, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING ` + deviceColumns

	result, err := scanDevice(q.QueryRow(ctx, query,
		dev.Name, dev.IPAddress, dev.Port, dev.Username, dev.Password, dev.Role, dev.State))
	if err != nil {
		return device.Device{}, fmt.Errorf("failed to create device: %w", err)
	}

	return result, nil
}

// GetByID implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByID(ctx context.Context, id string) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = $1`

	result, err := scanDevice(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device: %w", err)
	}

	return result, nil
}

// GetByIP implements device.DeviceRepository.
func (r *deviceRepositoryImpl) GetByIP(ctx context.Context, ip string) (device.Device, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE ip_address = $1 ORDER BY created_at ASC LIMIT 1`

	result, err := scanDevice(q.QueryRow(ctx, query, ip))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device by ip: %w", err)
	}

	return result, nil
}

// List implements device.DeviceRepository.
func (r *deviceRepositoryImpl) List(ctx context.Context) ([]device.Device, error) {
	return r.list(ctx, `SELECT `+deviceColumns+` FROM devices ORDER BY name ASC`)
}

// ListByState implements device.DeviceRepository.
func (r *deviceRepositoryImpl) ListByState(ctx context.Context, state device.State) ([]device.Device, error) {
	return r.list(ctx, `SELECT `+deviceColumns+` FROM devices WHERE state = $1 ORDER BY name ASC`, state)
}

func (r *deviceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]device.Device, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return devices, nil
}

// Update implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Update(ctx context.Context, dev device.Device) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE devices
		SET name = $2, ip_address = $3, port = $4, username = $5, password = $6, role = $7, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		dev.ID, dev.Name, dev.IPAddress, dev.Port, dev.Username, dev.Password, dev.Role)
	if err != nil {
		return fmt.Errorf("failed to update device: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

// UpdateState implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateState(ctx context.Context, id string, state device.State) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE devices SET state = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id, state)
	if err != nil {
		return fmt.Errorf("failed to update device state: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

// UpdateLastFetchTime implements device.DeviceRepository.
func (r *deviceRepositoryImpl) UpdateLastFetchTime(ctx context.Context, id string, t time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE devices SET last_fetch_time = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id, t)
	if err != nil {
		return fmt.Errorf("failed to update last fetch time: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

// Delete implements device.DeviceRepository.
func (r *deviceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}
