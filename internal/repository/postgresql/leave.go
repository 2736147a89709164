package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/leave"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
)

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

// EmployeeIDsOnFullDayLeave implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) EmployeeIDsOnFullDayLeave(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id
		FROM leaves
		WHERE state = $1
		  AND is_full_day
		  AND date_from::date <= $2::date
		  AND date_to::date >= $2::date
	`

	rows, err := q.Query(ctx, query, leave.StateValidated, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		ids[id] = struct{}{}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) leave.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// ExistsOn implements leave.HolidayRepository.
func (r *holidayRepositoryImpl) ExistsOn(ctx context.Context, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM public_holidays
			WHERE date_from::date <= $1::date AND date_to::date >= $1::date
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check public holiday: %w", err)
	}

	return exists, nil
}
