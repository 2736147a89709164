package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, check_in, check_out, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, NOW(), NOW())
		RETURNING id, employee_id, check_in, check_out, created_at, updated_at
	`

	var result attendance.Attendance
	err := q.QueryRow(ctx, query, att.EmployeeID, att.CheckIn, att.CheckOut).Scan(
		&result.ID,
		&result.EmployeeID,
		&result.CheckIn,
		&result.CheckOut,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return result, nil
}

// GetOpenForDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetOpenForDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (*attendance.Attendance, error) {
	query := `
		SELECT id, employee_id, check_in, check_out, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1
		  AND check_in >= $2 AND check_in < $3
		  AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, employeeID, dayStart, dayEnd)
}

// GetLatestForDay implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetLatestForDay(ctx context.Context, employeeID string, dayStart, dayEnd time.Time) (*attendance.Attendance, error) {
	query := `
		SELECT id, employee_id, check_in, check_out, created_at, updated_at
		FROM attendances
		WHERE employee_id = $1
		  AND check_in >= $2 AND check_in < $3
		ORDER BY check_in DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, employeeID, dayStart, dayEnd)
}

func (r *attendanceRepositoryImpl) getOne(ctx context.Context, query string, args ...interface{}) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var result attendance.Attendance
	err := q.QueryRow(ctx, query, args...).Scan(
		&result.ID,
		&result.EmployeeID,
		&result.CheckIn,
		&result.CheckOut,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &result, nil
}

// Close implements attendance.AttendanceRepository. The check_out IS NULL
// guard makes closing race-safe: whichever writer gets there second sees
// zero affected rows.
func (r *attendanceRepositoryImpl) Close(ctx context.Context, id string, checkOut time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out = $2, updated_at = NOW()
		WHERE id = $1 AND check_out IS NULL
	`

	commandTag, err := q.Exec(ctx, query, id, checkOut)
	if err != nil {
		return fmt.Errorf("failed to close attendance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAlreadyClosed
	}

	return nil
}

// ListOpenSince implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListOpenSince(ctx context.Context, since time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, check_in, check_out, created_at, updated_at
		FROM attendances
		WHERE check_out IS NULL AND check_in >= $1
		ORDER BY check_in ASC
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}
	defer rows.Close()

	var spans []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.CheckIn,
			&a.CheckOut,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		spans = append(spans, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return spans, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND a.check_in >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND a.check_in < $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}
	if filter.OpenOnly {
		where += " AND a.check_out IS NULL"
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := `
		SELECT a.id, a.employee_id, a.check_in, a.check_out, a.created_at, a.updated_at, e.name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id` + where +
		fmt.Sprintf(" ORDER BY a.check_in DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var spans []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID,
			&a.EmployeeID,
			&a.CheckIn,
			&a.CheckOut,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		spans = append(spans, a)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return spans, total, nil
}
