package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `id, name, badge_id, work_calendar_id, access_status, active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.BadgeID,
		&e.WorkCalendarID,
		&e.AccessStatus,
		&e.Active,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	result, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return result, nil
}

// GetByBadge implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByBadge(ctx context.Context, badgeID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE badge_id = $1 AND active`

	result, err := scanEmployee(q.QueryRow(ctx, query, badgeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by badge: %w", err)
	}

	return result, nil
}

// ListActiveWithBadge implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActiveWithBadge(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE active AND badge_id IS NOT NULL
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return employees, nil
}

// UpdateAccessStatus implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateAccessStatus(ctx context.Context, id string, status employee.AccessStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `UPDATE employees SET access_status = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update access status: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}
