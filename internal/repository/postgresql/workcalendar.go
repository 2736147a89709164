package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/workcalendar"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type calendarRepositoryImpl struct {
	db *database.DB
}

func NewCalendarRepository(db *database.DB) workcalendar.CalendarRepository {
	return &calendarRepositoryImpl{db: db}
}

// GetByID implements workcalendar.CalendarRepository.
func (r *calendarRepositoryImpl) GetByID(ctx context.Context, id string) (workcalendar.Calendar, error) {
	q := GetQuerier(ctx, r.db)

	var cal workcalendar.Calendar
	err := q.QueryRow(ctx, `SELECT id, name FROM work_calendars WHERE id = $1`, id).Scan(&cal.ID, &cal.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workcalendar.Calendar{}, workcalendar.ErrCalendarNotFound
		}
		return workcalendar.Calendar{}, fmt.Errorf("failed to get work calendar: %w", err)
	}

	query := `
		SELECT weekday, period, hour_from, hour_to
		FROM work_calendar_lines
		WHERE calendar_id = $1
		ORDER BY weekday ASC, hour_from ASC
	`

	rows, err := q.Query(ctx, query, id)
	if err != nil {
		return workcalendar.Calendar{}, fmt.Errorf("failed to get calendar lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l workcalendar.Line
		if err := rows.Scan(&l.Weekday, &l.Period, &l.HourFrom, &l.HourTo); err != nil {
			return workcalendar.Calendar{}, fmt.Errorf("failed to scan calendar line: %w", err)
		}
		cal.Lines = append(cal.Lines, l)
	}

	if err = rows.Err(); err != nil {
		return workcalendar.Calendar{}, fmt.Errorf("rows iteration error: %w", err)
	}

	return cal, nil
}
