package workcalendar

import "context"

// CalendarRepository loads weekly work calendars with their lines.
type CalendarRepository interface {
	GetByID(ctx context.Context, id string) (Calendar, error)
}
