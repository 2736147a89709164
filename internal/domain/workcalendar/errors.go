package workcalendar

import "errors"

var (
	ErrCalendarNotFound = errors.New("work calendar not found")
)
