package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyClosed      = errors.New("attendance span is already closed")
)
