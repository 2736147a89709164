package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/attendance"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/workcalendar"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/cron"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Device domain errors
	case errors.Is(err, device.ErrDeviceNotFound):
		NotFound(w, "Device not found")
	case errors.Is(err, device.ErrNoConfirmedDevice):
		BadRequest(w, "No confirmed device available", nil)
	case errors.Is(err, device.ErrUnreachable):
		BadGateway(w, "Device unreachable")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")
	case errors.Is(err, attendance.ErrAlreadyClosed):
		Conflict(w, "Attendance already closed")

	// Work calendar errors
	case errors.Is(err, workcalendar.ErrCalendarNotFound):
		NotFound(w, "Work calendar not found")

	// Cron errors
	case errors.Is(err, cron.ErrUnknownJob):
		NotFound(w, "Unknown job")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
