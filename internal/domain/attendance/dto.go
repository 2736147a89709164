package attendance

import "time"

// AttendanceResponse represents the response structure for an attendance span.
type AttendanceResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName *string    `json:"employee_name,omitempty"`
	CheckIn      time.Time  `json:"check_in"`
	CheckOut     *time.Time `json:"check_out,omitempty"`
	Open         bool       `json:"open"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		CheckIn:      a.CheckIn,
		CheckOut:     a.CheckOut,
		Open:         a.Open(),
	}
}
