package event

import "time"

// LogResponse represents the response structure for an event log entry.
type LogResponse struct {
	ID           string    `json:"id"`
	DeviceID     string    `json:"device_id"`
	DeviceName   *string   `json:"device_name,omitempty"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName *string   `json:"employee_name,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"kind"`
}

func ToResponse(l Log) LogResponse {
	return LogResponse{
		ID:           l.ID,
		DeviceID:     l.DeviceID,
		DeviceName:   l.DeviceName,
		EmployeeID:   l.EmployeeID,
		EmployeeName: l.EmployeeName,
		Timestamp:    l.Timestamp,
		Kind:         string(l.Kind),
	}
}
