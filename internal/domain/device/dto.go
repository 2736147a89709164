package device

import (
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/pkg/validator"
)

// DeviceResponse represents the response structure for a terminal. The
// password never leaves the server.
type DeviceResponse struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	IPAddress     string     `json:"ip_address"`
	Port          int        `json:"port"`
	Username      string     `json:"username"`
	Role          string     `json:"role"`
	State         string     `json:"state"`
	LastFetchTime *time.Time `json:"last_fetch_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToResponse(d Device) DeviceResponse {
	return DeviceResponse{
		ID:            d.ID,
		Name:          d.Name,
		IPAddress:     d.IPAddress,
		Port:          d.Port,
		Username:      d.Username,
		Role:          string(d.Role),
		State:         string(d.State),
		LastFetchTime: d.LastFetchTime,
		CreatedAt:     d.CreatedAt,
	}
}

// TestConnectionResponse carries the probe result of a connection test.
type TestConnectionResponse struct {
	State           string `json:"state"`
	Model           string `json:"model,omitempty"`
	SerialNumber    string `json:"serial_number,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	Error           string `json:"error,omitempty"`
}

// SyncUsersResponse reports how many badges were pushed to the terminal.
type SyncUsersResponse struct {
	Existing int `json:"existing"`
	Created  int `json:"created"`
	Errors   int `json:"errors"`
}

// CreateDeviceRequest represents the request structure for registering a terminal.
type CreateDeviceRequest struct {
	Name      string `json:"name"`
	IPAddress string `json:"ip_address"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (r *CreateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if !validator.IsValidIP(r.IPAddress) {
		errs = append(errs, validator.ValidationError{
			Field:   "ip_address",
			Message: "ip_address must be a valid IP address",
		})
	}

	if !validator.IsValidPort(r.Port) {
		errs = append(errs, validator.ValidationError{
			Field:   "port",
			Message: "port must be between 1 and 65535",
		})
	}

	if validator.IsEmpty(r.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username is required",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if r.Role != "" && !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: none, check_in, check_out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateDeviceRequest represents the request structure for updating a terminal.
type UpdateDeviceRequest struct {
	ID        string  `json:"-"` // From URL
	Name      *string `json:"name,omitempty"`
	IPAddress *string `json:"ip_address,omitempty"`
	Port      *int    `json:"port,omitempty"`
	Username  *string `json:"username,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
}

func (r *UpdateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not be empty",
		})
	}

	if r.IPAddress != nil && !validator.IsValidIP(*r.IPAddress) {
		errs = append(errs, validator.ValidationError{
			Field:   "ip_address",
			Message: "ip_address must be a valid IP address",
		})
	}

	if r.Port != nil && !validator.IsValidPort(*r.Port) {
		errs = append(errs, validator.ValidationError{
			Field:   "port",
			Message: "port must be between 1 and 65535",
		})
	}

	if r.Role != nil && !validator.IsInSlice(*r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of: none, check_in, check_out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
