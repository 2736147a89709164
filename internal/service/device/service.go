package device

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	devicedomain "github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/employee"
)

// WebhookPath is where terminals push access events.
const WebhookPath = "/hikvision/webhook"

type DeviceService interface {
	CreateDevice(ctx context.Context, req devicedomain.CreateDeviceRequest) (devicedomain.DeviceResponse, error)
	GetDevice(ctx context.Context, id string) (devicedomain.DeviceResponse, error)
	ListDevices(ctx context.Context) ([]devicedomain.DeviceResponse, error)
	UpdateDevice(ctx context.Context, req devicedomain.UpdateDeviceRequest) error
	DeleteDevice(ctx context.Context, id string) error

	// TestConnection probes the terminal and moves it to confirmed or error.
	TestConnection(ctx context.Context, id string) (devicedomain.TestConnectionResponse, error)

	// ConfigureWebhook points the terminal's event push at this server.
	ConfigureWebhook(ctx context.Context, id string) error

	// SyncUsers registers every active badge holder missing on the terminal.
	SyncUsers(ctx context.Context, id string) (devicedomain.SyncUsersResponse, error)
}

type deviceServiceImpl struct {
	devices   devicedomain.DeviceRepository
	employees employee.EmployeeRepository
	transport devicedomain.Transport

	// baseURL is the externally reachable address of this server, used to
	// derive the webhook host the terminals push to.
	baseURL string
}

func NewDeviceService(
	devices devicedomain.DeviceRepository,
	employees employee.EmployeeRepository,
	transport devicedomain.Transport,
	baseURL string,
) DeviceService {
	return &deviceServiceImpl{
		devices:   devices,
		employees: employees,
		transport: transport,
		baseURL:   baseURL,
	}
}

func (s *deviceServiceImpl) CreateDevice(ctx context.Context, req devicedomain.CreateDeviceRequest) (devicedomain.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return devicedomain.DeviceResponse{}, err
	}

	role := devicedomain.Role(req.Role)
	if req.Role == "" {
		role = devicedomain.RoleNone
	}
	port := req.Port
	if port == 0 {
		port = 80
	}

	created, err := s.devices.Create(ctx, devicedomain.Device{
		Name:      req.Name,
		IPAddress: req.IPAddress,
		Port:      port,
		Username:  req.Username,
		Password:  req.Password,
		Role:      role,
		State:     devicedomain.StateDraft,
	})
	if err != nil {
		return devicedomain.DeviceResponse{}, fmt.Errorf("failed to create device: %w", err)
	}

	return devicedomain.ToResponse(created), nil
}

func (s *deviceServiceImpl) GetDevice(ctx context.Context, id string) (devicedomain.DeviceResponse, error) {
	dev, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return devicedomain.DeviceResponse{}, err
	}
	return devicedomain.ToResponse(dev), nil
}

func (s *deviceServiceImpl) ListDevices(ctx context.Context) ([]devicedomain.DeviceResponse, error) {
	devices, err := s.devices.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]devicedomain.DeviceResponse, 0, len(devices))
	for _, dev := range devices {
		responses = append(responses, devicedomain.ToResponse(dev))
	}
	return responses, nil
}

func (s *deviceServiceImpl) UpdateDevice(ctx context.Context, req devicedomain.UpdateDeviceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	dev, err := s.devices.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		dev.Name = *req.Name
	}
	if req.IPAddress != nil {
		dev.IPAddress = *req.IPAddress
	}
	if req.Port != nil {
		dev.Port = *req.Port
	}
	if req.Username != nil {
		dev.Username = *req.Username
	}
	if req.Password != nil {
		dev.Password = *req.Password
	}
	if req.Role != nil {
		dev.Role = devicedomain.Role(*req.Role)
	}

	if err := s.devices.Update(ctx, dev); err != nil {
		return err
	}

	// Changed credentials or address invalidate the last probe result.
	if req.IPAddress != nil || req.Port != nil || req.Username != nil || req.Password != nil {
		if err := s.devices.UpdateState(ctx, dev.ID, devicedomain.StateDraft); err != nil {
			return err
		}
	}

	return nil
}

func (s *deviceServiceImpl) DeleteDevice(ctx context.Context, id string) error {
	return s.devices.Delete(ctx, id)
}

func (s *deviceServiceImpl) TestConnection(ctx context.Context, id string) (devicedomain.TestConnectionResponse, error) {
	dev, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return devicedomain.TestConnectionResponse{}, err
	}

	info, err := s.transport.DeviceInfo(ctx, dev)
	if err != nil {
		slog.Warn("Device probe failed", "device", dev.Name, "error", err)
		if stateErr := s.devices.UpdateState(ctx, dev.ID, devicedomain.StateError); stateErr != nil {
			return devicedomain.TestConnectionResponse{}, stateErr
		}
		return devicedomain.TestConnectionResponse{
			State: string(devicedomain.StateError),
			Error: err.Error(),
		}, nil
	}

	if err := s.devices.UpdateState(ctx, dev.ID, devicedomain.StateConfirmed); err != nil {
		return devicedomain.TestConnectionResponse{}, err
	}

	slog.Info("Device confirmed", "device", dev.Name, "model", info.Model)
	return devicedomain.TestConnectionResponse{
		State:           string(devicedomain.StateConfirmed),
		Model:           info.Model,
		SerialNumber:    info.SerialNumber,
		FirmwareVersion: info.FirmwareVersion,
	}, nil
}

func (s *deviceServiceImpl) ConfigureWebhook(ctx context.Context, id string) error {
	dev, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return err
	}

	host, port, err := hostPortFromBaseURL(s.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", s.baseURL, err)
	}

	if err := s.transport.ConfigureHTTPHost(ctx, dev, host, port, WebhookPath); err != nil {
		return fmt.Errorf("failed to configure webhook on %s: %w", dev.Name, err)
	}

	slog.Info("Webhook configured", "device", dev.Name, "host", host, "port", port)
	return nil
}

func (s *deviceServiceImpl) SyncUsers(ctx context.Context, id string) (devicedomain.SyncUsersResponse, error) {
	dev, err := s.devices.GetByID(ctx, id)
	if err != nil {
		return devicedomain.SyncUsersResponse{}, err
	}

	existing, err := s.transport.ListUserBadges(ctx, dev)
	if err != nil {
		return devicedomain.SyncUsersResponse{}, fmt.Errorf("failed to list terminal users: %w", err)
	}

	employees, err := s.employees.ListActiveWithBadge(ctx)
	if err != nil {
		return devicedomain.SyncUsersResponse{}, err
	}

	result := devicedomain.SyncUsersResponse{Existing: len(existing)}
	for _, emp := range employees {
		if _, ok := existing[*emp.BadgeID]; ok {
			continue
		}
		if err := s.transport.CreateUser(ctx, dev, *emp.BadgeID, emp.Name); err != nil {
			result.Errors++
			slog.Error("User sync: create failed",
				"device", dev.Name, "employee", emp.Name, "error", err)
			continue
		}
		result.Created++
	}

	slog.Info("User sync finished",
		"device", dev.Name, "existing", result.Existing, "created", result.Created, "errors", result.Errors)
	return result, nil
}

// hostPortFromBaseURL extracts the host IP and port the terminals should
// push to. Terminals take a raw host and port, not a URL.
func hostPortFromBaseURL(baseURL string) (string, int, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", 0, err
	}

	host := u.Hostname()
	if host == "" {
		return "", 0, fmt.Errorf("no host in url")
	}

	portStr := u.Port()
	if portStr == "" {
		switch u.Scheme {
		case "https":
			portStr = "443"
		default:
			portStr = "80"
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}

	// Reject hostnames the terminals cannot resolve.
	if net.ParseIP(host) == nil && host != "localhost" {
		slog.Warn("Webhook host is not an IP; terminals may fail to resolve it", "host", host)
	}

	return host, port, nil
}
