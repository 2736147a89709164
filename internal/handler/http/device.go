package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	devicedomain "github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http/response"
	devicesvc "github.com/cmlabs-hris/faceid-bridge-go/internal/service/device"
	"github.com/go-chi/chi/v5"
)

type DeviceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	TestConnection(w http.ResponseWriter, r *http.Request)
	ConfigureWebhook(w http.ResponseWriter, r *http.Request)
	SyncUsers(w http.ResponseWriter, r *http.Request)
}

type deviceHandlerImpl struct {
	deviceService devicesvc.DeviceService
}

func NewDeviceHandler(deviceService devicesvc.DeviceService) DeviceHandler {
	return &deviceHandlerImpl{
		deviceService: deviceService,
	}
}

// Create implements DeviceHandler.
func (h *deviceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req devicedomain.CreateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode device create request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.deviceService.CreateDevice(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Device registered", created)
}

// List implements DeviceHandler.
func (h *deviceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	devices, err := h.deviceService.ListDevices(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, devices)
}

// Get implements DeviceHandler.
func (h *deviceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dev, err := h.deviceService.GetDevice(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, dev)
}

// Update implements DeviceHandler.
func (h *deviceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req devicedomain.UpdateDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := h.deviceService.UpdateDevice(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Device updated", nil)
}

// Delete implements DeviceHandler.
func (h *deviceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.deviceService.DeleteDevice(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Device deleted", nil)
}

// TestConnection implements DeviceHandler.
func (h *deviceHandlerImpl) TestConnection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.deviceService.TestConnection(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ConfigureWebhook implements DeviceHandler.
func (h *deviceHandlerImpl) ConfigureWebhook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.deviceService.ConfigureWebhook(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Webhook configured", nil)
}

// SyncUsers implements DeviceHandler.
func (h *deviceHandlerImpl) SyncUsers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.deviceService.SyncUsers(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
