package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/handler/http/response"
	"github.com/cmlabs-hris/faceid-bridge-go/internal/service/reconcile"
)

// accessControllerMajor is the event family carrying badge reads; other
// families (alarms, tampering) are acknowledged and dropped.
const accessControllerMajor = 5

type WebhookHandler interface {
	Receive(w http.ResponseWriter, r *http.Request)
	Test(w http.ResponseWriter, r *http.Request)
}

type webhookHandlerImpl struct {
	reconcileSvc *reconcile.Service
	devices      device.DeviceRepository
}

// NewWebhookHandler receives terminal event pushes. Terminals retry failed
// deliveries aggressively, so the handler always acknowledges with 200 once
// the payload is readable; the event-log dedup absorbs the replays.
func NewWebhookHandler(reconcileSvc *reconcile.Service, devices device.DeviceRepository) WebhookHandler {
	return &webhookHandlerImpl{
		reconcileSvc: reconcileSvc,
		devices:      devices,
	}
}

// eventNotification mirrors the terminal's EventNotificationAlert JSON.
type eventNotification struct {
	IPAddress             string `json:"ipAddress"`
	DateTime              string `json:"dateTime"`
	AccessControllerEvent *struct {
		MajorEventType   int    `json:"majorEventType"`
		SubEventType     int    `json:"subEventType"`
		EmployeeNoString string `json:"employeeNoString"`
		Label            string `json:"label"`
	} `json:"AccessControllerEvent"`
}

// Receive implements WebhookHandler.
func (h *webhookHandlerImpl) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		response.BadRequest(w, "Failed to read body", nil)
		return
	}

	var notif eventNotification
	if err := json.Unmarshal(body, &notif); err != nil {
		// Some firmwares wrap the JSON in a multipart part; try to find the
		// object inside the raw body before giving up.
		if extracted := extractJSONObject(body); extracted != nil {
			err = json.Unmarshal(extracted, &notif)
		}
		if err != nil {
			slog.Warn("Webhook: undecodable payload", "error", err)
			response.BadRequest(w, "Invalid payload", nil)
			return
		}
	}

	ev := notif.AccessControllerEvent
	if ev == nil || ev.MajorEventType != accessControllerMajor || ev.EmployeeNoString == "" {
		// Heartbeats and non-access events are acknowledged silently.
		response.Success(w, nil)
		return
	}

	dev, err := h.resolveDevice(r.Context(), notif.IPAddress)
	if err != nil {
		slog.Warn("Webhook: cannot attribute push to a device", "ip", notif.IPAddress, "error", err)
		response.HandleError(w, err)
		return
	}

	outcome, err := h.reconcileSvc.ApplyOne(r.Context(), dev, device.RawEvent{
		BadgeID: ev.EmployeeNoString,
		Time:    notif.DateTime,
		Label:   ev.Label,
	}, true)
	if err != nil {
		slog.Error("Webhook: apply failed", "badge", ev.EmployeeNoString, "error", err)
		response.InternalServerError(w, "Failed to apply event")
		return
	}

	response.Success(w, map[string]string{"outcome": string(outcome)})
}

// Test implements WebhookHandler. Terminals probe the URL when the push
// destination is configured.
func (h *webhookHandlerImpl) Test(w http.ResponseWriter, r *http.Request) {
	response.SuccessWithMessage(w, "Webhook endpoint reachable", nil)
}

// resolveDevice matches the push's source IP to a registered terminal,
// falling back to the first confirmed one when the terminal reports a NATed
// address we do not know.
func (h *webhookHandlerImpl) resolveDevice(ctx context.Context, ip string) (device.Device, error) {
	if ip != "" {
		dev, err := h.devices.GetByIP(ctx, ip)
		if err == nil {
			return dev, nil
		}
		if !errors.Is(err, device.ErrDeviceNotFound) {
			return device.Device{}, err
		}
	}

	confirmed, err := h.devices.ListByState(ctx, device.StateConfirmed)
	if err != nil {
		return device.Device{}, err
	}
	if len(confirmed) == 0 {
		return device.Device{}, device.ErrNoConfirmedDevice
	}
	return confirmed[0], nil
}

func extractJSONObject(body []byte) []byte {
	start := -1
	depth := 0
	for i, b := range body {
		switch b {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start >= 0 {
				depth--
				if depth == 0 {
					return body[start : i+1]
				}
			}
		}
	}
	return nil
}
