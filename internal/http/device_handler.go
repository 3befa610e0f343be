package httpapi

import (
	"net/http"
	"time"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// DeviceHandler device registry endpoints, dispatched on
// /api/devices[/{id}]. PUT carries an optional "action" discriminator for
// the lifecycle operations.
type DeviceHandler struct {
	svc service.DeviceService
}

func NewDeviceHandler(svc service.DeviceService) *DeviceHandler {
	return &DeviceHandler{svc: svc}
}

type deviceBody struct {
	ID       string     `json:"id"`
	Action   string     `json:"action"` // "" | reassign | deactivate
	UserID   *int64     `json:"user_id"`
	Status   string     `json:"status"`
	Battery  *int       `json:"battery"`
	LastSeen *time.Time `json:"last_seen"`
}

// Collection handles /api/devices (list, register).
func (h *DeviceHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		if q.Get("low_battery") == "true" {
			devices, err := h.svc.ListLowBattery(r.Context(), parseInt(q.Get("threshold"), 0))
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, Ok("ok", devicesPayload(devices)))
			return
		}
		devices, err := h.svc.ListDevices(r.Context(), service.ListDevicesRequest{Status: q.Get("status")})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("ok", devicesPayload(devices)))
	case http.MethodPost:
		var body deviceBody
		if err := readBodyJSON(r, &body); err != nil {
			writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
			return
		}
		device, err := h.svc.RegisterDevice(r.Context(), service.RegisterDeviceRequest{
			ID:      body.ID,
			UserID:  body.UserID,
			Status:  body.Status,
			Battery: body.Battery,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok("device registered", device.ToJSON()))
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

// Item handles /api/devices/{id} (get, update/reassign/deactivate, delete).
func (h *DeviceHandler) Item(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		device, err := h.svc.GetDevice(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("ok", device.ToJSON()))
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		if err := h.svc.DeleteDevice(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("device deleted", nil))
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

func (h *DeviceHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var body deviceBody
	if err := readBodyJSON(r, &body); err != nil {
		writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
		return
	}

	switch body.Action {
	case "reassign":
		device, err := h.svc.ReassignDevice(r.Context(), id, body.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("device reassigned", device.ToJSON()))
	case "deactivate":
		if err := h.svc.DeactivateDevice(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("device deactivated", nil))
	case "":
		device, err := h.svc.UpdateDevice(r.Context(), id, service.UpdateDeviceRequest{
			UserID:   body.UserID,
			Status:   body.Status,
			Battery:  body.Battery,
			LastSeen: body.LastSeen,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("device updated", device.ToJSON()))
	default:
		writeError(w, domain.NewFieldValidation("action", "unknown action"))
	}
}

func devicesPayload(devices []*domain.Device) []map[string]any {
	out := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.ToJSON())
	}
	return out
}
