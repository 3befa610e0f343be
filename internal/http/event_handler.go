package httpapi

import (
	"net/http"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// EventHandler safety event endpoints, dispatched on /api/events[/{id}].
type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type eventBody struct {
	UserID      int64    `json:"user_id"`
	DeviceID    *string  `json:"device_id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// Collection handles /api/events (list with filters, create).
func (h *EventHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req := service.ListEventsRequest{
			Type:      q.Get("type"),
			Status:    q.Get("status"),
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
			Limit:     parseInt(q.Get("limit"), 0),
			Offset:    parseInt(q.Get("offset"), 0),
		}
		if userID, ok := parseInt64(q.Get("user_id")); ok {
			req.UserID = &userID
		}
		events, err := h.svc.ListEvents(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("ok", eventsPayload(events)))
	case http.MethodPost:
		var body eventBody
		if err := readBodyJSON(r, &body); err != nil {
			writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
			return
		}
		event, err := h.svc.CreateEvent(r.Context(), service.CreateEventRequest{
			UserID:      body.UserID,
			DeviceID:    body.DeviceID,
			Type:        body.Type,
			Description: body.Description,
			Status:      body.Status,
			Latitude:    body.Latitude,
			Longitude:   body.Longitude,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, Ok("event created", event.ToJSON()))
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

// Item handles /api/events/{id} (get, status update, delete).
func (h *EventHandler) Item(w http.ResponseWriter, r *http.Request, rawID string) {
	id, ok := parseInt64(rawID)
	if !ok {
		writeError(w, domain.NewFieldValidation("id", "invalid event id"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		event, err := h.svc.GetEvent(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("ok", event.ToJSON()))
	case http.MethodPut:
		var body eventBody
		if err := readBodyJSON(r, &body); err != nil {
			writeError(w, domain.NewFieldValidation("body", "invalid JSON body"))
			return
		}
		var attendedBy int64
		if p := PrincipalFrom(r.Context()); p != nil {
			attendedBy = p.UserID
		}
		event, err := h.svc.UpdateEventStatus(r.Context(), id, service.UpdateEventStatusRequest{
			Status:     body.Status,
			AttendedBy: attendedBy,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("event updated", event.ToJSON()))
	case http.MethodDelete:
		if err := h.svc.DeleteEvent(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, Ok("event deleted", nil))
	default:
		writeError(w, domain.NewMethodNotAllowed())
	}
}

func eventsPayload(events []*domain.Event) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, e.ToJSON())
	}
	return out
}
