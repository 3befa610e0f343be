package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
)

const dateLayout = "2006-01-02"

// EventService manages safety events from creation through attention.
type EventService interface {
	ListEvents(ctx context.Context, req ListEventsRequest) ([]*domain.Event, error)
	GetEvent(ctx context.Context, eventID int64) (*domain.Event, error)
	CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error)
	UpdateEventStatus(ctx context.Context, eventID int64, req UpdateEventStatusRequest) (*domain.Event, error)
	DeleteEvent(ctx context.Context, eventID int64) error
}

type eventService struct {
	eventsRepo repository.EventsRepository
	notifier   Notifier
	logger     *zap.Logger
}

// NewEventService builds an EventService. notifier may be nil when outbound
// notifications are disabled.
func NewEventService(eventsRepo repository.EventsRepository, notifier Notifier, logger *zap.Logger) EventService {
	return &eventService{
		eventsRepo: eventsRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

// ListEventsRequest event list filters. All fields are optional; dates use
// YYYY-MM-DD and both bounds are inclusive.
type ListEventsRequest struct {
	Type      string
	Status    string
	UserID    *int64
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

// CreateEventRequest explicit event creation payload. Status is optional
// and defaults to Pending.
type CreateEventRequest struct {
	UserID      int64
	DeviceID    *string
	Type        string
	Description string
	Status      string
	Latitude    *float64
	Longitude   *float64
}

// UpdateEventStatusRequest status transition payload. AttendedBy is the
// authenticated admin applying the change.
type UpdateEventStatusRequest struct {
	Status     string
	AttendedBy int64
}

func (s *eventService) ListEvents(ctx context.Context, req ListEventsRequest) ([]*domain.Event, error) {
	// 1. Validate filters
	filters := repository.EventFilters{
		UserID: req.UserID,
	}
	if t := strings.TrimSpace(req.Type); t != "" {
		if !domain.ValidEventType(t) {
			return nil, domain.NewFieldValidation("type", "unknown event type")
		}
		filters.Type = &t
	}
	if st := strings.TrimSpace(req.Status); st != "" {
		if !domain.ValidEventStatus(st) {
			return nil, domain.NewFieldValidation("status", "unknown event status")
		}
		filters.Status = &st
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	filters.StartDate = start
	filters.EndDate = end

	// 2. Query
	events, err := s.eventsRepo.ListEvents(ctx, filters, req.Limit, req.Offset)
	if err != nil {
		s.logger.Error("ListEvents failed", zap.Error(err))
		return nil, domain.NewPersistence("failed to list events", err)
	}
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID int64) (*domain.Event, error) {
	event, err := s.eventsRepo.GetEvent(ctx, eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("event not found")
		}
		s.logger.Error("GetEvent failed", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, domain.NewPersistence("failed to get event", err)
	}
	return event, nil
}

// CreateEvent records a new safety event, Pending unless the caller supplies
// a status. A notification is fired asynchronously when a notifier is
// configured; delivery failures never fail the create.
func (s *eventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	// 1. Validate input
	if req.UserID <= 0 {
		return nil, domain.NewFieldValidation("user_id", "user_id is required")
	}
	eventType := strings.TrimSpace(req.Type)
	if eventType == "" {
		return nil, domain.NewFieldValidation("type", "type is required")
	}
	if !domain.ValidEventType(eventType) {
		return nil, domain.NewFieldValidation("type", "unknown event type")
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.EventStatusPending
	} else if !domain.ValidEventStatus(status) {
		return nil, domain.NewFieldValidation("status", "unknown event status")
	}

	// 2. Insert. The user FK is left to the database; a violation surfaces
	// as a persistence error carrying the driver message.
	var description *string
	if d := strings.TrimSpace(req.Description); d != "" {
		description = &d
	}
	id, err := s.eventsRepo.CreateEvent(ctx, repository.EventParams{
		UserID:      req.UserID,
		DeviceID:    req.DeviceID,
		Type:        eventType,
		Description: description,
		Status:      status,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		s.logger.Error("CreateEvent failed",
			zap.Int64("user_id", req.UserID),
			zap.String("type", eventType),
			zap.Error(err),
		)
		if repository.IsForeignKeyViolation(err) {
			return nil, domain.NewPersistence("user does not exist", err)
		}
		return nil, domain.NewPersistence("failed to create event", err)
	}

	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Event created",
		zap.Int64("event_id", id),
		zap.Int64("user_id", req.UserID),
		zap.String("type", eventType),
	)

	// 3. Fire-and-forget notification
	if s.notifier != nil {
		go s.notifier.NotifyEvent(context.Background(), event)
	}
	return event, nil
}

// UpdateEventStatus overwrites the event status. Any valid status can be set
// regardless of the current one; every update stamps attended_at and
// attended_by with the acting admin, reverts to Pending included.
func (s *eventService) UpdateEventStatus(ctx context.Context, eventID int64, req UpdateEventStatusRequest) (*domain.Event, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		return nil, domain.NewFieldValidation("status", "status is required")
	}
	if !domain.ValidEventStatus(status) {
		return nil, domain.NewFieldValidation("status", "unknown event status")
	}

	now := time.Now()
	found, err := s.eventsRepo.UpdateEventStatus(ctx, eventID, status, &req.AttendedBy, &now)
	if err != nil {
		s.logger.Error("UpdateEventStatus failed", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, domain.NewPersistence("failed to update event status", err)
	}
	if !found {
		return nil, domain.NewNotFound("event not found")
	}

	s.logger.Info("Event status updated",
		zap.Int64("event_id", eventID),
		zap.String("status", status),
	)
	return s.GetEvent(ctx, eventID)
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID int64) error {
	found, err := s.eventsRepo.DeleteEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("DeleteEvent failed", zap.Int64("event_id", eventID), zap.Error(err))
		return domain.NewPersistence("failed to delete event", err)
	}
	if !found {
		return domain.NewNotFound("event not found")
	}

	s.logger.Info("Event deleted", zap.Int64("event_id", eventID))
	return nil
}

// parseDateRange validates an optional inclusive YYYY-MM-DD range. Both
// bounds may be nil independently; when both are set start must not be
// after end.
func parseDateRange(startDate, endDate string) (*string, *string, error) {
	var start, end *string
	if s := strings.TrimSpace(startDate); s != "" {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return nil, nil, domain.NewFieldValidation("start_date", "start_date must be YYYY-MM-DD")
		}
		start = &s
	}
	if e := strings.TrimSpace(endDate); e != "" {
		if _, err := time.Parse(dateLayout, e); err != nil {
			return nil, nil, domain.NewFieldValidation("end_date", "end_date must be YYYY-MM-DD")
		}
		end = &e
	}
	if start != nil && end != nil && *start > *end {
		return nil, nil, domain.NewFieldValidation("start_date", "start_date must not be after end_date")
	}
	return start, end, nil
}
