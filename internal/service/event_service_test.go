package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

func newEventService(events *fakeEventsRepo) EventService {
	return NewEventService(events, nil, zap.NewNop())
}

func TestCreateEvent_StartsPending(t *testing.T) {
	events := newFakeEventsRepo()
	svc := newEventService(events)

	deviceID := "NG-001"
	event, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID:      1,
		DeviceID:    &deviceID,
		Type:        domain.EventTypeFall,
		Description: "fall detected in hallway",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.EventStatusPending, event.Status)
	assert.Equal(t, domain.EventTypeFall, event.Type)
	assert.False(t, event.AttendedAt.Valid)
	assert.False(t, event.AttendedBy.Valid)
}

func TestCreateEvent_CallerSuppliedStatus(t *testing.T) {
	events := newFakeEventsRepo()
	svc := newEventService(events)

	event, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID: 1,
		Type:   domain.EventTypeLowBattery,
		Status: domain.EventStatusResolved,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusResolved, event.Status)

	_, err = svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID: 1,
		Type:   domain.EventTypeSOS,
		Status: "Done",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, map[string]string{"status": "unknown event status"}, domain.FieldsOf(err))
}

func TestCreateEvent_UnknownType(t *testing.T) {
	svc := newEventService(newFakeEventsRepo())

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID: 1,
		Type:   "Earthquake",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, map[string]string{"type": "unknown event type"}, domain.FieldsOf(err))
}

func TestCreateEvent_UnknownUserSurfacesAsPersistence(t *testing.T) {
	events := newFakeEventsRepo()
	events.err = &pq.Error{Code: "23503", Message: `insert or update on table "events" violates foreign key constraint "events_user_id_fkey"`}
	svc := newEventService(events)

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID: 99,
		Type:   domain.EventTypeSOS,
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindPersistence, domain.KindOf(err))
	assert.Contains(t, err.Error(), "foreign key")
}

func TestUpdateEventStatus_StampsAttention(t *testing.T) {
	events := newFakeEventsRepo()
	svc := newEventService(events)

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID: 1,
		Type:   domain.EventTypeSOS,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateEventStatus(context.Background(), created.ID, UpdateEventStatusRequest{
		Status:     domain.EventStatusAttended,
		AttendedBy: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusAttended, updated.Status)
	require.True(t, updated.AttendedAt.Valid)
	require.True(t, updated.AttendedBy.Valid)
	assert.Equal(t, int64(3), updated.AttendedBy.Int64)
}

func TestUpdateEventStatus_RevertToPendingStillStamps(t *testing.T) {
	events := newFakeEventsRepo()
	svc := newEventService(events)

	created, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		UserID: 1,
		Type:   domain.EventTypeSOS,
	})
	require.NoError(t, err)

	_, err = svc.UpdateEventStatus(context.Background(), created.ID, UpdateEventStatusRequest{
		Status:     domain.EventStatusResolved,
		AttendedBy: 3,
	})
	require.NoError(t, err)

	// Any overwrite is allowed, including reverting to Pending; the
	// attention stamp is written on every update.
	reverted, err := svc.UpdateEventStatus(context.Background(), created.ID, UpdateEventStatusRequest{
		Status:     domain.EventStatusPending,
		AttendedBy: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPending, reverted.Status)
	require.True(t, reverted.AttendedAt.Valid)
	require.True(t, reverted.AttendedBy.Valid)
	assert.Equal(t, int64(5), reverted.AttendedBy.Int64)
}

func TestUpdateEventStatus_UnknownStatus(t *testing.T) {
	svc := newEventService(newFakeEventsRepo())

	_, err := svc.UpdateEventStatus(context.Background(), 1, UpdateEventStatusRequest{Status: "Done"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestListEvents_DateRangeValidation(t *testing.T) {
	svc := newEventService(newFakeEventsRepo())

	_, err := svc.ListEvents(context.Background(), ListEventsRequest{
		StartDate: "2025-07-01",
		EndDate:   "2025-06-01",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.ListEvents(context.Background(), ListEventsRequest{StartDate: "01/06/2025"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	// Equal bounds are a valid single-day range.
	_, err = svc.ListEvents(context.Background(), ListEventsRequest{
		StartDate: "2025-06-01",
		EndDate:   "2025-06-01",
	})
	assert.NoError(t, err)
}

func TestDeleteEvent_Unknown(t *testing.T) {
	svc := newEventService(newFakeEventsRepo())

	err := svc.DeleteEvent(context.Background(), 42)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
