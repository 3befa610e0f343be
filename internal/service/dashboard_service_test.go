package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/store"
)

func dashboardFixture(t *testing.T) (*fakeUsersRepo, *fakeDevicesRepo, *fakeEventsRepo) {
	t.Helper()

	users := newFakeUsersRepo()
	users.addUser("Maria Lopez")
	users.addUser("Juan Perez")

	devices := newFakeDevicesRepo()
	devSvc := NewDeviceService(devices, zap.NewNop())
	lowBattery := 10
	_, err := devSvc.RegisterDevice(context.Background(), RegisterDeviceRequest{ID: "NG-001"})
	require.NoError(t, err)
	_, err = devSvc.RegisterDevice(context.Background(), RegisterDeviceRequest{ID: "NG-002", Battery: &lowBattery})
	require.NoError(t, err)
	require.NoError(t, devSvc.DeactivateDevice(context.Background(), "NG-002"))

	events := newFakeEventsRepo()
	evSvc := NewEventService(events, nil, zap.NewNop())
	_, err = evSvc.CreateEvent(context.Background(), CreateEventRequest{UserID: 1, Type: domain.EventTypeSOS})
	require.NoError(t, err)
	_, err = evSvc.CreateEvent(context.Background(), CreateEventRequest{UserID: 2, Type: domain.EventTypeFall})
	require.NoError(t, err)

	return users, devices, events
}

func TestGetStats_Computes(t *testing.T) {
	users, devices, events := dashboardFixture(t)
	svc := NewDashboardService(users, devices, events, nil, zap.NewNop())

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ActiveDevices)
	assert.Equal(t, 2, stats.PendingAlerts)
	assert.Len(t, stats.RecentEvents, 2)
	assert.Equal(t, 1, stats.DevicesByStatus[domain.DeviceStatusActive])
	assert.Equal(t, 1, stats.DevicesByStatus[domain.DeviceStatusInactive])
	assert.Equal(t, 0, stats.DevicesByStatus[domain.DeviceStatusMaintenance])
}

func TestGetStats_ServesFromCache(t *testing.T) {
	users, devices, events := dashboardFixture(t)

	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	svc := NewDashboardService(users, devices, events, kv, zap.NewNop())

	first, err := svc.GetStats(context.Background())
	require.NoError(t, err)

	// Mutate the store; the cached snapshot must still be served.
	users.addUser("Tercero")

	second, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.TotalUsers, second.TotalUsers)

	// After expiry the snapshot is recomputed.
	mr.FastForward(dashboardCacheTTL * 2)
	third, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, third.TotalUsers)
}

func TestGetStats_DegradesOnCacheFailure(t *testing.T) {
	users, devices, events := dashboardFixture(t)

	mr := miniredis.RunT(t)
	kv := store.NewRedisKV(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	svc := NewDashboardService(users, devices, events, kv, zap.NewNop())

	mr.Close()

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
}
