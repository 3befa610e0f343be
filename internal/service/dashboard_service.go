package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
	"github.com/H0M10/NovaGuardianBackend/internal/store"
)

const (
	dashboardCacheKey = "novaguardian:dashboard:stats"
	dashboardCacheTTL = 30 * time.Second

	recentEventsLimit = 10
	byTypeWindowDays  = 7
	byDayWindowDays   = 30
)

// DashboardStats is the aggregate snapshot rendered by the admin panel.
type DashboardStats struct {
	TotalUsers        int                    `json:"total_users"`
	ActiveDevices     int                    `json:"active_devices"`
	PendingAlerts     int                    `json:"pending_alerts"`
	EventsToday       int                    `json:"events_today"`
	RecentEvents      []map[string]any       `json:"recent_events"`
	EventsByType      []repository.TypeCount `json:"events_by_type"`
	EventsByDay       []repository.DayCount  `json:"events_by_day"`
	DevicesByStatus   map[string]int         `json:"devices_by_status"`
	LowBatteryDevices []map[string]any       `json:"low_battery_devices"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

// DashboardService aggregates counters and recent activity for the panel
// home screen.
type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	usersRepo   repository.UsersRepository
	devicesRepo repository.DevicesRepository
	eventsRepo  repository.EventsRepository
	cache       store.KV
	logger      *zap.Logger
}

// NewDashboardService builds a DashboardService. cache may be nil, in which
// case every call recomputes.
func NewDashboardService(
	usersRepo repository.UsersRepository,
	devicesRepo repository.DevicesRepository,
	eventsRepo repository.EventsRepository,
	cache store.KV,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		usersRepo:   usersRepo,
		devicesRepo: devicesRepo,
		eventsRepo:  eventsRepo,
		cache:       cache,
		logger:      logger,
	}
}

// GetStats serves the cached snapshot when fresh, recomputing otherwise.
// Cache failures degrade to direct queries, never to an error.
func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	// 1. Cache lookup
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, dashboardCacheKey); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
			s.logger.Warn("Discarding undecodable dashboard cache entry")
		} else if err != store.ErrMiss {
			s.logger.Warn("Dashboard cache read failed", zap.Error(err))
		}
	}

	// 2. Recompute
	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Store
	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, string(raw), dashboardCacheTTL); err != nil {
				s.logger.Warn("Dashboard cache write failed", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *dashboardService) computeStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{GeneratedAt: time.Now()}

	var err error
	if stats.TotalUsers, err = s.usersRepo.CountActiveUsers(ctx); err != nil {
		return nil, domain.NewPersistence("failed to count users", err)
	}
	if stats.ActiveDevices, err = s.devicesRepo.CountActiveDevices(ctx); err != nil {
		return nil, domain.NewPersistence("failed to count devices", err)
	}
	if stats.PendingAlerts, err = s.eventsRepo.CountPendingEvents(ctx); err != nil {
		return nil, domain.NewPersistence("failed to count pending events", err)
	}
	if stats.EventsToday, err = s.eventsRepo.CountEventsToday(ctx); err != nil {
		return nil, domain.NewPersistence("failed to count today's events", err)
	}

	recent, err := s.eventsRepo.ListEvents(ctx, repository.EventFilters{}, recentEventsLimit, 0)
	if err != nil {
		return nil, domain.NewPersistence("failed to list recent events", err)
	}
	stats.RecentEvents = eventsToJSON(recent)

	if stats.EventsByType, err = s.eventsRepo.CountEventsByType(ctx, byTypeWindowDays); err != nil {
		return nil, domain.NewPersistence("failed to count events by type", err)
	}
	if stats.EventsByDay, err = s.eventsRepo.CountEventsByDay(ctx, byDayWindowDays); err != nil {
		return nil, domain.NewPersistence("failed to count events by day", err)
	}
	if stats.DevicesByStatus, err = s.devicesRepo.CountDevicesByStatus(ctx); err != nil {
		return nil, domain.NewPersistence("failed to count devices by status", err)
	}

	lowBattery, err := s.devicesRepo.ListLowBattery(ctx, DefaultLowBatteryThreshold)
	if err != nil {
		return nil, domain.NewPersistence("failed to list low battery devices", err)
	}
	stats.LowBatteryDevices = devicesToJSON(lowBattery)

	return stats, nil
}

func eventsToJSON(events []*domain.Event) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, e := range events {
		out = append(out, e.ToJSON())
	}
	return out
}

func devicesToJSON(devices []*domain.Device) []map[string]any {
	out := make([]map[string]any, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.ToJSON())
	}
	return out
}
