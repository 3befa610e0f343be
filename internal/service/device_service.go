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

// DefaultLowBatteryThreshold is the battery percentage at or below which a
// device shows up on the proactive-alerting dashboard.
const DefaultLowBatteryThreshold = 20

// DeviceService encodes the device lifecycle: registration, reassignment,
// deactivation and free-form updates.
type DeviceService interface {
	ListDevices(ctx context.Context, req ListDevicesRequest) ([]*domain.Device, error)
	GetDevice(ctx context.Context, deviceID string) (*domain.Device, error)
	RegisterDevice(ctx context.Context, req RegisterDeviceRequest) (*domain.Device, error)
	ReassignDevice(ctx context.Context, deviceID string, userID *int64) (*domain.Device, error)
	DeactivateDevice(ctx context.Context, deviceID string) error
	UpdateDevice(ctx context.Context, deviceID string, req UpdateDeviceRequest) (*domain.Device, error)
	DeleteDevice(ctx context.Context, deviceID string) error
	ListLowBattery(ctx context.Context, threshold int) ([]*domain.Device, error)
}

type deviceService struct {
	devicesRepo repository.DevicesRepository
	logger      *zap.Logger
}

func NewDeviceService(devicesRepo repository.DevicesRepository, logger *zap.Logger) DeviceService {
	return &deviceService{
		devicesRepo: devicesRepo,
		logger:      logger,
	}
}

// ListDevicesRequest list filter.
type ListDevicesRequest struct {
	Status string // optional: active | inactive | maintenance
}

// RegisterDeviceRequest explicit registration payload. The device ID comes
// from the caller (printed on the unit), not from the database.
type RegisterDeviceRequest struct {
	ID      string
	UserID  *int64
	Status  string // defaults to active
	Battery *int   // defaults to 100
}

// UpdateDeviceRequest general-purpose field overwrite. Unset fields fall
// back to defaults (status active, battery 100), mirroring the write shape
// of the ingestion path. No cross-field validation: this operation can leave
// an inactive device owned, which the lifecycle operations never do.
type UpdateDeviceRequest struct {
	UserID   *int64
	Status   string
	Battery  *int
	LastSeen *time.Time
}

func (s *deviceService) ListDevices(ctx context.Context, req ListDevicesRequest) ([]*domain.Device, error) {
	status := strings.TrimSpace(req.Status)
	if status != "" && !domain.ValidDeviceStatus(status) {
		return nil, domain.NewFieldValidation("status", "unknown device status")
	}

	devices, err := s.devicesRepo.ListDevices(ctx, status)
	if err != nil {
		s.logger.Error("ListDevices failed", zap.Error(err))
		return nil, domain.NewPersistence("failed to list devices", err)
	}
	return devices, nil
}

func (s *deviceService) GetDevice(ctx context.Context, deviceID string) (*domain.Device, error) {
	device, err := s.devicesRepo.GetDevice(ctx, deviceID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("device not found")
		}
		s.logger.Error("GetDevice failed", zap.String("device_id", deviceID), zap.Error(err))
		return nil, domain.NewPersistence("failed to get device", err)
	}
	return device, nil
}

// RegisterDevice creates a device record. Fails with Conflict when the ID is
// already registered; the first record is left untouched.
func (s *deviceService) RegisterDevice(ctx context.Context, req RegisterDeviceRequest) (*domain.Device, error) {
	// 1. Validate params
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return nil, domain.NewFieldValidation("id", "device id is required")
	}
	status := req.Status
	if status == "" {
		status = domain.DeviceStatusActive
	}
	if !domain.ValidDeviceStatus(status) {
		return nil, domain.NewFieldValidation("status", "unknown device status")
	}
	battery := 100
	if req.Battery != nil {
		battery = *req.Battery
	}
	if battery < 0 || battery > 100 {
		return nil, domain.NewFieldValidation("battery", "battery must be between 0 and 100")
	}

	// 2. Duplicate check
	exists, err := s.devicesRepo.DeviceExists(ctx, id)
	if err != nil {
		return nil, domain.NewPersistence("failed to check device id", err)
	}
	if exists {
		return nil, domain.NewConflict("device id already registered")
	}

	// 3. Create
	err = s.devicesRepo.CreateDevice(ctx, repository.DeviceParams{
		ID:      id,
		UserID:  req.UserID,
		Status:  status,
		Battery: battery,
	})
	if err != nil {
		// Concurrent registration of the same id lands here.
		if repository.IsUniqueViolation(err) {
			return nil, domain.NewConflict("device id already registered")
		}
		s.logger.Error("RegisterDevice failed", zap.String("device_id", id), zap.Error(err))
		return nil, domain.NewPersistence("failed to register device", err)
	}

	s.logger.Info("Device registered",
		zap.String("device_id", id),
		zap.String("status", status),
		zap.Int("battery", battery),
	)
	return s.GetDevice(ctx, id)
}

// ReassignDevice changes (or clears) the owner without touching status.
func (s *deviceService) ReassignDevice(ctx context.Context, deviceID string, userID *int64) (*domain.Device, error) {
	found, err := s.devicesRepo.ReassignDevice(ctx, deviceID, userID)
	if err != nil {
		s.logger.Error("ReassignDevice failed", zap.String("device_id", deviceID), zap.Error(err))
		return nil, domain.NewPersistence("failed to reassign device", err)
	}
	if !found {
		return nil, domain.NewNotFound("device not found")
	}

	s.logger.Info("Device reassigned",
		zap.String("device_id", deviceID),
		zap.Any("user_id", userID),
	)
	return s.GetDevice(ctx, deviceID)
}

// DeactivateDevice retires a device: status=inactive and owner cleared in
// the same statement.
func (s *deviceService) DeactivateDevice(ctx context.Context, deviceID string) error {
	found, err := s.devicesRepo.DeactivateDevice(ctx, deviceID)
	if err != nil {
		s.logger.Error("DeactivateDevice failed", zap.String("device_id", deviceID), zap.Error(err))
		return domain.NewPersistence("failed to deactivate device", err)
	}
	if !found {
		return domain.NewNotFound("device not found")
	}

	s.logger.Info("Device deactivated", zap.String("device_id", deviceID))
	return nil
}

func (s *deviceService) UpdateDevice(ctx context.Context, deviceID string, req UpdateDeviceRequest) (*domain.Device, error) {
	status := req.Status
	if status == "" {
		status = domain.DeviceStatusActive
	}
	if !domain.ValidDeviceStatus(status) {
		return nil, domain.NewFieldValidation("status", "unknown device status")
	}
	battery := 100
	if req.Battery != nil {
		battery = *req.Battery
	}
	if battery < 0 || battery > 100 {
		return nil, domain.NewFieldValidation("battery", "battery must be between 0 and 100")
	}

	found, err := s.devicesRepo.UpdateDevice(ctx, deviceID, repository.DeviceParams{
		UserID:   req.UserID,
		Status:   status,
		Battery:  battery,
		LastSeen: req.LastSeen,
	})
	if err != nil {
		s.logger.Error("UpdateDevice failed", zap.String("device_id", deviceID), zap.Error(err))
		return nil, domain.NewPersistence("failed to update device", err)
	}
	if !found {
		return nil, domain.NewNotFound("device not found")
	}
	return s.GetDevice(ctx, deviceID)
}

func (s *deviceService) DeleteDevice(ctx context.Context, deviceID string) error {
	found, err := s.devicesRepo.DeleteDevice(ctx, deviceID)
	if err != nil {
		s.logger.Error("DeleteDevice failed", zap.String("device_id", deviceID), zap.Error(err))
		return domain.NewPersistence("failed to delete device", err)
	}
	if !found {
		return domain.NewNotFound("device not found")
	}

	s.logger.Info("Device deleted", zap.String("device_id", deviceID))
	return nil
}

// ListLowBattery returns active devices at or below the threshold, lowest
// battery first.
func (s *deviceService) ListLowBattery(ctx context.Context, threshold int) ([]*domain.Device, error) {
	if threshold <= 0 {
		threshold = DefaultLowBatteryThreshold
	}
	devices, err := s.devicesRepo.ListLowBattery(ctx, threshold)
	if err != nil {
		s.logger.Error("ListLowBattery failed", zap.Int("threshold", threshold), zap.Error(err))
		return nil, domain.NewPersistence("failed to list low battery devices", err)
	}
	return devices, nil
}
