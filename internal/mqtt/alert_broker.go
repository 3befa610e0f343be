package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/service"
)

// deviceMessage is one inbound message on the device topic. Two kinds are
// routed: "alert" creates a safety event, "status" refreshes device battery
// and last-seen.
type deviceMessage struct {
	Kind        string   `json:"kind"` // alert | status
	DeviceID    string   `json:"device_id"`
	UserID      int64    `json:"user_id"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Battery     *int     `json:"battery"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// AlertBroker turns wearable telemetry into events and device updates.
type AlertBroker struct {
	events  service.EventService
	devices service.DeviceService
	logger  *zap.Logger
}

func NewAlertBroker(events service.EventService, devices service.DeviceService, logger *zap.Logger) *AlertBroker {
	return &AlertBroker{
		events:  events,
		devices: devices,
		logger:  logger,
	}
}

// HandleMessage routes one message. A malformed or unroutable message is
// logged and dropped; the subscription stays up.
func (b *AlertBroker) HandleMessage(topic string, payload []byte) error {
	var msg deviceMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		b.logger.Warn("Dropping malformed device message",
			zap.String("topic", topic),
			zap.Int("payload_size", len(payload)),
			zap.Error(err),
		)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch msg.Kind {
	case "alert":
		return b.handleAlert(ctx, &msg)
	case "status":
		return b.handleStatus(ctx, &msg)
	default:
		b.logger.Debug("Unhandled message kind",
			zap.String("topic", topic),
			zap.String("kind", msg.Kind),
		)
		return nil
	}
}

func (b *AlertBroker) handleAlert(ctx context.Context, msg *deviceMessage) error {
	var deviceID *string
	if msg.DeviceID != "" {
		deviceID = &msg.DeviceID
	}

	event, err := b.events.CreateEvent(ctx, service.CreateEventRequest{
		UserID:      msg.UserID,
		DeviceID:    deviceID,
		Type:        msg.Type,
		Description: msg.Description,
		Latitude:    msg.Latitude,
		Longitude:   msg.Longitude,
	})
	if err != nil {
		b.logger.Error("Failed to ingest device alert",
			zap.String("device_id", msg.DeviceID),
			zap.String("type", msg.Type),
			zap.Error(err),
		)
		return err
	}

	b.logger.Info("Device alert ingested",
		zap.Int64("event_id", event.ID),
		zap.String("device_id", msg.DeviceID),
		zap.String("type", msg.Type),
	)
	return nil
}

func (b *AlertBroker) handleStatus(ctx context.Context, msg *deviceMessage) error {
	if msg.DeviceID == "" {
		return fmt.Errorf("status message without device_id")
	}

	device, err := b.devices.GetDevice(ctx, msg.DeviceID)
	if err != nil {
		b.logger.Warn("Status for unknown device",
			zap.String("device_id", msg.DeviceID),
			zap.Error(err),
		)
		return err
	}

	battery := &device.Battery
	if msg.Battery != nil {
		battery = msg.Battery
	}
	var owner *int64
	if device.UserID.Valid {
		owner = &device.UserID.Int64
	}
	now := time.Now()

	_, err = b.devices.UpdateDevice(ctx, msg.DeviceID, service.UpdateDeviceRequest{
		UserID:   owner,
		Status:   device.Status,
		Battery:  battery,
		LastSeen: &now,
	})
	if err != nil {
		b.logger.Error("Failed to apply device status",
			zap.String("device_id", msg.DeviceID),
			zap.Error(err),
		)
		return err
	}

	b.logger.Debug("Device status applied",
		zap.String("device_id", msg.DeviceID),
		zap.Intp("battery", msg.Battery),
	)
	return nil
}
