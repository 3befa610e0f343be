package domain

import (
	"database/sql"
)

// Device statuses. A device with status inactive must have no owner; the
// Deactivate transition is the only place that enforces this.
const (
	DeviceStatusActive      = "active"
	DeviceStatusInactive    = "inactive"
	DeviceStatusMaintenance = "maintenance"
)

// ValidDeviceStatus reports whether s is a recognized device status.
func ValidDeviceStatus(s string) bool {
	switch s {
	case DeviceStatusActive, DeviceStatusInactive, DeviceStatusMaintenance:
		return true
	}
	return false
}

// Device is a wearable unit (devices table). The ID is assigned externally
// at registration time and must be unique.
type Device struct {
	ID       string         `db:"id"`
	UserID   sql.NullInt64  `db:"user_id"` // nullable owner
	Status   string         `db:"status"`  // NOT NULL, default 'active'
	Battery  int            `db:"battery"` // 0-100
	LastSeen sql.NullTime   `db:"last_seen"`

	// Joined owner columns.
	UserName  sql.NullString `db:"user_name"`
	UserEmail sql.NullString `db:"user_email"`
}

// ToJSON shapes the record for HTTP responses.
func (d *Device) ToJSON() map[string]any {
	m := map[string]any{
		"id":      d.ID,
		"status":  d.Status,
		"battery": d.Battery,
	}
	if d.UserID.Valid {
		m["user_id"] = d.UserID.Int64
	} else {
		m["user_id"] = nil
	}
	if d.LastSeen.Valid {
		m["last_seen"] = d.LastSeen.Time
	} else {
		m["last_seen"] = nil
	}
	if d.UserName.Valid {
		m["user_name"] = d.UserName.String
	}
	if d.UserEmail.Valid {
		m["user_email"] = d.UserEmail.String
	}
	return m
}
