package domain

import (
	"database/sql"
	"time"
)

// Event types recognized by ingestion.
const (
	EventTypeSOS           = "SOS"
	EventTypeFall          = "Fall"
	EventTypeAbnormalPulse = "Abnormal pulse"
	EventTypeLowBattery    = "Low battery"
)

// Event statuses. Overwrites in any direction are allowed; callers set an
// explicit target status and no ordering is enforced.
const (
	EventStatusPending  = "Pending"
	EventStatusAttended = "Attended"
	EventStatusResolved = "Resolved"
)

// ValidEventType reports whether t is one of the four recognized types.
func ValidEventType(t string) bool {
	switch t {
	case EventTypeSOS, EventTypeFall, EventTypeAbnormalPulse, EventTypeLowBattery:
		return true
	}
	return false
}

// ValidEventStatus reports whether s is a recognized event status.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusPending, EventStatusAttended, EventStatusResolved:
		return true
	}
	return false
}

// Event is a safety alert (events table).
type Event struct {
	ID          int64           `db:"id"`
	UserID      int64           `db:"user_id"`   // NOT NULL, FK users
	DeviceID    sql.NullString  `db:"device_id"` // nullable
	Type        string          `db:"type"`
	Description sql.NullString  `db:"description"`
	Status      string          `db:"status"` // default 'Pending'
	Latitude    sql.NullFloat64 `db:"latitude"`
	Longitude   sql.NullFloat64 `db:"longitude"`
	CreatedAt   time.Time       `db:"created_at"`
	AttendedAt  sql.NullTime    `db:"attended_at"`
	AttendedBy  sql.NullInt64   `db:"attended_by"` // admin id

	// Joined columns for detail/list views.
	UserName               sql.NullString `db:"user_name"`
	UserPhone              sql.NullString `db:"user_phone"`
	EmergencyContact1Name  sql.NullString `db:"emergency_contact_1_name"`
	EmergencyContact1Phone sql.NullString `db:"emergency_contact_1_phone"`
	DeviceBattery          sql.NullInt64  `db:"device_battery"`
}

// ToJSON shapes the record for HTTP responses.
func (e *Event) ToJSON() map[string]any {
	m := map[string]any{
		"id":         e.ID,
		"user_id":    e.UserID,
		"type":       e.Type,
		"status":     e.Status,
		"created_at": e.CreatedAt,
	}
	if e.DeviceID.Valid {
		m["device_id"] = e.DeviceID.String
	} else {
		m["device_id"] = nil
	}
	putNullString(m, "description", e.Description)
	if e.Latitude.Valid {
		m["latitude"] = e.Latitude.Float64
	}
	if e.Longitude.Valid {
		m["longitude"] = e.Longitude.Float64
	}
	if e.AttendedAt.Valid {
		m["attended_at"] = e.AttendedAt.Time
	}
	if e.AttendedBy.Valid {
		m["attended_by"] = e.AttendedBy.Int64
	}
	putNullString(m, "user_name", e.UserName)
	putNullString(m, "user_phone", e.UserPhone)
	putNullString(m, "emergency_contact_1_name", e.EmergencyContact1Name)
	putNullString(m, "emergency_contact_1_phone", e.EmergencyContact1Phone)
	if e.DeviceBattery.Valid {
		m["device_battery"] = e.DeviceBattery.Int64
	}
	return m
}
