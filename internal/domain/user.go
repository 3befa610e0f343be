package domain

import (
	"database/sql"
	"time"
)

// User is a monitored elderly user (users table).
type User struct {
	ID        int64          `db:"id"`
	FullName  string         `db:"full_name"`
	Email     sql.NullString `db:"email"`
	Phone     sql.NullString `db:"phone"`
	BirthDate sql.NullString `db:"birth_date"`

	// Emergency contacts: at least the first one is required on create.
	EmergencyContact1Name     sql.NullString `db:"emergency_contact_1_name"`
	EmergencyContact1Phone    sql.NullString `db:"emergency_contact_1_phone"`
	EmergencyContact1Relation sql.NullString `db:"emergency_contact_1_relation"`
	EmergencyContact2Name     sql.NullString `db:"emergency_contact_2_name"`
	EmergencyContact2Phone    sql.NullString `db:"emergency_contact_2_phone"`
	EmergencyContact2Relation sql.NullString `db:"emergency_contact_2_relation"`

	MedicalConditions sql.NullString `db:"medical_conditions"`
	Status            string         `db:"status"` // active | inactive
	CreatedAt         time.Time      `db:"created_at"`

	// Joined device columns (nullable, zero or one device per user).
	DeviceID       sql.NullString `db:"device_id"`
	DeviceStatus   sql.NullString `db:"device_status"`
	DeviceBattery  sql.NullInt64  `db:"device_battery"`
	DeviceLastSeen sql.NullTime   `db:"device_last_seen"`
}

// ToJSON shapes the record for HTTP responses.
func (u *User) ToJSON() map[string]any {
	m := map[string]any{
		"id":         u.ID,
		"full_name":  u.FullName,
		"status":     u.Status,
		"created_at": u.CreatedAt,
	}
	putNullString(m, "email", u.Email)
	putNullString(m, "phone", u.Phone)
	putNullString(m, "birth_date", u.BirthDate)
	putNullString(m, "emergency_contact_1_name", u.EmergencyContact1Name)
	putNullString(m, "emergency_contact_1_phone", u.EmergencyContact1Phone)
	putNullString(m, "emergency_contact_1_relation", u.EmergencyContact1Relation)
	putNullString(m, "emergency_contact_2_name", u.EmergencyContact2Name)
	putNullString(m, "emergency_contact_2_phone", u.EmergencyContact2Phone)
	putNullString(m, "emergency_contact_2_relation", u.EmergencyContact2Relation)
	putNullString(m, "medical_conditions", u.MedicalConditions)
	if u.DeviceID.Valid {
		m["device_id"] = u.DeviceID.String
		if u.DeviceStatus.Valid {
			m["device_status"] = u.DeviceStatus.String
		}
		if u.DeviceBattery.Valid {
			m["device_battery"] = u.DeviceBattery.Int64
		}
		if u.DeviceLastSeen.Valid {
			m["device_last_seen"] = u.DeviceLastSeen.Time
		}
	} else {
		m["device_id"] = nil
	}
	return m
}

func putNullString(m map[string]any, key string, v sql.NullString) {
	if v.Valid {
		m[key] = v.String
	}
}
