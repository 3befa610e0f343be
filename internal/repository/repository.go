package repository

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

// UsersRepository row-oriented access to monitored users.
type UsersRepository interface {
	ListUsers(ctx context.Context, search string, limit, offset int) ([]*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, p UserParams) (int64, error)
	UpdateUser(ctx context.Context, id int64, p UserParams) (bool, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
	CountActiveUsers(ctx context.Context) (int, error)
}

// UserParams carries the writable user columns. Optional fields are
// pointers; nil writes NULL (create) or overwrites with NULL (update), which
// matches the original full-row update behavior.
type UserParams struct {
	FullName                  string
	Email                     *string
	Phone                     *string
	BirthDate                 *string
	EmergencyContact1Name     *string
	EmergencyContact1Phone    *string
	EmergencyContact1Relation *string
	EmergencyContact2Name     *string
	EmergencyContact2Phone    *string
	EmergencyContact2Relation *string
	MedicalConditions         *string
	Status                    string
}

// DevicesRepository row-oriented access to wearable devices.
type DevicesRepository interface {
	ListDevices(ctx context.Context, status string) ([]*domain.Device, error)
	GetDevice(ctx context.Context, id string) (*domain.Device, error)
	DeviceExists(ctx context.Context, id string) (bool, error)
	CreateDevice(ctx context.Context, p DeviceParams) error
	UpdateDevice(ctx context.Context, id string, p DeviceParams) (bool, error)
	ReassignDevice(ctx context.Context, id string, userID *int64) (bool, error)
	// DeactivateDevice sets status=inactive and user_id=NULL in one UPDATE.
	DeactivateDevice(ctx context.Context, id string) (bool, error)
	DeleteDevice(ctx context.Context, id string) (bool, error)
	ListLowBattery(ctx context.Context, threshold int) ([]*domain.Device, error)
	CountActiveDevices(ctx context.Context) (int, error)
	CountDevicesByStatus(ctx context.Context) (map[string]int, error)
}

// DeviceParams carries the writable device columns.
type DeviceParams struct {
	ID       string
	UserID   *int64
	Status   string
	Battery  int
	LastSeen *time.Time
}

// EventsRepository row-oriented access to safety events.
type EventsRepository interface {
	CreateEvent(ctx context.Context, p EventParams) (int64, error)
	GetEvent(ctx context.Context, id int64) (*domain.Event, error)
	ListEvents(ctx context.Context, filters EventFilters, limit, offset int) ([]*domain.Event, error)
	UpdateEventStatus(ctx context.Context, id int64, status string, attendedBy *int64, attendedAt *time.Time) (bool, error)
	DeleteEvent(ctx context.Context, id int64) (bool, error)
	CountPendingEvents(ctx context.Context) (int, error)
	CountEventsToday(ctx context.Context) (int, error)
	CountEventsByType(ctx context.Context, days int) ([]TypeCount, error)
	CountEventsByDay(ctx context.Context, days int) ([]DayCount, error)
}

// EventParams carries the writable columns for event creation.
type EventParams struct {
	UserID      int64
	DeviceID    *string
	Type        string
	Description *string
	Status      string
	Latitude    *float64
	Longitude   *float64
}

// EventFilters narrows ListEvents. Date bounds are inclusive on both ends
// and compare against the event date, not the timestamp.
type EventFilters struct {
	Type      *string
	UserID    *int64
	Status    *string
	StartDate *string // YYYY-MM-DD
	EndDate   *string // YYYY-MM-DD
}

// TypeCount is one row of the per-type aggregation.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DayCount is one row of the per-day aggregation.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AdminsRepository access to administrator accounts.
type AdminsRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
	GetAdmin(ctx context.Context, id int64) (*domain.Admin, error)
	UpdateLastSession(ctx context.Context, id int64) error
}

// Postgres error classes the services care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a Postgres duplicate-key failure.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return false
}

// IsForeignKeyViolation reports whether err is a Postgres FK failure.
func IsForeignKeyViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return string(pqErr.Code) == pgForeignKeyViolation
	}
	return false
}
