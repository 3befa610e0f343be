package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

type PostgresEventsRepo struct {
	db *sql.DB
}

func NewPostgresEventsRepo(db *sql.DB) *PostgresEventsRepo {
	return &PostgresEventsRepo{db: db}
}

var _ EventsRepository = (*PostgresEventsRepo)(nil)

const eventColumns = `
	e.id,
	e.user_id,
	e.device_id,
	e.type,
	e.description,
	e.status,
	e.latitude,
	e.longitude,
	e.created_at,
	e.attended_at,
	e.attended_by,
	u.full_name AS user_name,
	u.phone AS user_phone,
	u.emergency_contact_1_name,
	u.emergency_contact_1_phone,
	d.battery AS device_battery`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.DeviceID,
		&e.Type,
		&e.Description,
		&e.Status,
		&e.Latitude,
		&e.Longitude,
		&e.CreatedAt,
		&e.AttendedAt,
		&e.AttendedBy,
		&e.UserName,
		&e.UserPhone,
		&e.EmergencyContact1Name,
		&e.EmergencyContact1Phone,
		&e.DeviceBattery,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresEventsRepo) CreateEvent(ctx context.Context, p EventParams) (int64, error) {
	q := `
		INSERT INTO events (user_id, device_id, type, description, status, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, q,
		p.UserID,
		p.DeviceID,
		p.Type,
		p.Description,
		p.Status,
		p.Latitude,
		p.Longitude,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresEventsRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	q := `
		SELECT ` + eventColumns + `
		FROM events e
		INNER JOIN users u ON e.user_id = u.id
		LEFT JOIN devices d ON e.device_id = d.id
		WHERE e.id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresEventsRepo) ListEvents(ctx context.Context, filters EventFilters, limit, offset int) ([]*domain.Event, error) {
	where := []string{}
	args := []any{}
	argN := 1
	add := func(clause string, v any) {
		where = append(where, fmt.Sprintf(clause, argN))
		args = append(args, v)
		argN++
	}

	if filters.Type != nil {
		add("e.type = $%d", *filters.Type)
	}
	if filters.UserID != nil {
		add("e.user_id = $%d", *filters.UserID)
	}
	if filters.Status != nil {
		add("e.status = $%d", *filters.Status)
	}
	// Both bounds inclusive, compared on the event date.
	if filters.StartDate != nil {
		add("e.created_at::date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		add("e.created_at::date <= $%d", *filters.EndDate)
	}

	q := `
		SELECT ` + eventColumns + `
		FROM events e
		INNER JOIN users u ON e.user_id = u.id
		LEFT JOIN devices d ON e.device_id = d.id`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY e.created_at DESC`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1)
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PostgresEventsRepo) UpdateEventStatus(ctx context.Context, id int64, status string, attendedBy *int64, attendedAt *time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET
			status = $1,
			attended_at = $2,
			attended_by = $3
		WHERE id = $4
	`, status, attendedAt, attendedBy, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresEventsRepo) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresEventsRepo) CountPendingEvents(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = 'Pending'`).Scan(&total)
	return total, err
}

func (r *PostgresEventsRepo) CountEventsToday(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE created_at::date = CURRENT_DATE`).Scan(&total)
	return total, err
}

func (r *PostgresEventsRepo) CountEventsByType(ctx context.Context, days int) ([]TypeCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, COUNT(*)
		FROM events
		WHERE created_at >= NOW() - ($1 || ' days')::interval
		GROUP BY type
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TypeCount{}
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func (r *PostgresEventsRepo) CountEventsByDay(ctx context.Context, days int) ([]DayCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at::date::text, COUNT(*)
		FROM events
		WHERE created_at >= NOW() - ($1 || ' days')::interval
		GROUP BY created_at::date
		ORDER BY created_at::date
	`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DayCount{}
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}
