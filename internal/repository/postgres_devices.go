package repository

import (
	"context"
	"database/sql"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

type PostgresDevicesRepo struct {
	db *sql.DB
}

func NewPostgresDevicesRepo(db *sql.DB) *PostgresDevicesRepo {
	return &PostgresDevicesRepo{db: db}
}

var _ DevicesRepository = (*PostgresDevicesRepo)(nil)

const deviceColumns = `
	d.id,
	d.user_id,
	d.status,
	d.battery,
	d.last_seen,
	u.full_name AS user_name,
	u.email AS user_email`

func scanDevice(row interface{ Scan(...any) error }) (*domain.Device, error) {
	var d domain.Device
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Status,
		&d.Battery,
		&d.LastSeen,
		&d.UserName,
		&d.UserEmail,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PostgresDevicesRepo) ListDevices(ctx context.Context, status string) ([]*domain.Device, error) {
	q := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN users u ON d.user_id = u.id`
	args := []any{}
	if status != "" {
		q += ` WHERE d.status = $1`
		args = append(args, status)
	}
	q += ` ORDER BY d.id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresDevicesRepo) GetDevice(ctx context.Context, id string) (*domain.Device, error) {
	q := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN users u ON d.user_id = u.id
		WHERE d.id = $1`
	return scanDevice(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresDevicesRepo) DeviceExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM devices WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *PostgresDevicesRepo) CreateDevice(ctx context.Context, p DeviceParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (id, user_id, status, battery, last_seen)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.UserID, p.Status, p.Battery, p.LastSeen)
	return err
}

func (r *PostgresDevicesRepo) UpdateDevice(ctx context.Context, id string, p DeviceParams) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE devices SET
			user_id = $1,
			status = $2,
			battery = $3,
			last_seen = $4
		WHERE id = $5
	`, p.UserID, p.Status, p.Battery, p.LastSeen, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresDevicesRepo) ReassignDevice(ctx context.Context, id string, userID *int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE devices SET user_id = $1 WHERE id = $2`, userID, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeactivateDevice changes both fields in a single statement so a device can
// never be observed inactive but still owned.
func (r *PostgresDevicesRepo) DeactivateDevice(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE devices SET status = 'inactive', user_id = NULL WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresDevicesRepo) DeleteDevice(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresDevicesRepo) ListLowBattery(ctx context.Context, threshold int) ([]*domain.Device, error) {
	q := `
		SELECT ` + deviceColumns + `
		FROM devices d
		LEFT JOIN users u ON d.user_id = u.id
		WHERE d.battery <= $1 AND d.status = 'active'
		ORDER BY d.battery ASC`

	rows, err := r.db.QueryContext(ctx, q, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresDevicesRepo) CountActiveDevices(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM devices WHERE status = 'active'`).Scan(&total)
	return total, err
}

func (r *PostgresDevicesRepo) CountDevicesByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM devices GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{
		domain.DeviceStatusActive:      0,
		domain.DeviceStatusInactive:    0,
		domain.DeviceStatusMaintenance: 0,
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}
