package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

type PostgresUsersRepo struct {
	db *sql.DB
}

func NewPostgresUsersRepo(db *sql.DB) *PostgresUsersRepo {
	return &PostgresUsersRepo{db: db}
}

var _ UsersRepository = (*PostgresUsersRepo)(nil)

const userColumns = `
	u.id,
	u.full_name,
	u.email,
	u.phone,
	u.birth_date,
	u.emergency_contact_1_name,
	u.emergency_contact_1_phone,
	u.emergency_contact_1_relation,
	u.emergency_contact_2_name,
	u.emergency_contact_2_phone,
	u.emergency_contact_2_relation,
	u.medical_conditions,
	u.status,
	u.created_at,
	d.id AS device_id,
	d.status AS device_status,
	d.battery AS device_battery,
	d.last_seen AS device_last_seen`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Phone,
		&u.BirthDate,
		&u.EmergencyContact1Name,
		&u.EmergencyContact1Phone,
		&u.EmergencyContact1Relation,
		&u.EmergencyContact2Name,
		&u.EmergencyContact2Phone,
		&u.EmergencyContact2Relation,
		&u.MedicalConditions,
		&u.Status,
		&u.CreatedAt,
		&u.DeviceID,
		&u.DeviceStatus,
		&u.DeviceBattery,
		&u.DeviceLastSeen,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUsersRepo) ListUsers(ctx context.Context, search string, limit, offset int) ([]*domain.User, error) {
	q := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN devices d ON d.user_id = u.id`
	args := []any{}
	if search != "" {
		q += ` WHERE u.full_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	q += ` ORDER BY u.full_name`
	if limit > 0 {
		n := len(args)
		q += fmt.Sprintf(" LIMIT $%d OFFSET $%d", n+1, n+2)
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUsersRepo) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	q := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN devices d ON d.user_id = u.id
		WHERE u.id = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresUsersRepo) CreateUser(ctx context.Context, p UserParams) (int64, error) {
	q := `
		INSERT INTO users (
			full_name, email, phone, birth_date,
			emergency_contact_1_name, emergency_contact_1_phone, emergency_contact_1_relation,
			emergency_contact_2_name, emergency_contact_2_phone, emergency_contact_2_relation,
			medical_conditions, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, q,
		p.FullName,
		p.Email,
		p.Phone,
		p.BirthDate,
		p.EmergencyContact1Name,
		p.EmergencyContact1Phone,
		p.EmergencyContact1Relation,
		p.EmergencyContact2Name,
		p.EmergencyContact2Phone,
		p.EmergencyContact2Relation,
		p.MedicalConditions,
		p.Status,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresUsersRepo) UpdateUser(ctx context.Context, id int64, p UserParams) (bool, error) {
	q := `
		UPDATE users SET
			full_name = $1,
			email = $2,
			phone = $3,
			birth_date = $4,
			emergency_contact_1_name = $5,
			emergency_contact_1_phone = $6,
			emergency_contact_1_relation = $7,
			emergency_contact_2_name = $8,
			emergency_contact_2_phone = $9,
			emergency_contact_2_relation = $10,
			medical_conditions = $11,
			status = $12
		WHERE id = $13`

	res, err := r.db.ExecContext(ctx, q,
		p.FullName,
		p.Email,
		p.Phone,
		p.BirthDate,
		p.EmergencyContact1Name,
		p.EmergencyContact1Phone,
		p.EmergencyContact1Relation,
		p.EmergencyContact2Name,
		p.EmergencyContact2Phone,
		p.EmergencyContact2Relation,
		p.MedicalConditions,
		p.Status,
		id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresUsersRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PostgresUsersRepo) CountActiveUsers(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE status = 'active'`).Scan(&total)
	return total, err
}
