package repository

import (
	"context"
	"database/sql"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
)

type PostgresAdminsRepo struct {
	db *sql.DB
}

func NewPostgresAdminsRepo(db *sql.DB) *PostgresAdminsRepo {
	return &PostgresAdminsRepo{db: db}
}

var _ AdminsRepository = (*PostgresAdminsRepo)(nil)

// GetAdminByEmail only returns active accounts; disabled admins cannot log
// in at all.
func (r *PostgresAdminsRepo) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	q := `
		SELECT id, name, email, password_hash, role, active, created_at, last_session
		FROM admins
		WHERE email = $1 AND active = TRUE`

	var a domain.Admin
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Active,
		&a.CreatedAt,
		&a.LastSession,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAdminsRepo) GetAdmin(ctx context.Context, id int64) (*domain.Admin, error) {
	q := `
		SELECT id, name, email, password_hash, role, active, created_at, last_session
		FROM admins
		WHERE id = $1`

	var a domain.Admin
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Active,
		&a.CreatedAt,
		&a.LastSession,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAdminsRepo) UpdateLastSession(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET last_session = NOW() WHERE id = $1`, id)
	return err
}
