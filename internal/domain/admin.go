package domain

import (
	"database/sql"
	"time"
)

// Admin is a platform administrator account (admins table). Admins log in
// with email+password and attend events.
type Admin struct {
	ID           int64        `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	Role         string       `db:"role"` // admin | supervisor
	Active       bool         `db:"active"`
	CreatedAt    time.Time    `db:"created_at"`
	LastSession  sql.NullTime `db:"last_session"`
}

// ToJSON shapes the record for HTTP responses. The password hash is never
// included.
func (a *Admin) ToJSON() map[string]any {
	m := map[string]any{
		"id":     a.ID,
		"name":   a.Name,
		"email":  a.Email,
		"role":   a.Role,
		"active": a.Active,
	}
	if a.LastSession.Valid {
		m["last_session"] = a.LastSession.Time
	}
	return m
}
