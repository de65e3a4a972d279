package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

// AdminRepo persists admin credential records in the 'admins' table.  These
// are separate from regular users and only serve the admin login endpoint.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,created_at FROM admins WHERE email=? LIMIT 1",
		email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Admin{}, ErrNotFound
	}
	return a, err
}

// Upsert creates or updates the admin record for the given email.  Used by
// the seeder so that rerunning it refreshes the password hash instead of
// failing on the unique key.
func (r *AdminRepo) Upsert(ctx context.Context, email, passwordHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (email, password_hash) VALUES (?,?) ON DUPLICATE KEY UPDATE password_hash=VALUES(password_hash)",
		email, passwordHash)
	return err
}
