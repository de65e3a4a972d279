package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/abhyasa-edu/curriculum-api/internal/model"
)

// UserRepo persists user records in the 'users' table.  Besides identity
// lookups it owns the refresh-token column: SaveRefreshToken overwrites it
// unconditionally (login/registration), RotateRefreshToken swaps it only
// when the stored value matches the presented one, and ClearRefreshToken
// nulls it under the same guard.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,email,phone,password_hash,role,refresh_token,created_at,updated_at"

// Create inserts a user and fills in its generated ID.  Email and phone are
// nullable; duplicate-key violations are translated into the matching
// sentinel error by inspecting the MySQL 1062 message.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, phone, password_hash, role) VALUES (?,?,?,?,?)",
		u.Name, u.Email, u.Phone, u.PasswordHash, u.Role)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "phone") {
				return ErrPhoneExists
			}
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByPhone fetches a user by phone number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE phone=? LIMIT 1", phone)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// SaveRefreshToken unconditionally stores a new refresh token for the user.
// Used at registration and login, where the previous session (if any) is
// deliberately displaced.
func (r *UserRepo) SaveRefreshToken(ctx context.Context, id uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", token, id)
	return err
}

// RotateRefreshToken replaces the stored refresh token only if the stored
// value equals prev.  A compare-and-swap in a single statement, so when two
// rotations race on the same session exactly one wins; the loser gets
// ErrTokenMismatch.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, id uint64, prev, next string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=? AND refresh_token=?",
		next, id, prev)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenMismatch
	}
	return nil
}

// ClearRefreshToken nulls the stored refresh token, but only when the
// stored value matches the presented one.  Logout identifies the subject
// from an unverified token decode, so this guard is what stops a crafted
// token from force-clearing someone else's live session.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id uint64, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=NULL WHERE id=? AND refresh_token=?",
		id, token)
	return err
}
