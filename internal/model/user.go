package model

import (
	"database/sql"
	"time"
)

// Roles stored in the users.role column and embedded in token claims.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  Email and Phone are nullable: a user registers with at least one
// of the two, and each is unique when present.  RefreshToken holds the
// single currently valid refresh token for the user; it is overwritten on
// every login and refresh and cleared on logout, which is what makes a
// rotated-out or logged-out token unusable even before it expires.
type User struct {
	ID           uint64         // users.id
	Name         string         // users.name
	Email        sql.NullString // users.email (unique, nullable)
	Phone        sql.NullString // users.phone (unique, nullable)
	PasswordHash string         // users.password_hash
	Role         string         // users.role ("user" or "admin")
	RefreshToken sql.NullString // users.refresh_token (null when logged out)
	CreatedAt    time.Time      // users.created_at
	UpdatedAt    time.Time      // users.updated_at
}

// Admin represents a row in the `admins` table.  Admin credentials are
// kept separate from regular users and only serve the admin login
// endpoint; tokens issued there carry the admin role.
type Admin struct {
	ID           uint64    // admins.id
	Email        string    // admins.email (unique)
	PasswordHash string    // admins.password_hash
	CreatedAt    time.Time // admins.created_at
}
