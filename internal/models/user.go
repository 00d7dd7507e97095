package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the signup-metadata role marker recognised by the admin gate.
const RoleAdmin = "admin"

// Account is the authentication record (credentials plus signup metadata).
// It is distinct from the application User row, mirroring the split between
// the auth store and the public users table.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// User is the base application user row keyed by the account id.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminUser is the admin membership record. Its presence grants access to the
// mutating competition operations.
type AdminUser struct {
	UserID       string    `db:"user_id" json:"user_id"`
	IsSuperAdmin bool      `db:"is_super_admin" json:"is_super_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// RefreshToken is a revocable session token. Revoking every token for a user
// is how a session is forcibly ended.
type RefreshToken struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"token"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Revoked   bool      `db:"revoked" json:"revoked"`
}

// SessionState tracks where a session sits in the admin gate state machine.
type SessionState string

const (
	SessionUnauthenticated       SessionState = "unauthenticated"
	SessionAuthenticating        SessionState = "authenticating"
	SessionAuthenticatedAdmin    SessionState = "authenticated_admin"
	SessionAuthenticatedNonAdmin SessionState = "authenticated_non_admin"
	SessionAuthFailed            SessionState = "auth_failed"
)

// JWTClaims are the custom claims carried by access tokens.
type JWTClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}
