package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole identifies the access level of an account.
type UserRole string

const (
	RoleProfesor UserRole = "profesor"
	RoleAdmin    UserRole = "admin"
)

// Valid returns true when the role is a supported value.
func (r UserRole) Valid() bool {
	return r == RoleProfesor || r == RoleAdmin
}

// User represents an account able to sign in (teachers and admins).
type User struct {
	ID            int64      `db:"usuario_id" json:"usuario_id"`
	Name          string     `db:"nombre" json:"nombre"`
	LastName      *string    `db:"apellido" json:"apellido,omitempty"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Role          UserRole   `db:"rol" json:"rol"`
	Active        bool       `db:"activo" json:"activo"`
	LoginAttempts int        `db:"intentos_login" json:"-"`
	LastLoginAt   *time.Time `db:"fecha_ultimo_login" json:"fecha_ultimo_login,omitempty"`
	CreatedAt     time.Time  `db:"fecha_creacion" json:"fecha_creacion"`
	UpdatedAt     time.Time  `db:"fecha_actualizacion" json:"fecha_actualizacion"`
}

// JWTClaims is the token payload attached to authenticated requests.
type JWTClaims struct {
	UserID int64    `json:"id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID    int64    `json:"usuario_id"`
	Name  string   `json:"nombre"`
	Email string   `json:"email"`
	Role  UserRole `json:"rol"`
}
