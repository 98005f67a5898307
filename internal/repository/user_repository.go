package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// UserRepository handles persistence for sign-in accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns the account for the given email, limited to roles
// allowed to sign in.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT usuario_id, nombre, apellido, email, password_hash, rol, activo, intentos_login, fecha_ultimo_login, fecha_creacion, fecha_actualizacion
FROM escuela.usuarios
WHERE email = $1 AND rol IN ('profesor', 'admin')`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns the account with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT usuario_id, nombre, apellido, email, password_hash, rol, activo, intentos_login, fecha_ultimo_login, fecha_creacion, fecha_actualizacion
FROM escuela.usuarios
WHERE usuario_id = $1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create registers a new account.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO escuela.usuarios (nombre, apellido, email, password_hash, rol, activo)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING usuario_id, fecha_creacion, fecha_actualizacion`
	if err := r.db.QueryRowxContext(ctx, query, user.Name, user.LastName, user.Email, user.PasswordHash, user.Role, user.Active).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SetLoginAttempts records the failed-login counter.
func (r *UserRepository) SetLoginAttempts(ctx context.Context, id int64, attempts int) error {
	query := `UPDATE escuela.usuarios SET intentos_login = $1, fecha_actualizacion = NOW() WHERE usuario_id = $2`
	if _, err := r.db.ExecContext(ctx, query, attempts, id); err != nil {
		return fmt.Errorf("set login attempts: %w", err)
	}
	return nil
}

// RecordLogin resets the failed-login counter and stamps the last login.
func (r *UserRepository) RecordLogin(ctx context.Context, id int64, ts time.Time) error {
	query := `UPDATE escuela.usuarios SET intentos_login = 0, fecha_ultimo_login = $1 WHERE usuario_id = $2`
	if _, err := r.db.ExecContext(ctx, query, ts, id); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}
