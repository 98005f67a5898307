package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// CalendarRepository handles persistence for calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository constructs the repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// ListRange returns every event overlapping the [from, to] window,
// ordered by start date.
func (r *CalendarRepository) ListRange(ctx context.Context, from, to time.Time) ([]models.CalendarEvent, error) {
	query := `SELECT evento_id, titulo, descripcion, fecha_inicio, fecha_fin, tipo_evento, color, clase_id, fecha_creacion
FROM escuela.eventos_calendario
WHERE fecha_inicio <= $2 AND fecha_fin >= $1
ORDER BY fecha_inicio`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, from, to); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// FindByID returns one event.
func (r *CalendarRepository) FindByID(ctx context.Context, id int64) (*models.CalendarEvent, error) {
	query := `SELECT evento_id, titulo, descripcion, fecha_inicio, fecha_fin, tipo_evento, color, clase_id, fecha_creacion
FROM escuela.eventos_calendario WHERE evento_id = $1`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts an event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	query := `INSERT INTO escuela.eventos_calendario (titulo, descripcion, fecha_inicio, fecha_fin, tipo_evento, color, clase_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING evento_id, fecha_creacion`
	if err := r.db.QueryRowxContext(ctx, query,
		event.Title, event.Description, event.StartDate, event.EndDate,
		event.Type, event.Color, event.ClassID).
		Scan(&event.ID, &event.CreatedAt); err != nil {
		return err
	}
	return nil
}

// Update modifies a stored event.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	query := `UPDATE escuela.eventos_calendario
SET titulo = $1, descripcion = $2, fecha_inicio = $3, fecha_fin = $4, tipo_evento = $5, color = $6, clase_id = $7
WHERE evento_id = $8`
	res, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.StartDate, event.EndDate,
		event.Type, event.Color, event.ClassID, event.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update event %d: %w", event.ID, sql.ErrNoRows)
	}
	return nil
}

// Delete removes an event.
func (r *CalendarRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM escuela.eventos_calendario WHERE evento_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete event %d: %w", id, sql.ErrNoRows)
	}
	return nil
}
