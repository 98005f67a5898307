package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// AssignmentRepository handles persistence for tasks and exams.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// ListByClass returns the assignments of a class ordered by due date.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID int64) ([]models.Assignment, error) {
	query := `SELECT tarea_id, clase_id, titulo, descripcion, tipo, fecha_entrega, puntaje_maximo, fecha_creacion
FROM escuela.tareas WHERE clase_id = $1 ORDER BY fecha_entrega`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// FindByID returns one assignment.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := `SELECT tarea_id, clase_id, titulo, descripcion, tipo, fecha_entrega, puntaje_maximo, fecha_creacion
FROM escuela.tareas WHERE tarea_id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	query := `INSERT INTO escuela.tareas (clase_id, titulo, descripcion, tipo, fecha_entrega, puntaje_maximo)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING tarea_id, fecha_creacion`
	if err := r.db.QueryRowxContext(ctx, query,
		assignment.ClassID, assignment.Title, assignment.Description, assignment.Type,
		assignment.DueDate, assignment.MaxScore).
		Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return err
	}
	return nil
}

// Update modifies a stored assignment.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	query := `UPDATE escuela.tareas
SET titulo = $1, descripcion = $2, tipo = $3, fecha_entrega = $4, puntaje_maximo = $5
WHERE tarea_id = $6`
	if _, err := r.db.ExecContext(ctx, query,
		assignment.Title, assignment.Description, assignment.Type, assignment.DueDate,
		assignment.MaxScore, assignment.ID); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment; its grades cascade.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM escuela.tareas WHERE tarea_id = $1`, id); err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
