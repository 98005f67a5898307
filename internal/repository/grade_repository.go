package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// GradeRepository handles persistence for scores.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListByStudent returns every graded and ungraded assignment of the
// classes the student is enrolled in, most recent first.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.StudentGradeRow, error) {
	query := `SELECT cal.calificacion_id, t.tarea_id, t.titulo, t.tipo, t.fecha_entrega, t.puntaje_maximo,
       c.materia_nombre, c.materia_seccion,
       cal.puntaje AS calificacion, cal.observaciones AS retroalimentacion
FROM escuela.inscripciones i
JOIN escuela.clases c ON c.clase_id = i.clase_id
JOIN escuela.tareas t ON t.clase_id = c.clase_id
LEFT JOIN escuela.calificaciones cal
       ON cal.tarea_id = t.tarea_id AND cal.inscripcion_id = i.inscripcion_id
WHERE i.estudiante_id = $1
ORDER BY t.fecha_entrega DESC`
	var rows []models.StudentGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list student grades: %w", err)
	}
	return rows, nil
}

// ListByAssignment returns the roster of the assignment's class with the
// grade each student received, if any.
func (r *GradeRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.AssignmentGradeRow, error) {
	query := `SELECT i.inscripcion_id, e.estudiante_id, e.codigo_estudiante,
       TRIM(e.nombre || ' ' || COALESCE(e.apellido, '')) AS estudiante_nombre,
       cal.puntaje, cal.observaciones AS retroalimentacion
FROM escuela.tareas t
JOIN escuela.inscripciones i ON i.clase_id = t.clase_id
JOIN escuela.estudiantes e ON e.estudiante_id = i.estudiante_id
LEFT JOIN escuela.calificaciones cal
       ON cal.tarea_id = t.tarea_id AND cal.inscripcion_id = i.inscripcion_id
WHERE t.tarea_id = $1
ORDER BY e.nombre, e.apellido`
	var rows []models.AssignmentGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list assignment grades: %w", err)
	}
	return rows, nil
}

// Upsert inserts or replaces the grade of one enrollment for one
// assignment. The (inscripcion_id, tarea_id) pair is unique.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	query := `INSERT INTO escuela.calificaciones (inscripcion_id, tarea_id, puntaje, observaciones)
VALUES ($1, $2, $3, $4)
ON CONFLICT (inscripcion_id, tarea_id)
DO UPDATE SET puntaje = EXCLUDED.puntaje, observaciones = EXCLUDED.observaciones,
              fecha_actualizacion = NOW()
RETURNING calificacion_id`
	if err := r.db.QueryRowxContext(ctx, query,
		grade.EnrollmentID, grade.AssignmentID, grade.Score, grade.Feedback).
		Scan(&grade.ID); err != nil {
		return err
	}
	return nil
}
