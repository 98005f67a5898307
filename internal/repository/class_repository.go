package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// ClassRepository handles persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns all classes with enrolled counts and teacher names.
func (r *ClassRepository) List(ctx context.Context) ([]models.ClassDetail, error) {
	query := `SELECT c.clase_id, c.profesor_id, c.materia_nombre, c.materia_seccion,
        c.fecha_inicio, c.fecha_fin, c.dias_de_clase, c.capacidad, c.color_hex, c.activo, c.fecha_creacion,
        COUNT(DISTINCT i.inscripcion_id) AS total_estudiantes,
        u.nombre AS profesor_nombre
FROM escuela.clases c
LEFT JOIN escuela.inscripciones i ON c.clase_id = i.clase_id
LEFT JOIN escuela.usuarios u ON c.profesor_id = u.usuario_id
GROUP BY c.clase_id, u.nombre
ORDER BY c.materia_nombre, c.materia_seccion`
	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns one class with enrollment metadata.
func (r *ClassRepository) FindByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	query := `SELECT c.clase_id, c.profesor_id, c.materia_nombre, c.materia_seccion,
        c.fecha_inicio, c.fecha_fin, c.dias_de_clase, c.capacidad, c.color_hex, c.activo, c.fecha_creacion,
        COUNT(DISTINCT i.inscripcion_id) AS total_estudiantes,
        u.nombre AS profesor_nombre
FROM escuela.clases c
LEFT JOIN escuela.inscripciones i ON c.clase_id = i.clase_id
LEFT JOIN escuela.usuarios u ON c.profesor_id = u.usuario_id
WHERE c.clase_id = $1
GROUP BY c.clase_id, u.nombre`
	var class models.ClassDetail
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a class owned by the given teacher.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	query := `INSERT INTO escuela.clases (profesor_id, materia_nombre, materia_seccion, fecha_inicio, fecha_fin, dias_de_clase, capacidad, color_hex, activo)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
RETURNING clase_id, activo, fecha_creacion`
	if err := r.db.QueryRowxContext(ctx, query,
		class.TeacherID, class.Subject, class.Section, class.StartDate, class.EndDate,
		class.ClassDays, class.Capacity, class.ColorHex).
		Scan(&class.ID, &class.Active, &class.CreatedAt); err != nil {
		return err
	}
	return nil
}

// Update modifies a stored class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	query := `UPDATE escuela.clases
SET materia_nombre = $1, materia_seccion = $2, fecha_inicio = $3, fecha_fin = $4,
    dias_de_clase = $5, capacidad = $6, color_hex = $7, activo = $8
WHERE clase_id = $9`
	result, err := r.db.ExecContext(ctx, query,
		class.Subject, class.Section, class.StartDate, class.EndDate,
		class.ClassDays, class.Capacity, class.ColorHex, class.Active, class.ID)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update class %d: no rows affected", class.ID)
	}
	return nil
}

// Delete removes a class; enrollments, attendance, assignments, grades
// and teams cascade at the schema level.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM escuela.clases WHERE clase_id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}
