package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// StudentRepository handles persistence for students and enrollments.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListByClass returns the students enrolled in a class with their
// enrollment ids, ordered by display name.
func (r *StudentRepository) ListByClass(ctx context.Context, classID int64) ([]models.ClassStudent, error) {
	query := `SELECT e.estudiante_id, e.codigo_estudiante, e.nombre, e.apellido, e.email, e.telefono, e.fecha_creacion,
        i.inscripcion_id
FROM escuela.inscripciones i
JOIN escuela.estudiantes e ON i.estudiante_id = e.estudiante_id
WHERE i.clase_id = $1
ORDER BY e.nombre, e.apellido`
	var students []models.ClassStudent
	if err := r.db.SelectContext(ctx, &students, query, classID); err != nil {
		return nil, fmt.Errorf("list students by class: %w", err)
	}
	return students, nil
}

// FindByID returns one student.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT estudiante_id, codigo_estudiante, nombre, apellido, email, telefono, fecha_creacion
FROM escuela.estudiantes WHERE estudiante_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByCode reports whether a student code is already taken.
func (r *StudentRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM escuela.estudiantes WHERE codigo_estudiante = $1 AND estudiante_id <> $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, code, excludeID); err != nil {
		return false, fmt.Errorf("check student code: %w", err)
	}
	return count > 0, nil
}

// CreateWithEnrollment inserts the student and enrolls them in the class
// inside one transaction; failure of either write rolls back both.
func (r *StudentRepository) CreateWithEnrollment(ctx context.Context, student *models.Student, classID int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create student: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	insertStudent := `INSERT INTO escuela.estudiantes (codigo_estudiante, nombre, apellido, email, telefono)
VALUES ($1, $2, $3, $4, $5)
RETURNING estudiante_id, fecha_creacion`
	if err := tx.QueryRowxContext(ctx, insertStudent,
		student.Code, student.Name, student.LastName, student.Email, student.Phone).
		Scan(&student.ID, &student.CreatedAt); err != nil {
		return 0, err
	}

	var enrollmentID int64
	insertEnrollment := `INSERT INTO escuela.inscripciones (estudiante_id, clase_id) VALUES ($1, $2) RETURNING inscripcion_id`
	if err := tx.QueryRowxContext(ctx, insertEnrollment, student.ID, classID).Scan(&enrollmentID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create student: %w", err)
	}
	committed = true
	return enrollmentID, nil
}

// Update modifies a stored student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `UPDATE escuela.estudiantes
SET codigo_estudiante = $1, nombre = $2, apellido = $3, email = $4, telefono = $5
WHERE estudiante_id = $6`
	if _, err := r.db.ExecContext(ctx, query,
		student.Code, student.Name, student.LastName, student.Email, student.Phone, student.ID); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes a student; enrollments and their attendance and grades
// cascade at the schema level.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM escuela.estudiantes WHERE estudiante_id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// ClassForEnrollment resolves the owning class of an enrollment.
func (r *StudentRepository) ClassForEnrollment(ctx context.Context, enrollmentID int64) (int64, error) {
	var classID int64
	query := `SELECT clase_id FROM escuela.inscripciones WHERE inscripcion_id = $1`
	if err := r.db.GetContext(ctx, &classID, query, enrollmentID); err != nil {
		return 0, err
	}
	return classID, nil
}
