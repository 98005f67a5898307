package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// AttendanceRepository handles persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByClassDate returns the recorded attendance for a class on one date.
func (r *AttendanceRepository) ListByClassDate(ctx context.Context, classID int64, date time.Time) ([]models.ClassAttendanceRow, error) {
	query := `SELECT a.asistencia_id, a.inscripcion_id, a.fecha, a.estado_asistencia, a.participacion, a.comentarios, a.registrado_por,
        e.nombre AS estudiante_nombre, e.codigo_estudiante
FROM escuela.asistencias a
JOIN escuela.inscripciones i ON a.inscripcion_id = i.inscripcion_id
JOIN escuela.estudiantes e ON i.estudiante_id = e.estudiante_id
WHERE i.clase_id = $1 AND a.fecha = $2`
	var rows []models.ClassAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, classID, date); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return rows, nil
}

// ListByClass returns every recorded attendance row for a class across
// all dates, for grid and aggregation views.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID int64) ([]models.ClassAttendanceRow, error) {
	query := `SELECT a.asistencia_id, a.inscripcion_id, a.fecha, a.estado_asistencia, a.participacion, a.comentarios, a.registrado_por,
        e.nombre AS estudiante_nombre, e.codigo_estudiante
FROM escuela.asistencias a
JOIN escuela.inscripciones i ON a.inscripcion_id = i.inscripcion_id
JOIN escuela.estudiantes e ON i.estudiante_id = e.estudiante_id
WHERE i.clase_id = $1
ORDER BY a.fecha`
	var rows []models.ClassAttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("list class attendance: %w", err)
	}
	return rows, nil
}

// BulkSave applies a batch of attendance writes in one transaction.
// Each record upserts on (inscripcion, fecha); any failure rolls back the
// entire batch.
func (r *AttendanceRepository) BulkSave(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk attendance: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	existsQuery := `SELECT asistencia_id FROM escuela.asistencias WHERE inscripcion_id = $1 AND fecha = $2`
	updateQuery := `UPDATE escuela.asistencias
SET estado_asistencia = $1, participacion = $2, comentarios = $3
WHERE inscripcion_id = $4 AND fecha = $5`
	insertQuery := `INSERT INTO escuela.asistencias (inscripcion_id, fecha, estado_asistencia, participacion, comentarios, registrado_por)
VALUES ($1, $2, $3, $4, $5, $6)`

	for i := range records {
		rec := &records[i]
		var existingID int64
		err := tx.GetContext(ctx, &existingID, existsQuery, rec.EnrollmentID, rec.Date)
		switch {
		case err == nil:
			if _, err := tx.ExecContext(ctx, updateQuery,
				rec.Status, rec.Participation, rec.Comments, rec.EnrollmentID, rec.Date); err != nil {
				return fmt.Errorf("update attendance for enrollment %d: %w", rec.EnrollmentID, err)
			}
		case isNoRows(err):
			if _, err := tx.ExecContext(ctx, insertQuery,
				rec.EnrollmentID, rec.Date, rec.Status, rec.Participation, rec.Comments, rec.RecordedBy); err != nil {
				return fmt.Errorf("insert attendance for enrollment %d: %w", rec.EnrollmentID, err)
			}
		default:
			return fmt.Errorf("check attendance for enrollment %d: %w", rec.EnrollmentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk attendance: %w", err)
	}
	committed = true
	return nil
}
