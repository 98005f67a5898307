package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aulanet/aulanet-api/internal/models"
)

// ReportRepository runs the aggregate queries behind class reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ClassInfo returns the report header data for a class.
func (r *ReportRepository) ClassInfo(ctx context.Context, classID int64) (*models.ReportClassInfo, error) {
	query := `SELECT c.clase_id, c.materia_nombre, c.materia_seccion AS grupo_nombre,
       TRIM(u.nombre || ' ' || COALESCE(u.apellido, '')) AS profesor_nombre,
       COUNT(i.inscripcion_id) AS total_estudiantes
FROM escuela.clases c
JOIN escuela.usuarios u ON u.usuario_id = c.profesor_id
LEFT JOIN escuela.inscripciones i ON i.clase_id = c.clase_id
WHERE c.clase_id = $1
GROUP BY c.clase_id, c.materia_nombre, c.materia_seccion, u.nombre, u.apellido`
	var info models.ReportClassInfo
	if err := r.db.GetContext(ctx, &info, query, classID); err != nil {
		return nil, err
	}
	return &info, nil
}

// AttendanceSummary returns per-student attendance counters for a class.
// The percentage is presente over each student's own registered sessions;
// tardies are tallied separately and do not count as attendance.
func (r *ReportRepository) AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceReportRow, error) {
	query := `SELECT e.estudiante_id, e.codigo_estudiante,
       TRIM(e.nombre || ' ' || COALESCE(e.apellido, '')) AS estudiante_nombre,
       COUNT(a.asistencia_id) AS total_clases_registradas,
       COUNT(CASE WHEN a.estado_asistencia = 'presente' THEN 1 END) AS total_presente,
       COUNT(CASE WHEN a.estado_asistencia = 'falto' THEN 1 END) AS total_ausente,
       COUNT(CASE WHEN a.estado_asistencia = 'tarde' THEN 1 END) AS total_tarde,
       COALESCE(ROUND(COUNT(CASE WHEN a.estado_asistencia = 'presente' THEN 1 END) * 100.0
             / NULLIF(COUNT(a.asistencia_id), 0), 2), 0) AS porcentaje_asistencia
FROM escuela.inscripciones i
JOIN escuela.estudiantes e ON e.estudiante_id = i.estudiante_id
LEFT JOIN escuela.asistencias a ON a.inscripcion_id = i.inscripcion_id
WHERE i.clase_id = $1
GROUP BY e.estudiante_id, e.codigo_estudiante, e.nombre, e.apellido
ORDER BY e.nombre, e.apellido`
	var rows []models.AttendanceReportRow
	if err := r.db.SelectContext(ctx, &rows, query, classID); err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}
	return rows, nil
}

// GradeSummary returns per-student grade averages for a class, limited to
// the given assignment types.
func (r *ReportRepository) GradeSummary(ctx context.Context, classID int64, types []string) ([]models.GradeReportRow, error) {
	query := `SELECT e.estudiante_id, e.codigo_estudiante,
       TRIM(e.nombre || ' ' || COALESCE(e.apellido, '')) AS estudiante_nombre,
       COUNT(cal.calificacion_id) AS total_calificadas,
       COALESCE(ROUND(AVG(cal.puntaje), 2), 0) AS promedio
FROM escuela.inscripciones i
JOIN escuela.estudiantes e ON e.estudiante_id = i.estudiante_id
LEFT JOIN escuela.tareas t ON t.clase_id = i.clase_id AND t.tipo = ANY($2)
LEFT JOIN escuela.calificaciones cal
       ON cal.inscripcion_id = i.inscripcion_id AND cal.tarea_id = t.tarea_id
WHERE i.clase_id = $1
GROUP BY e.estudiante_id, e.codigo_estudiante, e.nombre, e.apellido
ORDER BY e.nombre, e.apellido`
	var rows []models.GradeReportRow
	if err := r.db.SelectContext(ctx, &rows, query, classID, pq.Array(types)); err != nil {
		return nil, fmt.Errorf("grade summary: %w", err)
	}
	return rows, nil
}
