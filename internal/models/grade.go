package models

import "time"

// LowGradeThreshold flags grades strictly below this absolute value.
// Kept absolute rather than relative to the assignment maximum until the
// product owner confirms a percentage rule.
const LowGradeThreshold = 60.0

// Grade is a score for one (assignment, enrollment) pair. Writes upsert;
// the score may not exceed the assignment's maximum.
type Grade struct {
	ID           int64     `db:"calificacion_id" json:"calificacion_id"`
	EnrollmentID int64     `db:"inscripcion_id" json:"inscripcion_id"`
	AssignmentID int64     `db:"tarea_id" json:"tarea_id"`
	Score        float64   `db:"puntaje" json:"puntaje"`
	Feedback     *string   `db:"observaciones" json:"observaciones,omitempty"`
	CreatedAt    time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// StudentGradeRow lists one assignment of a student's classes together
// with the received grade. Ungraded assignments carry a nil score.
type StudentGradeRow struct {
	GradeID         *int64         `db:"calificacion_id" json:"calificacion_id,omitempty"`
	AssignmentID    int64          `db:"tarea_id" json:"tarea_id"`
	AssignmentTitle string         `db:"titulo" json:"titulo"`
	Type            AssignmentType `db:"tipo" json:"tipo"`
	DueDate         time.Time      `db:"fecha_entrega" json:"fecha_entrega"`
	Score           *float64       `db:"calificacion" json:"calificacion"`
	MaxScore        float64        `db:"puntaje_maximo" json:"puntaje_maximo"`
	Feedback        *string        `db:"retroalimentacion" json:"retroalimentacion,omitempty"`
	Subject         string         `db:"materia_nombre" json:"materia_nombre"`
	Section         string         `db:"materia_seccion" json:"materia_seccion"`
}

// AssignmentGradeRow lists one student's grade for a given assignment.
type AssignmentGradeRow struct {
	EnrollmentID int64    `db:"inscripcion_id" json:"inscripcion_id"`
	StudentID    int64    `db:"estudiante_id" json:"estudiante_id"`
	StudentCode  string   `db:"codigo_estudiante" json:"codigo_estudiante"`
	StudentName  string   `db:"estudiante_nombre" json:"estudiante_nombre"`
	Score        *float64 `db:"puntaje" json:"puntaje"`
	Feedback     *string  `db:"retroalimentacion" json:"retroalimentacion,omitempty"`
	Highlighted  bool     `db:"-" json:"resaltado"`
}
