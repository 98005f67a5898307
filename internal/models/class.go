package models

import (
	"strings"
	"time"
)

// Class represents a course section taught by one teacher. Session dates
// are never stored; they are derived from the date range and class days.
type Class struct {
	ID        int64     `db:"clase_id" json:"clase_id"`
	TeacherID int64     `db:"profesor_id" json:"profesor_id"`
	Subject   string    `db:"materia_nombre" json:"materia_nombre"`
	Section   string    `db:"materia_seccion" json:"materia_seccion"`
	StartDate time.Time `db:"fecha_inicio" json:"fecha_inicio"`
	EndDate   time.Time `db:"fecha_fin" json:"fecha_fin"`
	ClassDays string    `db:"dias_de_clase" json:"dias_de_clase"`
	Capacity  int       `db:"capacidad" json:"capacidad"`
	ColorHex  string    `db:"color_hex" json:"color_hex"`
	Active    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// Weekdays splits the stored comma-separated class days list.
func (c Class) Weekdays() []string {
	if c.ClassDays == "" {
		return nil
	}
	parts := strings.Split(c.ClassDays, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if d := strings.TrimSpace(p); d != "" {
			days = append(days, d)
		}
	}
	return days
}

// ClassDetail extends Class with listing metadata.
type ClassDetail struct {
	Class
	TeacherName   *string `db:"profesor_nombre" json:"profesor_nombre,omitempty"`
	EnrolledCount int     `db:"total_estudiantes" json:"total_estudiantes"`
}
