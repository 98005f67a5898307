package models

import (
	"strings"
	"time"
)

// AttendanceStatus represents the recorded state of one attendance cell.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "presente"
	AttendanceLate    AttendanceStatus = "tarde"
	AttendanceAbsent  AttendanceStatus = "falto"

	// AttendanceUnset is a valid transient state for a cell that has never
	// been written; it is not accepted by the persistence validators.
	AttendanceUnset AttendanceStatus = ""
)

// Valid returns true when the status may be persisted.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent:
		return true
	default:
		return false
	}
}

// commentTag prefixes the legacy wire encoding of a commented cell.
const commentTag = "comentario:"

// AttendanceCell is the decoded value of one (enrollment, date) cell:
// a status plus an optional free-text comment. The legacy clients encode
// commented cells as "comentario:<status>:<date>:<text>" and bare cells as
// the plain status token; Encode and DecodeCell speak that format.
type AttendanceCell struct {
	Status  AttendanceStatus
	Date    string
	Comment string
}

// Encode renders the cell in its wire form. A cell without a comment is
// the bare status token.
func (c AttendanceCell) Encode() string {
	if c.Comment == "" {
		return string(c.Status)
	}
	return commentTag + string(c.Status) + ":" + c.Date + ":" + c.Comment
}

// WithStatus returns a copy with a new status, preserving any comment.
func (c AttendanceCell) WithStatus(status AttendanceStatus) AttendanceCell {
	c.Status = status
	return c
}

// WithoutComment drops the comment, falling back to the bare status form.
func (c AttendanceCell) WithoutComment() AttendanceCell {
	c.Comment = ""
	return c
}

// DecodeCell parses a wire value. Comment text may itself contain colons,
// so every segment from the fourth onward is rejoined.
func DecodeCell(raw string) AttendanceCell {
	if !strings.HasPrefix(raw, commentTag) {
		return AttendanceCell{Status: AttendanceStatus(raw)}
	}
	parts := strings.Split(raw, ":")
	if len(parts) < 4 {
		return AttendanceCell{Status: AttendanceStatus(strings.TrimPrefix(raw, commentTag))}
	}
	return AttendanceCell{
		Status:  AttendanceStatus(parts[1]),
		Date:    parts[2],
		Comment: strings.Join(parts[3:], ":"),
	}
}

// AttendanceRecord is one persisted attendance row. At most one record
// exists per (enrollment, date); writes upsert.
type AttendanceRecord struct {
	ID            int64            `db:"asistencia_id" json:"asistencia_id"`
	EnrollmentID  int64            `db:"inscripcion_id" json:"inscripcion_id"`
	Date          time.Time        `db:"fecha" json:"fecha"`
	Status        AttendanceStatus `db:"estado_asistencia" json:"estado_asistencia"`
	Participation *string          `db:"participacion" json:"participacion,omitempty"`
	Comments      *string          `db:"comentarios" json:"comentarios,omitempty"`
	RecordedBy    *int64           `db:"registrado_por" json:"registrado_por,omitempty"`
}

// ClassAttendanceRow extends a record with student display data.
type ClassAttendanceRow struct {
	AttendanceRecord
	StudentName string `db:"estudiante_nombre" json:"estudiante_nombre"`
	StudentCode string `db:"codigo_estudiante" json:"codigo_estudiante"`
}

// AlertTier classifies a student's absence count against the class
// thresholds.
type AlertTier string

const (
	TierNormal   AlertTier = "normal"
	TierWarning  AlertTier = "amarillo"
	TierCritical AlertTier = "rojo"
)

// StudentAttendanceSummary is one roster line of the class summary.
type StudentAttendanceSummary struct {
	EnrollmentID int64     `json:"inscripcion_id"`
	StudentID    int64     `json:"estudiante_id"`
	StudentCode  string    `json:"codigo_estudiante"`
	StudentName  string    `json:"nombre"`
	LastName     *string   `json:"apellido,omitempty"`
	Absences     int       `json:"total_faltas"`
	Tier         AlertTier `json:"nivel_alerta"`
	Background   string    `json:"color_fondo"`
}

// ClassAttendanceSummary aggregates absences and alert tiers for a class.
type ClassAttendanceSummary struct {
	ClassID         int64                      `json:"clase_id"`
	Sessions        []string                   `json:"sesiones"`
	TotalSessions   int                        `json:"total_sesiones"`
	YellowThreshold int                        `json:"umbral_amarillo"`
	RedThreshold    int                        `json:"umbral_rojo"`
	Students        []StudentAttendanceSummary `json:"alumnos"`
}
