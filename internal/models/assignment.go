package models

import "time"

// AssignmentType distinguishes gradable work items.
type AssignmentType string

const (
	AssignmentTask          AssignmentType = "tarea"
	AssignmentExam          AssignmentType = "examen"
	AssignmentProject       AssignmentType = "proyecto"
	AssignmentParticipation AssignmentType = "participacion"
	AssignmentResearch      AssignmentType = "investigacion"
)

// Valid returns true when the type is a supported value.
func (t AssignmentType) Valid() bool {
	switch t {
	case AssignmentTask, AssignmentExam, AssignmentProject, AssignmentParticipation, AssignmentResearch:
		return true
	default:
		return false
	}
}

// Assignment is a gradable work item belonging to one class.
type Assignment struct {
	ID          int64          `db:"tarea_id" json:"tarea_id"`
	ClassID     int64          `db:"clase_id" json:"clase_id"`
	Title       string         `db:"titulo" json:"titulo"`
	Description *string        `db:"descripcion" json:"descripcion,omitempty"`
	Type        AssignmentType `db:"tipo" json:"tipo"`
	DueDate     time.Time      `db:"fecha_entrega" json:"fecha_entrega"`
	MaxScore    float64        `db:"puntaje_maximo" json:"puntaje_maximo"`
	CreatedAt   time.Time      `db:"fecha_creacion" json:"fecha_creacion"`
}
