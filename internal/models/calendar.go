package models

import "time"

// EventType categorises calendar entries.
type EventType string

const (
	EventGeneral    EventType = "general"
	EventClass      EventType = "clase"
	EventExam       EventType = "examen"
	EventTask       EventType = "tarea"
	EventHoliday    EventType = "festivo"
	EventSuspension EventType = "suspension"
	EventMeeting    EventType = "reunion"
	EventVacation   EventType = "vacaciones"
)

// Valid returns true when the event type is a supported value.
func (t EventType) Valid() bool {
	switch t {
	case EventGeneral, EventClass, EventExam, EventTask, EventHoliday, EventSuspension, EventMeeting, EventVacation:
		return true
	default:
		return false
	}
}

// CalendarEvent is a dated entry shown on the teacher calendar,
// optionally bound to a class.
type CalendarEvent struct {
	ID          int64     `db:"evento_id" json:"evento_id"`
	Title       string    `db:"titulo" json:"titulo"`
	Description *string   `db:"descripcion" json:"descripcion,omitempty"`
	StartDate   time.Time `db:"fecha_inicio" json:"fecha_inicio"`
	EndDate     time.Time `db:"fecha_fin" json:"fecha_fin"`
	Type        EventType `db:"tipo_evento" json:"tipo_evento"`
	Color       *string   `db:"color" json:"color,omitempty"`
	ClassID     *int64    `db:"clase_id" json:"clase_id,omitempty"`
	CreatedAt   time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}
