package models

import "time"

// Team is a teacher-defined grouping of students inside one class.
// A student belongs to at most one team per class.
type Team struct {
	ID        string       `db:"equipo_id" json:"equipo_id"`
	ClassID   int64        `db:"clase_id" json:"clase_id"`
	Name      string       `db:"nombre" json:"nombre"`
	Color     string       `db:"color" json:"color"`
	CreatedAt time.Time    `db:"fecha_creacion" json:"fecha_creacion"`
	Students  []TeamMember `db:"-" json:"estudiantes"`
}

// TeamMember is one student inside a team roster.
type TeamMember struct {
	TeamID    string  `db:"equipo_id" json:"-"`
	StudentID int64   `db:"estudiante_id" json:"estudiante_id"`
	Name      string  `db:"nombre" json:"nombre"`
	LastName  *string `db:"apellido" json:"apellido,omitempty"`
}
