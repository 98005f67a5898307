package models

import "time"

// Student is a learner identified by a unique student code.
type Student struct {
	ID        int64     `db:"estudiante_id" json:"estudiante_id"`
	Code      string    `db:"codigo_estudiante" json:"codigo_estudiante"`
	Name      string    `db:"nombre" json:"nombre"`
	LastName  *string   `db:"apellido" json:"apellido,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"telefono" json:"telefono,omitempty"`
	CreatedAt time.Time `db:"fecha_creacion" json:"fecha_creacion"`
}

// ClassStudent is a student together with their enrollment in one class.
// Attendance and grades are keyed through the enrollment, not the student.
type ClassStudent struct {
	Student
	EnrollmentID int64 `db:"inscripcion_id" json:"inscripcion_id"`
}

// Enrollment links a student to a class.
type Enrollment struct {
	ID         int64     `db:"inscripcion_id" json:"inscripcion_id"`
	StudentID  int64     `db:"estudiante_id" json:"estudiante_id"`
	ClassID    int64     `db:"clase_id" json:"clase_id"`
	EnrolledAt time.Time `db:"fecha_inscripcion" json:"fecha_inscripcion"`
}
