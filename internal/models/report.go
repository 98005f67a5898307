package models

// ReportType selects which export is produced.
type ReportType string

const (
	ReportAttendance ReportType = "asistencia"
	ReportTasks      ReportType = "tareas"
	ReportExams      ReportType = "examenes"
)

// Valid returns true when the report type is a supported value.
func (t ReportType) Valid() bool {
	switch t {
	case ReportAttendance, ReportTasks, ReportExams:
		return true
	default:
		return false
	}
}

// ReportFormat selects the export rendering.
type ReportFormat string

const (
	FormatJSON ReportFormat = "json"
	FormatPDF  ReportFormat = "pdf"
	FormatCSV  ReportFormat = "csv"
)

// Valid returns true when the format is a supported value.
func (f ReportFormat) Valid() bool {
	switch f {
	case FormatJSON, FormatPDF, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportClassInfo is the class header block of a report.
type ReportClassInfo struct {
	ClassID       int64  `db:"clase_id"`
	Subject       string `db:"materia_nombre"`
	GroupName     string `db:"grupo_nombre"`
	TeacherName   string `db:"profesor_nombre"`
	TotalStudents int    `db:"total_estudiantes"`
}

// AttendanceReportRow summarises one student's attendance in a class.
type AttendanceReportRow struct {
	StudentID     int64   `db:"estudiante_id" json:"estudiante_id"`
	StudentCode   string  `db:"codigo_estudiante" json:"codigo_estudiante"`
	StudentName   string  `db:"estudiante_nombre" json:"estudiante_nombre"`
	TotalRecorded int     `db:"total_clases_registradas" json:"total_clases_registradas"`
	Present       int     `db:"total_presente" json:"total_presente"`
	Absent        int     `db:"total_ausente" json:"total_ausente"`
	Late          int     `db:"total_tarde" json:"total_tarde"`
	Percentage    float64 `db:"porcentaje_asistencia" json:"porcentaje_asistencia"`
}

// GradeReportRow summarises one student's grades for a set of
// assignment types in a class.
type GradeReportRow struct {
	StudentID   int64   `db:"estudiante_id" json:"estudiante_id"`
	StudentCode string  `db:"codigo_estudiante" json:"codigo_estudiante"`
	StudentName string  `db:"estudiante_nombre" json:"estudiante_nombre"`
	Graded      int     `db:"total_calificadas" json:"total_calificadas"`
	Average     float64 `db:"promedio" json:"promedio"`
}

// ReportInfo is the informacion_general block of a report payload.
type ReportInfo struct {
	ClassID       int64  `json:"clase_id"`
	Group         string `json:"grupo"`
	Subject       string `json:"materia"`
	Teacher       string `json:"profesor"`
	TotalStudents int    `json:"total_alumnos"`
	Period        string `json:"periodo"`
	Message       string `json:"mensaje,omitempty"`
}

// ReportStats is the estadisticas block of a report payload.
type ReportStats struct {
	AttendanceAverage *float64 `json:"promedio_asistencia_clase,omitempty"`
	GradeAverage      *float64 `json:"promedio_clase,omitempty"`
}

// Report is the full computed payload; it is never persisted and is
// rebuilt from current rows on every export request.
type Report struct {
	Type     ReportType  `json:"tipo"`
	Info     ReportInfo  `json:"informacion_general"`
	Stats    ReportStats `json:"estadisticas"`
	Students interface{} `json:"alumnos"`
}
