package models

// LoginRequest is the credentials payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the signed-in user.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"usuario"`
}

// RegisterRequest creates a new teacher or admin account.
type RegisterRequest struct {
	Name     string   `json:"nombre" validate:"required,max=100"`
	LastName *string  `json:"apellido" validate:"omitempty,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     UserRole `json:"rol" validate:"required,oneof=profesor admin"`
}

// ClassRequest creates or updates a class. Dates travel as ISO day
// strings; class days as weekday names joined on persistence.
type ClassRequest struct {
	Subject   string   `json:"materia_nombre" validate:"required,max=150"`
	Section   string   `json:"materia_seccion" validate:"required,max=50"`
	StartDate string   `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"fecha_fin" validate:"required,datetime=2006-01-02"`
	ClassDays []string `json:"dias_de_clase" validate:"required,min=1,dive,required"`
	Capacity  int      `json:"capacidad" validate:"omitempty,gt=0"`
	ColorHex  string   `json:"color_hex" validate:"omitempty,hexcolor"`
}

// StudentRequest creates or updates a student. ClassID is required on
// creation so the student is enrolled in the same transaction.
type StudentRequest struct {
	Code     string  `json:"codigo_estudiante" validate:"required,max=50"`
	Name     string  `json:"nombre" validate:"required,max=100"`
	LastName *string `json:"apellido" validate:"omitempty,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"telefono" validate:"omitempty,max=30"`
	ClassID  int64   `json:"clase_id" validate:"omitempty,gt=0"`
}

// AttendanceEntry is one cell of a bulk attendance save.
type AttendanceEntry struct {
	EnrollmentID  int64            `json:"inscripcion_id" validate:"required,gt=0"`
	Date          string           `json:"fecha" validate:"required,datetime=2006-01-02"`
	Status        AttendanceStatus `json:"estado_asistencia" validate:"required,attendance_status"`
	Participation *string          `json:"participacion" validate:"omitempty,max=50"`
	Comments      *string          `json:"comentarios" validate:"omitempty,max=100"`
}

// BulkAttendanceRequest saves many attendance cells atomically.
type BulkAttendanceRequest struct {
	Records []AttendanceEntry `json:"registros" validate:"required,min=1,dive"`
}

// TeamRequest creates one team with an initial roster.
type TeamRequest struct {
	ClassID    int64   `json:"clase_id" validate:"required,gt=0"`
	Name       string  `json:"nombre" validate:"required,max=100"`
	Color      string  `json:"color" validate:"omitempty,hexcolor"`
	StudentIDs []int64 `json:"estudiantes" validate:"required,min=1,dive,gt=0"`
}

// TeamSpec is one team inside a full-class replacement.
type TeamSpec struct {
	Name       string  `json:"nombre" validate:"required,max=100"`
	Color      string  `json:"color" validate:"omitempty,hexcolor"`
	StudentIDs []int64 `json:"estudiantes" validate:"required,min=1,dive,gt=0"`
}

// ReplaceTeamsRequest swaps the whole team layout of a class.
type ReplaceTeamsRequest struct {
	Teams []TeamSpec `json:"equipos" validate:"dive"`
}

// AssignmentRequest creates or updates a gradable work item.
type AssignmentRequest struct {
	ClassID     int64   `json:"clase_id" validate:"required,gt=0"`
	Title       string  `json:"titulo" validate:"required,max=200"`
	Description *string `json:"descripcion" validate:"omitempty,max=1000"`
	Type        string  `json:"tipo" validate:"required,oneof=tarea examen proyecto participacion investigacion"`
	DueDate     string  `json:"fecha_entrega" validate:"required,datetime=2006-01-02"`
	MaxScore    float64 `json:"puntaje_maximo" validate:"required,gt=0"`
}

// GradeRequest records or replaces a score.
type GradeRequest struct {
	EnrollmentID int64   `json:"inscripcion_id" validate:"required,gt=0"`
	AssignmentID int64   `json:"tarea_id" validate:"required,gt=0"`
	Score        float64 `json:"puntaje" validate:"gte=0"`
	Feedback     *string `json:"observaciones" validate:"omitempty,max=500"`
}

// CalendarEventRequest creates or updates a calendar event.
type CalendarEventRequest struct {
	Title       string  `json:"titulo" validate:"required,max=200"`
	Description *string `json:"descripcion" validate:"omitempty,max=1000"`
	StartDate   string  `json:"fecha_inicio" validate:"required,datetime=2006-01-02"`
	EndDate     string  `json:"fecha_fin" validate:"required,datetime=2006-01-02"`
	Type        string  `json:"tipo_evento" validate:"required,oneof=general clase examen tarea festivo suspension reunion vacaciones"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
	ClassID     *int64  `json:"clase_id" validate:"omitempty,gt=0"`
}
