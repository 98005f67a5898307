package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/aulanet/aulanet-api/internal/models"
)

func newAttendanceRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryListByClassDate(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"asistencia_id", "inscripcion_id", "fecha", "estado_asistencia",
		"participacion", "comentarios", "registrado_por",
		"estudiante_nombre", "codigo_estudiante",
	}).AddRow(int64(1), int64(10), date, models.AttendancePresent, nil, nil, nil, "Ana", "A-001")
	mock.ExpectQuery(regexp.QuoteMeta("FROM escuela.asistencias a")).
		WithArgs(int64(7), date).
		WillReturnRows(rows)

	got, err := repo.ListByClassDate(context.Background(), 7, date)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, models.AttendancePresent, got[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkSaveUpdatesAndInserts(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	recordedBy := int64(1)
	records := []models.AttendanceRecord{
		{EnrollmentID: 10, Date: date, Status: models.AttendanceLate, RecordedBy: &recordedBy},
		{EnrollmentID: 11, Date: date, Status: models.AttendanceAbsent, RecordedBy: &recordedBy},
	}

	mock.ExpectBegin()
	// First record already exists, so it is updated in place.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT asistencia_id FROM escuela.asistencias WHERE inscripcion_id = $1 AND fecha = $2")).
		WithArgs(int64(10), date).
		WillReturnRows(sqlmock.NewRows([]string{"asistencia_id"}).AddRow(int64(41)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE escuela.asistencias")).
		WithArgs(models.AttendanceLate, nil, nil, int64(10), date).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Second record is new and gets inserted.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT asistencia_id FROM escuela.asistencias WHERE inscripcion_id = $1 AND fecha = $2")).
		WithArgs(int64(11), date).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO escuela.asistencias")).
		WithArgs(int64(11), date, models.AttendanceAbsent, nil, nil, recordedBy).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.BulkSave(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkSaveRollsBackWholeBatch(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	records := []models.AttendanceRecord{
		{EnrollmentID: 10, Date: date, Status: models.AttendancePresent},
		{EnrollmentID: 11, Date: date, Status: models.AttendancePresent},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT asistencia_id FROM escuela.asistencias")).
		WithArgs(int64(10), date).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO escuela.asistencias")).
		WithArgs(int64(10), date, models.AttendancePresent, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT asistencia_id FROM escuela.asistencias")).
		WithArgs(int64(11), date).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.BulkSave(context.Background(), records)
	require.Error(t, err)
	require.Contains(t, err.Error(), "enrollment 11")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryBulkSaveEmptyBatch(t *testing.T) {
	db, mock, cleanup := newAttendanceRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	require.NoError(t, repo.BulkSave(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
