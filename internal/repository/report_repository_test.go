package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

// The percentage numerator must count presente only. A tardy is not an
// attendance: 8 presente + 2 tarde over 10 registered is 80%, not 100%.
func TestReportRepositoryAttendanceSummaryCountsOnlyPresente(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{
		"estudiante_id", "codigo_estudiante", "estudiante_nombre",
		"total_clases_registradas", "total_presente", "total_ausente", "total_tarde",
		"porcentaje_asistencia",
	}).AddRow(int64(1), "A-001", "Ana García", 10, 8, 0, 2, 80.0)
	mock.ExpectQuery(regexp.QuoteMeta("COUNT(CASE WHEN a.estado_asistencia = 'presente' THEN 1 END) * 100.0")).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	got, err := repo.AttendanceSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].Present)
	assert.Equal(t, 2, got[0].Late)
	assert.InDelta(t, 80.0, got[0].Percentage, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryGradeSummaryFiltersByType(t *testing.T) {
	db, mock, cleanup := newReportRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	rows := sqlmock.NewRows([]string{
		"estudiante_id", "codigo_estudiante", "estudiante_nombre",
		"total_calificadas", "promedio",
	}).AddRow(int64(1), "A-001", "Ana García", 3, 87.5)
	mock.ExpectQuery(regexp.QuoteMeta("t.tipo = ANY($2)")).
		WithArgs(int64(7), pq.Array([]string{"examen"})).
		WillReturnRows(rows)

	got, err := repo.GradeSummary(context.Background(), 7, []string{"examen"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 87.5, got[0].Average, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}
