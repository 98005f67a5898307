package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulanet/aulanet-api/internal/models"
)

func newCalendarRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCalendarRepositoryListRange(t *testing.T) {
	db, mock, cleanup := newCalendarRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"evento_id", "titulo", "descripcion", "fecha_inicio", "fecha_fin",
		"tipo_evento", "color", "clase_id", "fecha_creacion",
	}).AddRow(int64(3), "Examen parcial", nil, from.AddDate(0, 0, 10), from.AddDate(0, 0, 10),
		models.EventExam, nil, int64(7), created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM escuela.eventos_calendario")).
		WithArgs(from, to).
		WillReturnRows(rows)

	events, err := repo.ListRange(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Examen parcial", events[0].Title)
	assert.Equal(t, created, events[0].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCalendarRepositoryCreateScansGeneratedColumns(t *testing.T) {
	db, mock, cleanup := newCalendarRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	start := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 4, 28, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO escuela.eventos_calendario")).
		WithArgs("Reunión de padres", nil, start, start, models.EventMeeting, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"evento_id", "fecha_creacion"}).AddRow(int64(12), created))

	event := &models.CalendarEvent{
		Title:     "Reunión de padres",
		StartDate: start,
		EndDate:   start,
		Type:      models.EventMeeting,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.Equal(t, int64(12), event.ID)
	assert.Equal(t, created, event.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
