package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulanet/aulanet-api/internal/models"
)

func newTeamRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTeamRepositoryListByClassAttachesMembers(t *testing.T) {
	db, mock, cleanup := newTeamRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	teams := sqlmock.NewRows([]string{"equipo_id", "clase_id", "nombre", "color", "fecha_creacion"}).
		AddRow("team-a", int64(7), "Los Halcones", "#ff0000", created).
		AddRow("team-b", int64(7), "Los Tigres", "#00ff00", created)
	mock.ExpectQuery(regexp.QuoteMeta("FROM escuela.equipos WHERE clase_id = $1 ORDER BY nombre")).
		WithArgs(int64(7)).
		WillReturnRows(teams)

	apellido := "García"
	members := sqlmock.NewRows([]string{"equipo_id", "estudiante_id", "nombre", "apellido"}).
		AddRow("team-a", int64(1), "Ana", apellido).
		AddRow("team-b", int64(2), "Luis", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM escuela.equipo_estudiantes ee")).
		WithArgs(int64(7)).
		WillReturnRows(members)

	got, err := repo.ListByClass(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, got[0].Students, 1)
	assert.Equal(t, "Ana", got[0].Students[0].Name)
	require.Len(t, got[1].Students, 1)
	assert.Nil(t, got[1].Students[0].LastName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryCreateInsertsTeamAndRoster(t *testing.T) {
	db, mock, cleanup := newTeamRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO escuela.equipos (equipo_id, clase_id, nombre, color)")).
		WithArgs("team-a", int64(7), "Los Halcones", "#ff0000").
		WillReturnRows(sqlmock.NewRows([]string{"fecha_creacion"}).AddRow(created))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO escuela.equipo_estudiantes (equipo_id, estudiante_id) VALUES ($1, $2)")).
		WithArgs("team-a", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO escuela.equipo_estudiantes (equipo_id, estudiante_id) VALUES ($1, $2)")).
		WithArgs("team-a", int64(2)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	team := &models.Team{ID: "team-a", ClassID: 7, Name: "Los Halcones", Color: "#ff0000"}
	require.NoError(t, repo.Create(context.Background(), team, []int64{1, 2}))
	assert.Equal(t, created, team.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryReplaceForClassSwapsLayout(t *testing.T) {
	db, mock, cleanup := newTeamRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM escuela.equipos WHERE clase_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO escuela.equipos")).
		WithArgs("team-a", int64(7), "Equipo Uno", "#111111").
		WillReturnRows(sqlmock.NewRows([]string{"fecha_creacion"}).AddRow(created))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO escuela.equipo_estudiantes")).
		WithArgs("team-a", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO escuela.equipos")).
		WithArgs("team-b", int64(7), "Equipo Dos", "#222222").
		WillReturnRows(sqlmock.NewRows([]string{"fecha_creacion"}).AddRow(created))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO escuela.equipo_estudiantes")).
		WithArgs("team-b", int64(2)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	teams := []models.Team{
		{ID: "team-a", ClassID: 7, Name: "Equipo Uno", Color: "#111111"},
		{ID: "team-b", ClassID: 7, Name: "Equipo Dos", Color: "#222222"},
	}
	rosters := [][]int64{{1}, {2}}
	require.NoError(t, repo.ReplaceForClass(context.Background(), 7, teams, rosters))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryReplaceForClassRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newTeamRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM escuela.equipos WHERE clase_id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO escuela.equipos")).
		WithArgs("team-a", int64(7), "Equipo Uno", "#111111").
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	teams := []models.Team{{ID: "team-a", ClassID: 7, Name: "Equipo Uno", Color: "#111111"}}
	err := repo.ReplaceForClass(context.Background(), 7, teams, [][]int64{{1}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Equipo Uno")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamRepositoryDeleteMissingTeam(t *testing.T) {
	db, mock, cleanup := newTeamRepoMock(t)
	defer cleanup()
	repo := NewTeamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM escuela.equipos WHERE equipo_id = $1")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
