package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aulanet/aulanet-api/internal/models"
)

// TeamRepository handles persistence for class teams and their rosters.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository constructs the repository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// ListByClass returns the teams of a class with their members attached,
// teams ordered by name and members by student name.
func (r *TeamRepository) ListByClass(ctx context.Context, classID int64) ([]models.Team, error) {
	teamsQuery := `SELECT equipo_id, clase_id, nombre, color, fecha_creacion
FROM escuela.equipos WHERE clase_id = $1 ORDER BY nombre`
	var teams []models.Team
	if err := r.db.SelectContext(ctx, &teams, teamsQuery, classID); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		return teams, nil
	}

	membersQuery := `SELECT ee.equipo_id, e.estudiante_id, e.nombre, e.apellido
FROM escuela.equipo_estudiantes ee
JOIN escuela.estudiantes e ON ee.estudiante_id = e.estudiante_id
JOIN escuela.equipos eq ON ee.equipo_id = eq.equipo_id
WHERE eq.clase_id = $1
ORDER BY e.nombre, e.apellido`
	var members []models.TeamMember
	if err := r.db.SelectContext(ctx, &members, membersQuery, classID); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	byTeam := make(map[string][]models.TeamMember, len(teams))
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}
	for i := range teams {
		teams[i].Students = byTeam[teams[i].ID]
	}
	return teams, nil
}

// TeamedStudentIDs returns the ids of students already assigned to any
// team of the class.
func (r *TeamRepository) TeamedStudentIDs(ctx context.Context, classID int64) ([]int64, error) {
	query := `SELECT ee.estudiante_id
FROM escuela.equipo_estudiantes ee
JOIN escuela.equipos eq ON ee.equipo_id = eq.equipo_id
WHERE eq.clase_id = $1`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, classID); err != nil {
		return nil, fmt.Errorf("list teamed students: %w", err)
	}
	return ids, nil
}

// Create inserts one team and its roster transactionally.
func (r *TeamRepository) Create(ctx context.Context, team *models.Team, studentIDs []int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create team: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := insertTeam(ctx, tx, team, studentIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create team: %w", err)
	}
	committed = true
	return nil
}

// ReplaceForClass drops every team of the class and installs the given
// set, all inside one transaction.
func (r *TeamRepository) ReplaceForClass(ctx context.Context, classID int64, teams []models.Team, rosters [][]int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace teams: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM escuela.equipos WHERE clase_id = $1`, classID); err != nil {
		return fmt.Errorf("clear teams: %w", err)
	}
	for i := range teams {
		if err := insertTeam(ctx, tx, &teams[i], rosters[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace teams: %w", err)
	}
	committed = true
	return nil
}

// Delete removes one team; its roster rows cascade.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM escuela.equipos WHERE equipo_id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete team %s: no rows affected", teamID)
	}
	return nil
}

// ClassForTeam resolves the owning class of a team.
func (r *TeamRepository) ClassForTeam(ctx context.Context, teamID string) (int64, error) {
	var classID int64
	query := `SELECT clase_id FROM escuela.equipos WHERE equipo_id = $1`
	if err := r.db.GetContext(ctx, &classID, query, teamID); err != nil {
		return 0, err
	}
	return classID, nil
}

func insertTeam(ctx context.Context, tx *sqlx.Tx, team *models.Team, studentIDs []int64) error {
	insertTeamQuery := `INSERT INTO escuela.equipos (equipo_id, clase_id, nombre, color)
VALUES ($1, $2, $3, $4) RETURNING fecha_creacion`
	if err := tx.QueryRowxContext(ctx, insertTeamQuery, team.ID, team.ClassID, team.Name, team.Color).
		Scan(&team.CreatedAt); err != nil {
		return fmt.Errorf("insert team %s: %w", team.Name, err)
	}
	insertMemberQuery := `INSERT INTO escuela.equipo_estudiantes (equipo_id, estudiante_id) VALUES ($1, $2)`
	for _, studentID := range studentIDs {
		if _, err := tx.ExecContext(ctx, insertMemberQuery, team.ID, studentID); err != nil {
			return fmt.Errorf("insert team member %d: %w", studentID, err)
		}
	}
	return nil
}
