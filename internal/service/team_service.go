package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

type teamRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Team, error)
	TeamedStudentIDs(ctx context.Context, classID int64) ([]int64, error)
	Create(ctx context.Context, team *models.Team, studentIDs []int64) error
	ReplaceForClass(ctx context.Context, classID int64, teams []models.Team, rosters [][]int64) error
	Delete(ctx context.Context, teamID string) error
	ClassForTeam(ctx context.Context, teamID string) (int64, error)
}

type teamRosterRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.ClassStudent, error)
}

// TeamService provides class team management use cases.
type TeamService struct {
	repo      teamRepository
	roster    teamRosterRepository
	validator *validator.Validate
	logger    *zap.Logger
	collator  *collate.Collator
}

// NewTeamService constructs a TeamService instance.
func NewTeamService(repo teamRepository, roster teamRosterRepository, validate *validator.Validate, logger *zap.Logger) *TeamService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeamService{
		repo:      repo,
		roster:    roster,
		validator: validate,
		logger:    logger,
		collator:  collate.New(language.Spanish, collate.IgnoreCase),
	}
}

// ListByClass returns every team of a class with its roster attached.
func (s *TeamService) ListByClass(ctx context.Context, classID int64) ([]models.Team, error) {
	teams, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teams")
	}
	return teams, nil
}

// AvailableStudents returns the enrolled students not yet assigned to
// any team of the class, in Spanish alphabetical order.
func (s *TeamService) AvailableStudents(ctx context.Context, classID int64) ([]models.ClassStudent, error) {
	roster, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	teamed, err := s.repo.TeamedStudentIDs(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teamed students")
	}

	taken := make(map[int64]struct{}, len(teamed))
	for _, id := range teamed {
		taken[id] = struct{}{}
	}
	available := make([]models.ClassStudent, 0, len(roster))
	for _, st := range roster {
		if _, ok := taken[st.ID]; !ok {
			available = append(available, st)
		}
	}
	s.sortRoster(available)
	return available, nil
}

// Create adds one team to a class. Every student must be enrolled in the
// class and not already on another team. A missing color is generated.
func (s *TeamService) Create(ctx context.Context, req models.TeamRequest) (*models.Team, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team payload")
	}

	if err := s.checkRoster(ctx, req.ClassID, req.StudentIDs); err != nil {
		return nil, err
	}

	team := &models.Team{
		ID:      uuid.NewString(),
		ClassID: req.ClassID,
		Name:    req.Name,
		Color:   req.Color,
	}
	if team.Color == "" {
		team.Color = randomTeamColor()
	}
	if err := s.repo.Create(ctx, team, req.StudentIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create team")
	}
	return team, nil
}

// Replace swaps the entire team layout of a class in one transaction.
// Students may appear in at most one of the new teams.
func (s *TeamService) Replace(ctx context.Context, classID int64, req models.ReplaceTeamsRequest) ([]models.Team, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teams payload")
	}

	seen := make(map[int64]struct{})
	for _, spec := range req.Teams {
		for _, id := range spec.StudentIDs {
			if _, dup := seen[id]; dup {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %d appears in more than one team", id))
			}
			seen[id] = struct{}{}
		}
	}
	if err := s.checkEnrolled(ctx, classID, seen); err != nil {
		return nil, err
	}

	teams := make([]models.Team, 0, len(req.Teams))
	rosters := make([][]int64, 0, len(req.Teams))
	for _, spec := range req.Teams {
		color := spec.Color
		if color == "" {
			color = randomTeamColor()
		}
		teams = append(teams, models.Team{
			ID:      uuid.NewString(),
			ClassID: classID,
			Name:    spec.Name,
			Color:   color,
		})
		rosters = append(rosters, spec.StudentIDs)
	}
	if err := s.repo.ReplaceForClass(ctx, classID, teams, rosters); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace teams")
	}
	return s.ListByClass(ctx, classID)
}

// Delete removes one team; its students become available again.
func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	if _, err := s.repo.ClassForTeam(ctx, teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load team")
	}
	if err := s.repo.Delete(ctx, teamID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete team")
	}
	return nil
}

// checkRoster validates that every id is enrolled in the class and not
// already teamed.
func (s *TeamService) checkRoster(ctx context.Context, classID int64, studentIDs []int64) error {
	wanted := make(map[int64]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		if _, dup := wanted[id]; dup {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %d is listed twice", id))
		}
		wanted[id] = struct{}{}
	}
	if err := s.checkEnrolled(ctx, classID, wanted); err != nil {
		return err
	}

	teamed, err := s.repo.TeamedStudentIDs(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teamed students")
	}
	for _, id := range teamed {
		if _, clash := wanted[id]; clash {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("student %d already belongs to a team", id))
		}
	}
	return nil
}

func (s *TeamService) checkEnrolled(ctx context.Context, classID int64, wanted map[int64]struct{}) error {
	roster, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	enrolled := make(map[int64]struct{}, len(roster))
	for _, st := range roster {
		enrolled[st.ID] = struct{}{}
	}
	for id := range wanted {
		if _, ok := enrolled[id]; !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %d is not enrolled in this class", id))
		}
	}
	return nil
}

// sortRoster orders students with Spanish collation so accented names
// land where a roster printout expects them.
func (s *TeamService) sortRoster(students []models.ClassStudent) {
	sort.SliceStable(students, func(i, j int) bool {
		if c := s.collator.CompareString(students[i].Name, students[j].Name); c != 0 {
			return c < 0
		}
		return s.collator.CompareString(lastName(students[i]), lastName(students[j])) < 0
	})
}

func lastName(st models.ClassStudent) string {
	if st.LastName == nil {
		return ""
	}
	return *st.LastName
}

func randomTeamColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}
