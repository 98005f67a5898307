package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

// Alert tier backgrounds as rendered by the grid clients.
const (
	warningBackground  = "rgba(245, 158, 11, 0.15)"
	criticalBackground = "rgba(239, 68, 68, 0.15)"
	neutralBackground  = "transparent"
)

type attendanceRepository interface {
	ListByClassDate(ctx context.Context, classID int64, date time.Time) ([]models.ClassAttendanceRow, error)
	ListByClass(ctx context.Context, classID int64) ([]models.ClassAttendanceRow, error)
	BulkSave(ctx context.Context, records []models.AttendanceRecord) error
}

type attendanceRosterRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.ClassStudent, error)
	ClassForEnrollment(ctx context.Context, enrollmentID int64) (int64, error)
}

type attendanceClassRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ClassDetail, error)
}

type attendanceTeamRepository interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Team, error)
}

type reportCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AttendanceService provides attendance recording and alerting use cases.
type AttendanceService struct {
	repo      attendanceRepository
	roster    attendanceRosterRepository
	classes   attendanceClassRepository
	teams     attendanceTeamRepository
	cache     reportCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(
	repo attendanceRepository,
	roster attendanceRosterRepository,
	classes attendanceClassRepository,
	teams attendanceTeamRepository,
	cache reportCacheInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		repo:      repo,
		roster:    roster,
		classes:   classes,
		teams:     teams,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// RegisterValidators installs the custom payload validators used by this
// package on the shared validator instance.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
}

// ListByClassDate returns the attendance rows of a class for one day.
func (s *AttendanceService) ListByClassDate(ctx context.Context, classID int64, date string) ([]models.ClassAttendanceRow, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha must be YYYY-MM-DD")
	}
	rows, err := s.repo.ListByClassDate(ctx, classID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, nil
}

// ListByClass returns every attendance row of a class across all dates.
func (s *AttendanceService) ListByClass(ctx context.Context, classID int64) ([]models.ClassAttendanceRow, error) {
	rows, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	return rows, nil
}

// BulkSave upserts a batch of attendance cells atomically and drops any
// cached reports of the affected class. recordedBy is the authenticated
// user writing the batch.
func (s *AttendanceService) BulkSave(ctx context.Context, recordedBy int64, req models.BulkAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	records := make([]models.AttendanceRecord, 0, len(req.Records))
	for _, entry := range req.Records {
		day, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "fecha must be YYYY-MM-DD")
		}
		records = append(records, models.AttendanceRecord{
			EnrollmentID:  entry.EnrollmentID,
			Date:          day,
			Status:        entry.Status,
			Participation: entry.Participation,
			Comments:      entry.Comments,
			RecordedBy:    &recordedBy,
		})
	}

	if err := s.repo.BulkSave(ctx, records); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "one of the enrollments does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}

	s.invalidateReports(ctx, records[0].EnrollmentID)
	return nil
}

// ClassSummary computes deduplicated absence counts, alert tiers and row
// backgrounds for the whole roster of a class.
func (s *AttendanceService) ClassSummary(ctx context.Context, classID int64) (*models.ClassAttendanceSummary, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	roster, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	rows, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	teams, err := s.teams.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teams")
	}

	sessions := SessionDates(class.Class)
	yellow := YellowThreshold(len(sessions))
	absences := AbsenceCount(rows)
	teamColor := teamColorByStudent(teams)

	students := make([]models.StudentAttendanceSummary, 0, len(roster))
	for _, st := range OrderedRoster(roster, teams) {
		count := absences[st.EnrollmentID]
		tier := AbsenceTier(count, yellow)
		students = append(students, models.StudentAttendanceSummary{
			EnrollmentID: st.EnrollmentID,
			StudentID:    st.ID,
			StudentCode:  st.Code,
			StudentName:  st.Name,
			LastName:     st.LastName,
			Absences:     count,
			Tier:         tier,
			Background:   RowBackground(tier, teamColor[st.ID]),
		})
	}

	return &models.ClassAttendanceSummary{
		ClassID:         classID,
		Sessions:        sessions,
		TotalSessions:   len(sessions),
		YellowThreshold: yellow,
		RedThreshold:    yellow + 1,
		Students:        students,
	}, nil
}

// AbsenceCount tallies absences per enrollment. Cells are decoded before
// counting so legacy comment-encoded values still register, and repeated
// rows for the same (enrollment, date) pair count once.
func AbsenceCount(rows []models.ClassAttendanceRow) map[int64]int {
	counts := make(map[int64]int)
	seen := make(map[string]struct{})
	for _, row := range rows {
		cell := models.DecodeCell(string(row.Status))
		if cell.Status != models.AttendanceAbsent {
			continue
		}
		key := fmt.Sprintf("%d-%s", row.EnrollmentID, row.Date.Format("2006-01-02"))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		counts[row.EnrollmentID]++
	}
	return counts
}

// YellowThreshold is the absence count at which a student enters the
// warning tier: 20% of the planned sessions, rounded up.
func YellowThreshold(totalSessions int) int {
	if totalSessions <= 0 {
		return 0
	}
	return int(math.Ceil(0.2 * float64(totalSessions)))
}

// AbsenceTier classifies an absence count. Anything past the warning
// threshold is critical.
func AbsenceTier(absences, yellowThreshold int) models.AlertTier {
	switch {
	case yellowThreshold <= 0 || absences < yellowThreshold:
		return models.TierNormal
	case absences == yellowThreshold:
		return models.TierWarning
	default:
		return models.TierCritical
	}
}

// RowBackground picks the grid background for a roster row. Alert tiers
// override team colors; untiered students fall back to their team color
// or transparent.
func RowBackground(tier models.AlertTier, teamColor string) string {
	switch tier {
	case models.TierWarning:
		return warningBackground
	case models.TierCritical:
		return criticalBackground
	}
	if teamColor != "" {
		return teamColor
	}
	return neutralBackground
}

// OrderedRoster arranges a roster the way the attendance grid shows
// it: teamed students first, grouped by team in team order, then the
// students without a team. Teams arrive name-ordered from the
// repository and members name-ordered within each team, so the grouped
// result keeps the alphabetical ordering inside every block.
func OrderedRoster(roster []models.ClassStudent, teams []models.Team) []models.ClassStudent {
	byStudent := make(map[int64]models.ClassStudent, len(roster))
	for _, st := range roster {
		byStudent[st.ID] = st
	}

	ordered := make([]models.ClassStudent, 0, len(roster))
	placed := make(map[int64]struct{}, len(roster))
	for _, team := range teams {
		for _, member := range team.Students {
			st, enrolled := byStudent[member.StudentID]
			if !enrolled {
				continue
			}
			if _, dup := placed[st.ID]; dup {
				continue
			}
			placed[st.ID] = struct{}{}
			ordered = append(ordered, st)
		}
	}
	for _, st := range roster {
		if _, ok := placed[st.ID]; !ok {
			ordered = append(ordered, st)
		}
	}
	return ordered
}

func teamColorByStudent(teams []models.Team) map[int64]string {
	colors := make(map[int64]string)
	for _, team := range teams {
		for _, member := range team.Students {
			colors[member.StudentID] = team.Color
		}
	}
	return colors
}

func (s *AttendanceService) invalidateReports(ctx context.Context, enrollmentID int64) {
	if s.cache == nil {
		return
	}
	classID, err := s.roster.ClassForEnrollment(ctx, enrollmentID)
	if err != nil {
		s.logger.Warn("failed to resolve class for cache invalidation", zap.Int64("inscripcion_id", enrollmentID), zap.Error(err))
		return
	}
	pattern := fmt.Sprintf("reportes:clase:%d:*", classID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate cached reports", zap.String("pattern", pattern), zap.Error(err))
	}
}
