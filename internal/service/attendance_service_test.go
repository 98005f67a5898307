package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

type mockAttendanceRepo struct {
	rows  []models.ClassAttendanceRow
	saved []models.AttendanceRecord
}

func (m *mockAttendanceRepo) ListByClassDate(ctx context.Context, classID int64, date time.Time) ([]models.ClassAttendanceRow, error) {
	return m.rows, nil
}

func (m *mockAttendanceRepo) ListByClass(ctx context.Context, classID int64) ([]models.ClassAttendanceRow, error) {
	return m.rows, nil
}

func (m *mockAttendanceRepo) BulkSave(ctx context.Context, records []models.AttendanceRecord) error {
	m.saved = records
	return nil
}

type mockRosterRepo struct {
	roster  []models.ClassStudent
	classID int64
}

func (m *mockRosterRepo) ListByClass(ctx context.Context, classID int64) ([]models.ClassStudent, error) {
	return m.roster, nil
}

func (m *mockRosterRepo) ClassForEnrollment(ctx context.Context, enrollmentID int64) (int64, error) {
	return m.classID, nil
}

type mockClassRepo struct {
	class *models.ClassDetail
}

func (m *mockClassRepo) FindByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	return m.class, nil
}

type mockTeamLister struct {
	teams []models.Team
}

func (m *mockTeamLister) ListByClass(ctx context.Context, classID int64) ([]models.Team, error) {
	return m.teams, nil
}

type mockCacheInvalidator struct {
	patterns []string
}

func (m *mockCacheInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func attendanceRow(enrollmentID int64, date, status string) models.ClassAttendanceRow {
	day, _ := time.Parse("2006-01-02", date)
	return models.ClassAttendanceRow{
		AttendanceRecord: models.AttendanceRecord{
			EnrollmentID: enrollmentID,
			Date:         day,
			Status:       models.AttendanceStatus(status),
		},
	}
}

func TestAbsenceCountDecodesAndDeduplicates(t *testing.T) {
	rows := []models.ClassAttendanceRow{
		attendanceRow(1, "2024-01-01", "falto"),
		attendanceRow(1, "2024-01-01", "falto"), // duplicate row for the same day
		attendanceRow(1, "2024-01-03", "comentario:falto:2024-01-03:sin justificar"),
		attendanceRow(2, "2024-01-01", "presente"),
		attendanceRow(2, "2024-01-03", "tarde"),
	}

	counts := AbsenceCount(rows)
	assert.Equal(t, 2, counts[1])
	assert.Equal(t, 0, counts[2])
}

func TestYellowThreshold(t *testing.T) {
	assert.Equal(t, 4, YellowThreshold(20))
	assert.Equal(t, 3, YellowThreshold(11))
	assert.Equal(t, 1, YellowThreshold(1))
	assert.Equal(t, 0, YellowThreshold(0))
}

func TestAbsenceTier(t *testing.T) {
	// 20 sessions: yellow threshold is 4.
	yellow := YellowThreshold(20)
	assert.Equal(t, models.TierNormal, AbsenceTier(3, yellow))
	assert.Equal(t, models.TierWarning, AbsenceTier(4, yellow))
	assert.Equal(t, models.TierCritical, AbsenceTier(5, yellow))
	assert.Equal(t, models.TierCritical, AbsenceTier(12, yellow))
	assert.Equal(t, models.TierNormal, AbsenceTier(99, 0))
}

func TestRowBackgroundPrecedence(t *testing.T) {
	assert.Equal(t, "rgba(245, 158, 11, 0.15)", RowBackground(models.TierWarning, "#112233"))
	assert.Equal(t, "rgba(239, 68, 68, 0.15)", RowBackground(models.TierCritical, "#112233"))
	assert.Equal(t, "#112233", RowBackground(models.TierNormal, "#112233"))
	assert.Equal(t, "transparent", RowBackground(models.TierNormal, ""))
}

func newTestAttendanceService(repo *mockAttendanceRepo, roster *mockRosterRepo, classes *mockClassRepo, teams *mockTeamLister, cache *mockCacheInvalidator) *AttendanceService {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return NewAttendanceService(repo, roster, classes, teams, cache, v, zap.NewNop())
}

func TestBulkSaveValidStatuses(t *testing.T) {
	repo := &mockAttendanceRepo{}
	roster := &mockRosterRepo{classID: 9}
	cache := &mockCacheInvalidator{}
	svc := newTestAttendanceService(repo, roster, &mockClassRepo{}, &mockTeamLister{}, cache)

	err := svc.BulkSave(context.Background(), 1, models.BulkAttendanceRequest{
		Records: []models.AttendanceEntry{
			{EnrollmentID: 10, Date: "2024-02-05", Status: models.AttendancePresent},
			{EnrollmentID: 11, Date: "2024-02-05", Status: models.AttendanceAbsent},
		},
	})
	require.NoError(t, err)
	require.Len(t, repo.saved, 2)
	assert.Equal(t, []string{"reportes:clase:9:*"}, cache.patterns)
	recordedBy := repo.saved[0].RecordedBy
	require.NotNil(t, recordedBy)
	assert.Equal(t, int64(1), *recordedBy)
}

func TestBulkSaveRejectsUnsetStatus(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newTestAttendanceService(repo, &mockRosterRepo{}, &mockClassRepo{}, &mockTeamLister{}, &mockCacheInvalidator{})

	err := svc.BulkSave(context.Background(), 1, models.BulkAttendanceRequest{
		Records: []models.AttendanceEntry{
			{EnrollmentID: 10, Date: "2024-02-05", Status: models.AttendanceUnset},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.saved)
}

func TestBulkSaveRejectsLongComment(t *testing.T) {
	repo := &mockAttendanceRepo{}
	svc := newTestAttendanceService(repo, &mockRosterRepo{}, &mockClassRepo{}, &mockTeamLister{}, &mockCacheInvalidator{})

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	comment := string(long)
	err := svc.BulkSave(context.Background(), 1, models.BulkAttendanceRequest{
		Records: []models.AttendanceEntry{
			{EnrollmentID: 10, Date: "2024-02-05", Status: models.AttendanceLate, Comments: &comment},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClassSummaryTiersAndBackgrounds(t *testing.T) {
	// Mondays and Wednesdays over ten weeks: 20 sessions, yellow at 4.
	start, _ := time.Parse("2006-01-02", "2024-01-01")
	end, _ := time.Parse("2006-01-02", "2024-03-10")
	class := &models.ClassDetail{Class: models.Class{ID: 5, StartDate: start, EndDate: end, ClassDays: "Lunes,Miércoles"}}

	lastname := "García"
	roster := &mockRosterRepo{roster: []models.ClassStudent{
		{Student: models.Student{ID: 100, Code: "A001", Name: "Ana", LastName: &lastname}, EnrollmentID: 1},
		{Student: models.Student{ID: 101, Code: "A002", Name: "Bruno"}, EnrollmentID: 2},
		{Student: models.Student{ID: 102, Code: "A003", Name: "Carla"}, EnrollmentID: 3},
	}}

	var rows []models.ClassAttendanceRow
	sessions := SessionDates(class.Class)
	for i := 0; i < 4; i++ {
		rows = append(rows, attendanceRow(1, sessions[i], "falto"))
	}
	for i := 0; i < 5; i++ {
		rows = append(rows, attendanceRow(2, sessions[i], "falto"))
	}
	rows = append(rows, attendanceRow(3, sessions[0], "presente"))

	teams := &mockTeamLister{teams: []models.Team{
		{ID: "t1", Color: "#abcdef", Students: []models.TeamMember{{StudentID: 102}}},
	}}

	svc := newTestAttendanceService(&mockAttendanceRepo{rows: rows}, roster, &mockClassRepo{class: class}, teams, &mockCacheInvalidator{})
	summary, err := svc.ClassSummary(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 20, summary.TotalSessions)
	assert.Equal(t, 4, summary.YellowThreshold)
	assert.Equal(t, 5, summary.RedThreshold)
	require.Len(t, summary.Students, 3)

	// Teamed Carla leads the grid, then the unassigned block.
	assert.Equal(t, "Carla", summary.Students[0].StudentName)
	assert.Equal(t, models.TierNormal, summary.Students[0].Tier)
	assert.Equal(t, "#abcdef", summary.Students[0].Background)
	assert.Equal(t, "Ana", summary.Students[1].StudentName)
	assert.Equal(t, models.TierWarning, summary.Students[1].Tier)
	assert.Equal(t, "rgba(245, 158, 11, 0.15)", summary.Students[1].Background)
	assert.Equal(t, "Bruno", summary.Students[2].StudentName)
	assert.Equal(t, models.TierCritical, summary.Students[2].Tier)
	assert.Equal(t, "rgba(239, 68, 68, 0.15)", summary.Students[2].Background)
}

func TestOrderedRosterGroupsTeamsFirst(t *testing.T) {
	roster := []models.ClassStudent{
		{Student: models.Student{ID: 1, Name: "Ana"}, EnrollmentID: 10},
		{Student: models.Student{ID: 2, Name: "Bruno"}, EnrollmentID: 11},
		{Student: models.Student{ID: 3, Name: "Carla"}, EnrollmentID: 12},
		{Student: models.Student{ID: 4, Name: "Diego"}, EnrollmentID: 13},
		{Student: models.Student{ID: 5, Name: "Elena"}, EnrollmentID: 14},
	}
	teams := []models.Team{
		{ID: "t1", Name: "Águilas", Students: []models.TeamMember{{StudentID: 2}, {StudentID: 5}}},
		{ID: "t2", Name: "Búhos", Students: []models.TeamMember{{StudentID: 3}}},
	}

	ordered := OrderedRoster(roster, teams)
	names := make([]string, 0, len(ordered))
	for _, st := range ordered {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{"Bruno", "Elena", "Carla", "Ana", "Diego"}, names)
}

func TestOrderedRosterSkipsUnenrolledMembers(t *testing.T) {
	roster := []models.ClassStudent{
		{Student: models.Student{ID: 1, Name: "Ana"}, EnrollmentID: 10},
	}
	teams := []models.Team{
		{ID: "t1", Name: "Águilas", Students: []models.TeamMember{{StudentID: 99}, {StudentID: 1}}},
	}

	ordered := OrderedRoster(roster, teams)
	require.Len(t, ordered, 1)
	assert.Equal(t, "Ana", ordered[0].Name)
}
