package service

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

type mockReportRepo struct {
	info           *models.ReportClassInfo
	infoErr        error
	attendanceRows []models.AttendanceReportRow
	gradeRows      []models.GradeReportRow
	gradeTypes     []string
}

func (m *mockReportRepo) ClassInfo(ctx context.Context, classID int64) (*models.ReportClassInfo, error) {
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.info, nil
}

func (m *mockReportRepo) AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceReportRow, error) {
	return m.attendanceRows, nil
}

func (m *mockReportRepo) GradeSummary(ctx context.Context, classID int64, types []string) ([]models.GradeReportRow, error) {
	m.gradeTypes = types
	return m.gradeRows, nil
}

type mockReportCache struct {
	store map[string]string
	gets  int
	sets  int
}

func (m *mockReportCache) Get(ctx context.Context, key string) (string, error) {
	m.gets++
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return "", appErrors.ErrCacheMiss
}

func (m *mockReportCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.sets++
	if m.store == nil {
		m.store = make(map[string]string)
	}
	m.store[key] = value
	return nil
}

func classInfo(total int) *models.ReportClassInfo {
	return &models.ReportClassInfo{
		ClassID:       4,
		Subject:       "Matemáticas",
		GroupName:     "3B",
		TeacherName:   "Laura Pérez",
		TotalStudents: total,
	}
}

func newTestReportService(repo *mockReportRepo, cache *mockReportCache) *ReportService {
	if cache == nil {
		return NewReportService(repo, nil, nil, zap.NewNop(), time.Minute)
	}
	return NewReportService(repo, cache, nil, zap.NewNop(), time.Minute)
}

func TestReportBuildAttendanceAverages(t *testing.T) {
	repo := &mockReportRepo{
		info: classInfo(2),
		attendanceRows: []models.AttendanceReportRow{
			{StudentName: "Ana", Percentage: 90},
			{StudentName: "Bruno", Percentage: 70},
		},
	}
	svc := newTestReportService(repo, nil)

	report, err := svc.Build(context.Background(), models.ReportAttendance, 4, false)
	require.NoError(t, err)
	assert.Equal(t, models.ReportAttendance, report.Type)
	require.NotNil(t, report.Stats.AttendanceAverage)
	assert.Equal(t, 80.0, *report.Stats.AttendanceAverage)
	assert.Nil(t, report.Stats.GradeAverage)
	assert.Equal(t, strconv.Itoa(time.Now().Year()), report.Info.Period)
}

func TestReportBuildTasksUsesNonExamTypes(t *testing.T) {
	repo := &mockReportRepo{
		info:      classInfo(1),
		gradeRows: []models.GradeReportRow{{StudentName: "Ana", Average: 88.345}},
	}
	svc := newTestReportService(repo, nil)

	report, err := svc.Build(context.Background(), models.ReportTasks, 4, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tarea", "proyecto", "participacion", "investigacion"}, repo.gradeTypes)
	require.NotNil(t, report.Stats.GradeAverage)
	assert.Equal(t, 88.35, *report.Stats.GradeAverage)
}

func TestReportBuildExamsOnlyExamType(t *testing.T) {
	repo := &mockReportRepo{info: classInfo(1), gradeRows: []models.GradeReportRow{{Average: 60}}}
	svc := newTestReportService(repo, nil)

	_, err := svc.Build(context.Background(), models.ReportExams, 4, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"examen"}, repo.gradeTypes)
}

func TestReportBuildEmptyClassShell(t *testing.T) {
	repo := &mockReportRepo{info: classInfo(0)}
	svc := newTestReportService(repo, nil)

	report, err := svc.Build(context.Background(), models.ReportAttendance, 4, false)
	require.NoError(t, err)
	assert.Equal(t, "No hay estudiantes inscritos en esta clase", report.Info.Message)
	assert.Nil(t, report.Stats.AttendanceAverage)
	assert.Empty(t, report.Students)
}

func TestReportBuildClassNotFound(t *testing.T) {
	svc := newTestReportService(&mockReportRepo{infoErr: sql.ErrNoRows}, nil)

	_, err := svc.Build(context.Background(), models.ReportAttendance, 4, false)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportBuildCachesJSON(t *testing.T) {
	repo := &mockReportRepo{
		info:           classInfo(1),
		attendanceRows: []models.AttendanceReportRow{{StudentName: "Ana", Percentage: 100}},
	}
	cache := &mockReportCache{}
	svc := newTestReportService(repo, cache)

	first, err := svc.Build(context.Background(), models.ReportAttendance, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Build(context.Background(), models.ReportAttendance, 4, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first.Info, second.Info)
}

func TestReportExportInvalidFormat(t *testing.T) {
	svc := newTestReportService(&mockReportRepo{info: classInfo(1)}, nil)

	_, _, err := svc.Export(context.Background(), models.ReportAttendance, 4, models.ReportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportExportCSV(t *testing.T) {
	repo := &mockReportRepo{
		info: classInfo(1),
		attendanceRows: []models.AttendanceReportRow{
			{StudentCode: "A001", StudentName: "Ana", TotalRecorded: 10, Present: 9, Late: 1, Percentage: 100},
		},
	}
	svc := newTestReportService(repo, nil)

	_, file, err := svc.Export(context.Background(), models.ReportAttendance, 4, models.FormatCSV)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Regexp(t, `^reporte_asistencia_\d+\.csv$`, file.Filename)
	assert.Contains(t, string(file.Content), "Ana")
}

func TestReportExportPDF(t *testing.T) {
	repo := &mockReportRepo{
		info:      classInfo(1),
		gradeRows: []models.GradeReportRow{{StudentCode: "A001", StudentName: "Ana", Graded: 3, Average: 95}},
	}
	svc := newTestReportService(repo, nil)

	_, file, err := svc.Export(context.Background(), models.ReportTasks, 4, models.FormatPDF)
	require.NoError(t, err)
	require.NotNil(t, file)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Regexp(t, `^reporte_tareas_\d+\.pdf$`, file.Filename)
	assert.True(t, len(file.Content) > 0)
}

func TestReportExportJSONSkipsFile(t *testing.T) {
	repo := &mockReportRepo{info: classInfo(0)}
	svc := newTestReportService(repo, nil)

	report, file, err := svc.Export(context.Background(), models.ReportAttendance, 4, models.FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, file)
	require.NotNil(t, report)
}
