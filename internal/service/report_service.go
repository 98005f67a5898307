package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
	"github.com/aulanet/aulanet-api/pkg/export"
)

const emptyClassMessage = "No hay estudiantes inscritos en esta clase"

type reportRepository interface {
	ClassInfo(ctx context.Context, classID int64) (*models.ReportClassInfo, error)
	AttendanceSummary(ctx context.Context, classID int64) ([]models.AttendanceReportRow, error)
	GradeSummary(ctx context.Context, classID int64, types []string) ([]models.GradeReportRow, error)
}

type reportCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ExportedFile is a rendered report ready to be sent as a download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService builds class reports and renders them for export.
type ReportService struct {
	repo     reportRepository
	cache    reportCache
	metrics  *MetricsService
	pdf      *export.PDFExporter
	csv      *export.CSVExporter
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewReportService constructs a ReportService instance. metrics may be
// nil when instrumentation is not wanted.
func NewReportService(repo reportRepository, cache reportCache, metrics *MetricsService, logger *zap.Logger, cacheTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ReportService{
		repo:     repo,
		cache:    cache,
		metrics:  metrics,
		pdf:      export.NewPDFExporter(),
		csv:      export.NewCSVExporter(),
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Build computes the report payload for a class. JSON requests are
// served from cache when possible; rendered formats always rebuild so
// typing survives.
func (s *ReportService) Build(ctx context.Context, reportType models.ReportType, classID int64, cacheable bool) (*models.Report, error) {
	if !reportType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tipo must be one of: asistencia, tareas, examenes")
	}

	key := fmt.Sprintf("reportes:clase:%d:%s", classID, reportType)
	if cacheable && s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		s.metrics.RecordCacheOperation(err == nil)
		if err == nil {
			var report models.Report
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
			s.logger.Warn("discarding malformed cached report", zap.String("key", key))
		}
	}

	report, err := s.build(ctx, reportType, classID)
	if err != nil {
		return nil, err
	}

	if cacheable && s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.cacheTTL); err != nil {
				s.logger.Warn("failed to cache report", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return report, nil
}

// Export renders a report in the requested format. JSON returns the raw
// payload; pdf and csv return downloadable bytes with a timestamped
// filename.
func (s *ReportService) Export(ctx context.Context, reportType models.ReportType, classID int64, format models.ReportFormat) (*models.Report, *ExportedFile, error) {
	if !format.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "formato must be one of: json, pdf, csv")
	}

	report, err := s.Build(ctx, reportType, classID, format == models.FormatJSON)
	if err != nil {
		return nil, nil, err
	}
	if format == models.FormatJSON {
		return report, nil, nil
	}

	dataset := s.dataset(report)
	filename := fmt.Sprintf("reporte_%s_%d.%s", reportType, time.Now().UnixMilli(), format)

	switch format {
	case models.FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return report, &ExportedFile{Filename: filename, ContentType: "text/csv", Content: content}, nil
	default:
		content, err := s.pdf.RenderDocument(export.Document{
			Title:   s.title(report.Type),
			Meta:    s.meta(report),
			Table:   dataset,
			Summary: s.summary(report),
		})
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return report, &ExportedFile{Filename: filename, ContentType: "application/pdf", Content: content}, nil
	}
}

func (s *ReportService) build(ctx context.Context, reportType models.ReportType, classID int64) (*models.Report, error) {
	info, err := s.repo.ClassInfo(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	report := &models.Report{
		Type: reportType,
		Info: models.ReportInfo{
			ClassID:       info.ClassID,
			Group:         info.GroupName,
			Subject:       info.Subject,
			Teacher:       info.TeacherName,
			TotalStudents: info.TotalStudents,
			Period:        strconv.Itoa(time.Now().Year()),
		},
	}

	if info.TotalStudents == 0 {
		report.Info.Message = emptyClassMessage
		report.Students = []struct{}{}
		return report, nil
	}

	switch reportType {
	case models.ReportAttendance:
		rows, err := s.repo.AttendanceSummary(ctx, classID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build attendance report")
		}
		report.Students = rows
		report.Stats.AttendanceAverage = averageOf(len(rows), func(i int) float64 { return rows[i].Percentage })
	default:
		types := gradeReportTypes(reportType)
		rows, err := s.repo.GradeSummary(ctx, classID, types)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build grade report")
		}
		report.Students = rows
		report.Stats.GradeAverage = averageOf(len(rows), func(i int) float64 { return rows[i].Average })
	}
	return report, nil
}

// gradeReportTypes maps a report type to the assignment types it
// aggregates. Exams cover everything test-like; tareas the rest.
func gradeReportTypes(reportType models.ReportType) []string {
	if reportType == models.ReportExams {
		return []string{string(models.AssignmentExam)}
	}
	return []string{
		string(models.AssignmentTask),
		string(models.AssignmentProject),
		string(models.AssignmentParticipation),
		string(models.AssignmentResearch),
	}
}

// averageOf is the class average as an average of per-student averages,
// rounded to two decimals. Empty sets yield nil so the stat is omitted.
func averageOf(n int, value func(int) float64) *float64 {
	if n == 0 {
		return nil
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += value(i)
	}
	avg := round2(sum / float64(n))
	return &avg
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *ReportService) title(reportType models.ReportType) string {
	switch reportType {
	case models.ReportAttendance:
		return "Reporte de Asistencia"
	case models.ReportExams:
		return "Reporte de Exámenes"
	default:
		return "Reporte de Tareas"
	}
}

func (s *ReportService) meta(report *models.Report) []export.MetaEntry {
	entries := []export.MetaEntry{
		{Label: "Materia", Value: report.Info.Subject},
		{Label: "Grupo", Value: report.Info.Group},
		{Label: "Profesor", Value: report.Info.Teacher},
		{Label: "Periodo", Value: report.Info.Period},
		{Label: "Total de alumnos", Value: strconv.Itoa(report.Info.TotalStudents)},
	}
	if report.Info.Message != "" {
		entries = append(entries, export.MetaEntry{Label: "Nota", Value: report.Info.Message})
	}
	return entries
}

func (s *ReportService) summary(report *models.Report) []string {
	var lines []string
	if report.Stats.AttendanceAverage != nil {
		lines = append(lines, fmt.Sprintf("Promedio de asistencia de la clase: %.2f%%", *report.Stats.AttendanceAverage))
	}
	if report.Stats.GradeAverage != nil {
		lines = append(lines, fmt.Sprintf("Promedio de la clase: %.2f", *report.Stats.GradeAverage))
	}
	return lines
}

func (s *ReportService) dataset(report *models.Report) export.Dataset {
	if report.Type == models.ReportAttendance {
		headers := []string{"Código", "Alumno", "Registradas", "Presente", "Tarde", "Faltas", "Asistencia %"}
		rows, _ := report.Students.([]models.AttendanceReportRow)
		dataset := export.Dataset{Headers: headers}
		for _, row := range rows {
			dataset.Rows = append(dataset.Rows, map[string]string{
				"Código":       row.StudentCode,
				"Alumno":       row.StudentName,
				"Registradas":  strconv.Itoa(row.TotalRecorded),
				"Presente":     strconv.Itoa(row.Present),
				"Tarde":        strconv.Itoa(row.Late),
				"Faltas":       strconv.Itoa(row.Absent),
				"Asistencia %": fmt.Sprintf("%.2f", row.Percentage),
			})
		}
		return dataset
	}

	headers := []string{"Código", "Alumno", "Calificadas", "Promedio"}
	rows, _ := report.Students.([]models.GradeReportRow)
	dataset := export.Dataset{Headers: headers}
	for _, row := range rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Código":      row.StudentCode,
			"Alumno":      row.StudentName,
			"Calificadas": strconv.Itoa(row.Graded),
			"Promedio":    fmt.Sprintf("%.2f", row.Average),
		})
	}
	return dataset
}
