package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/repository"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

type gradeRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.StudentGradeRow, error)
	ListByAssignment(ctx context.Context, assignmentID int64) ([]models.AssignmentGradeRow, error)
	Upsert(ctx context.Context, grade *models.Grade) error
}

type gradeAssignmentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
}

// GradeService provides grading use cases.
type GradeService struct {
	repo        gradeRepository
	assignments gradeAssignmentRepository
	cache       reportCacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs a GradeService instance. The cache may be
// nil when report caching is disabled.
func NewGradeService(repo gradeRepository, assignments gradeAssignmentRepository, cache reportCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{repo: repo, assignments: assignments, cache: cache, validator: validate, logger: logger}
}

// ListByStudent returns every assignment of the student's classes with
// the received grades, newest first.
func (s *GradeService) ListByStudent(ctx context.Context, studentID int64) ([]models.StudentGradeRow, error) {
	rows, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return rows, nil
}

// ListByAssignment returns the class roster with each student's grade
// for the assignment.
func (s *GradeService) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.AssignmentGradeRow, error) {
	if _, err := s.assignments.FindByID(ctx, assignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	rows, err := s.repo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	for i := range rows {
		rows[i].Highlighted = rows[i].Score != nil && isLowScore(*rows[i].Score)
	}
	return rows, nil
}

// Upsert records or replaces a score. The score may not exceed the
// assignment's configured maximum.
func (s *GradeService) Upsert(ctx context.Context, req models.GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if req.Score > assignment.MaxScore {
		msg := fmt.Sprintf("la calificación no puede exceder %g puntos", assignment.MaxScore)
		return nil, appErrors.Clone(appErrors.ErrValidation, msg)
	}

	grade := &models.Grade{
		EnrollmentID: req.EnrollmentID,
		AssignmentID: req.AssignmentID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}
	if err := s.repo.Upsert(ctx, grade); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenced enrollment does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade")
	}
	s.invalidateReports(ctx, assignment.ClassID)
	return grade, nil
}

// invalidateReports drops cached reports of the class after a grade
// write so the next export rebuilds.
func (s *GradeService) invalidateReports(ctx context.Context, classID int64) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("reportes:clase:%d:*", classID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("failed to invalidate cached reports", zap.String("pattern", pattern), zap.Error(err))
	}
}

// IsLowGrade reports whether a raw grade value should be highlighted.
// Values that do not parse as numbers are never highlighted.
func IsLowGrade(raw string) bool {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return false
	}
	return isLowScore(value)
}

func isLowScore(value float64) bool {
	return value < models.LowGradeThreshold
}
