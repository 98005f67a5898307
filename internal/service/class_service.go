package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aulanet/aulanet-api/internal/models"
	"github.com/aulanet/aulanet-api/internal/repository"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

const (
	defaultClassCapacity = 30
	defaultClassColor    = "#3498db"
)

type classRepository interface {
	List(ctx context.Context) ([]models.ClassDetail, error)
	FindByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
}

// ClassService provides class management use cases.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// List returns every class with enrollment counts.
func (s *ClassService) List(ctx context.Context) ([]models.ClassDetail, error) {
	classes, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return classes, nil
}

// Get returns one class.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create registers a class owned by the authenticated teacher. Missing
// capacity and color take the product defaults.
func (s *ClassService) Create(ctx context.Context, teacherID int64, req models.ClassRequest) (*models.Class, error) {
	class, err := s.buildClass(teacherID, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, class); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "referenced teacher does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	return class, nil
}

// Update replaces the mutable fields of a class. Only the owning
// teacher or an admin may write.
func (s *ClassService) Update(ctx context.Context, claims *models.JWTClaims, id int64, req models.ClassRequest) (*models.Class, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeWrite(claims, existing); err != nil {
		return nil, err
	}

	class, err := s.buildClass(existing.TeacherID, req)
	if err != nil {
		return nil, err
	}
	class.ID = id
	class.Active = existing.Active
	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	return class, nil
}

// Delete removes a class and everything hanging off it. Only the
// owning teacher or an admin may delete.
func (s *ClassService) Delete(ctx context.Context, claims *models.JWTClaims, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeWrite(claims, existing); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	return nil
}

func (s *ClassService) authorizeWrite(claims *models.JWTClaims, class *models.ClassDetail) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin && class.TeacherID != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "no puedes modificar una clase de otro profesor")
	}
	return nil
}

// Sessions derives the dated session list of a class from its schedule.
func (s *ClassService) Sessions(ctx context.Context, id int64) ([]string, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return SessionDates(class.Class), nil
}

func (s *ClassService) buildClass(teacherID int64, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_inicio must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin must not precede fecha_inicio")
	}
	for _, day := range req.ClassDays {
		if !validWeekday(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dias_de_clase contains an unknown weekday: "+day)
		}
	}

	class := &models.Class{
		TeacherID: teacherID,
		Subject:   req.Subject,
		Section:   req.Section,
		StartDate: start,
		EndDate:   end,
		ClassDays: strings.Join(req.ClassDays, ","),
		Capacity:  req.Capacity,
		ColorHex:  req.ColorHex,
		Active:    true,
	}
	if class.Capacity == 0 {
		class.Capacity = defaultClassCapacity
	}
	if class.ColorHex == "" {
		class.ColorHex = defaultClassColor
	}
	return class, nil
}

func validWeekday(day string) bool {
	for _, d := range spanishWeekdays {
		if d == day {
			return true
		}
	}
	return false
}
