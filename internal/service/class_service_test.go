package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

type mockClassStore struct {
	class   *models.ClassDetail
	updated *models.Class
	deleted []int64
}

func (m *mockClassStore) List(ctx context.Context) ([]models.ClassDetail, error) {
	if m.class == nil {
		return nil, nil
	}
	return []models.ClassDetail{*m.class}, nil
}

func (m *mockClassStore) FindByID(ctx context.Context, id int64) (*models.ClassDetail, error) {
	return m.class, nil
}

func (m *mockClassStore) Create(ctx context.Context, class *models.Class) error {
	class.ID = 1
	return nil
}

func (m *mockClassStore) Update(ctx context.Context, class *models.Class) error {
	m.updated = class
	return nil
}

func (m *mockClassStore) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func ownedClass(teacherID int64) *models.ClassDetail {
	return &models.ClassDetail{Class: models.Class{
		ID:        7,
		TeacherID: teacherID,
		Subject:   "Matemáticas",
		Section:   "3-A",
		StartDate: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		ClassDays: "Lunes,Miércoles",
		Capacity:  30,
		ColorHex:  "#3498db",
		Active:    true,
	}}
}

func classUpdateRequest() models.ClassRequest {
	return models.ClassRequest{
		Subject:   "Matemáticas",
		Section:   "3-B",
		StartDate: "2024-01-08",
		EndDate:   "2024-06-28",
		ClassDays: []string{"Lunes", "Miércoles"},
	}
}

func TestClassServiceUpdateRejectsNonOwningTeacher(t *testing.T) {
	repo := &mockClassStore{class: ownedClass(1)}
	svc := NewClassService(repo, nil, nil)

	claims := &models.JWTClaims{UserID: 2, Role: models.RoleProfesor}
	_, err := svc.Update(context.Background(), claims, 7, classUpdateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.updated)
}

func TestClassServiceUpdateAllowsOwner(t *testing.T) {
	repo := &mockClassStore{class: ownedClass(1)}
	svc := NewClassService(repo, nil, nil)

	claims := &models.JWTClaims{UserID: 1, Role: models.RoleProfesor}
	class, err := svc.Update(context.Background(), claims, 7, classUpdateRequest())
	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "3-B", class.Section)
	assert.Equal(t, int64(1), class.TeacherID)
}

func TestClassServiceUpdateAllowsAdmin(t *testing.T) {
	repo := &mockClassStore{class: ownedClass(1)}
	svc := NewClassService(repo, nil, nil)

	claims := &models.JWTClaims{UserID: 99, Role: models.RoleAdmin}
	class, err := svc.Update(context.Background(), claims, 7, classUpdateRequest())
	require.NoError(t, err)
	// Admin edits keep the original owner.
	assert.Equal(t, int64(1), class.TeacherID)
}

func TestClassServiceDeleteRejectsNonOwningTeacher(t *testing.T) {
	repo := &mockClassStore{class: ownedClass(1)}
	svc := NewClassService(repo, nil, nil)

	claims := &models.JWTClaims{UserID: 2, Role: models.RoleProfesor}
	err := svc.Delete(context.Background(), claims, 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestClassServiceDeleteAllowsOwnerAndAdmin(t *testing.T) {
	repo := &mockClassStore{class: ownedClass(1)}
	svc := NewClassService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), &models.JWTClaims{UserID: 1, Role: models.RoleProfesor}, 7))
	require.NoError(t, svc.Delete(context.Background(), &models.JWTClaims{UserID: 99, Role: models.RoleAdmin}, 7))
	assert.Equal(t, []int64{7, 7}, repo.deleted)
}
