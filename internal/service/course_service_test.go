package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/student-mgmt-api/internal/models"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type mockCourseRepo struct {
	courses map[string]*models.Course
	taken   map[string]bool
}

func (m *mockCourseRepo) List(ctx context.Context, search string) ([]models.Course, error) {
	var out []models.Course
	for _, c := range m.courses {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	course, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return course, nil
}

func (m *mockCourseRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	return m.taken[name], nil
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	course.ID = "c-new"
	if m.courses == nil {
		m.courses = make(map[string]*models.Course)
	}
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

func TestCreateCourse(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Create(context.Background(), CourseRequest{Name: "Algebra", Teacher: "Dr. Ng"})
	require.NoError(t, err)
	assert.Equal(t, "c-new", course.ID)
	assert.Equal(t, "Algebra", course.Name)
}

func TestCreateCourseDuplicateName(t *testing.T) {
	repo := &mockCourseRepo{taken: map[string]bool{"Algebra": true}}
	svc := NewCourseService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Name: "Algebra", Teacher: "Dr. Ng"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestGetCourseNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateCourseNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil)

	_, err := svc.Update(context.Background(), "missing", CourseRequest{Name: "Algebra", Teacher: "Dr. Ng"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDeleteCourseNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
