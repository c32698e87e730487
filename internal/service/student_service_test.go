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

type mockStudentRepo struct {
	students map[string]*models.Student
	deleted  []string
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	student, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return student, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, user *models.User, fullName string) error {
	user.ID = "s-new"
	if m.students == nil {
		m.students = make(map[string]*models.Student)
	}
	m.students[user.ID] = &models.Student{ID: user.ID, Username: user.Username, Email: user.Email, FullName: fullName, Active: true}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student, passwordHash string) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func studentRequest() RegisterStudentRequest {
	return RegisterStudentRequest{
		FullName: "Jane Doe",
		Username: "jdoe",
		Email:    "JDoe@Example.com",
		Password: "secret123",
	}
}

func TestRegisterStudentLowercasesEmail(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockUniqueChecker{}, nil, nil)

	student, err := svc.Register(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", student.Email)
	assert.Equal(t, "s-new", student.ID)
	assert.True(t, student.Active)
}

func TestRegisterStudentConflict(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockUniqueChecker{exists: true}, nil, nil)

	_, err := svc.Register(context.Background(), studentRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestRegisterStudentShortPassword(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockUniqueChecker{}, nil, nil)

	req := studentRequest()
	req.Password = "abc"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGetStudentNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockUniqueChecker{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateStudentRejectsTakenUsername(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", Username: "jdoe", Email: "jdoe@example.com", FullName: "Jane Doe"},
	}}
	svc := NewStudentService(repo, &mockUniqueChecker{exists: true}, nil, nil)

	_, err := svc.Update(context.Background(), "s1", UpdateStudentRequest(studentRequest()))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestDeleteStudentNotFound(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, &mockUniqueChecker{}, nil, nil)

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListStudentsDefaultsPagination(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", Username: "jdoe"},
	}}
	svc := NewStudentService(repo, &mockUniqueChecker{}, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}
