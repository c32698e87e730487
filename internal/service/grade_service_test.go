package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/student-mgmt-api/internal/models"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type mockGradeRepo struct {
	grades map[string]*models.Grade
	nextID int
}

func (m *mockGradeRepo) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	grade, ok := m.grades[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return grade, nil
}

func (m *mockGradeRepo) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Grade, error) {
	for _, grade := range m.grades {
		if grade.StudentID == studentID && grade.CourseID == courseID {
			return grade, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeRepo) ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error) {
	var out []models.Grade
	for _, grade := range m.grades {
		if grade.StudentID == studentID {
			out = append(out, *grade)
		}
	}
	return out, nil
}

func (m *mockGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	if m.grades == nil {
		m.grades = make(map[string]*models.Grade)
	}
	m.nextID++
	grade.ID = fmt.Sprintf("g%d", m.nextID)
	m.grades[grade.ID] = grade
	return nil
}

func (m *mockGradeRepo) Update(ctx context.Context, grade *models.Grade) error {
	m.grades[grade.ID] = grade
	return nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.grades[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.grades, id)
	return nil
}

type mockGradeEnrollments struct {
	enrolled map[string]bool
	courses  []models.Course
}

func (m *mockGradeEnrollments) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	return m.enrolled[pairKey(studentID, courseID)], nil
}

func (m *mockGradeEnrollments) CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	return m.courses, nil
}

func newGradeFixture(courses ...models.Course) (*GradeService, *mockGradeRepo, *mockGradeEnrollments) {
	grades := &mockGradeRepo{}
	enrollments := &mockGradeEnrollments{enrolled: make(map[string]bool), courses: courses}
	for _, course := range courses {
		enrollments.enrolled[pairKey("s1", course.ID)] = true
	}
	students := &mockStudentFinder{students: map[string]*models.Student{
		"s1": {ID: "s1", FullName: "Jane Doe"},
	}}
	return NewGradeService(grades, enrollments, students, nil, nil, nil), grades, enrollments
}

func TestPostGradeDerivesLetter(t *testing.T) {
	svc, _, _ := newGradeFixture(models.Course{ID: "c1", Name: "Algebra"})

	grade, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: 95})
	require.NoError(t, err)
	assert.Equal(t, "A", grade.LetterGrade)
	assert.Equal(t, 95.0, grade.PercentGrade)
}

func TestPostGradeRequiresEnrollment(t *testing.T) {
	svc, _, _ := newGradeFixture(models.Course{ID: "c1", Name: "Algebra"})

	_, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "other", PercentGrade: 70})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPostGradeRejectsOutOfRange(t *testing.T) {
	svc, _, _ := newGradeFixture(models.Course{ID: "c1", Name: "Algebra"})

	for _, percent := range []float64{-1, 100.5} {
		_, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: percent})
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestPostGradeTwiceOverwrites(t *testing.T) {
	svc, grades, _ := newGradeFixture(models.Course{ID: "c1", Name: "Algebra"})

	first, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: 55})
	require.NoError(t, err)
	assert.Equal(t, "F", first.LetterGrade)

	second, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: 85})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "B", second.LetterGrade)
	assert.Len(t, grades.grades, 1)
}

func TestUpdateGradeRederivesLetter(t *testing.T) {
	svc, _, _ := newGradeFixture(models.Course{ID: "c1", Name: "Algebra"})

	grade, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: 72})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), grade.ID, UpdateGradeRequest{PercentGrade: 91})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.LetterGrade)
}

func TestUpdateGradeNotFound(t *testing.T) {
	svc, _, _ := newGradeFixture()

	_, err := svc.Update(context.Background(), "missing", UpdateGradeRequest{PercentGrade: 50})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportIncludesUngradedCourses(t *testing.T) {
	svc, _, _ := newGradeFixture(
		models.Course{ID: "c1", Name: "Algebra"},
		models.Course{ID: "c2", Name: "History"},
	)

	_, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: 95})
	require.NoError(t, err)

	report, err := svc.Report(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, report, 2)

	byCourse := make(map[string]models.GradeReportEntry)
	for _, entry := range report {
		byCourse[entry.CourseID] = entry
	}
	require.NotNil(t, byCourse["c1"].LetterGrade)
	assert.Equal(t, "A", *byCourse["c1"].LetterGrade)
	assert.Nil(t, byCourse["c2"].LetterGrade)
	assert.Nil(t, byCourse["c2"].PercentGrade)
}

func TestCGPACountsUngradedInDivisor(t *testing.T) {
	svc, _, _ := newGradeFixture(
		models.Course{ID: "c1", Name: "Algebra"},
		models.Course{ID: "c2", Name: "History"},
	)

	// One A over two enrolled courses: 4.0 / 2.
	_, err := svc.Post(context.Background(), "s1", PostGradeRequest{CourseID: "c1", PercentGrade: 95})
	require.NoError(t, err)

	result, err := svc.CGPA(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, result.CGPA)
	assert.Equal(t, 2.0, *result.CGPA)
	assert.Equal(t, 2, result.TotalCourses)
	assert.Equal(t, 1, result.GradedCourses)
}

func TestCGPANoEnrollments(t *testing.T) {
	svc, _, _ := newGradeFixture()

	result, err := svc.CGPA(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, result.CGPA)
	assert.Zero(t, result.TotalCourses)
}

func TestDeleteGradeNotFound(t *testing.T) {
	svc, _, _ := newGradeFixture()

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
