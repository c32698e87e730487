package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/student-mgmt-api/internal/models"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type mockTranscriptSource struct {
	report []models.GradeReportEntry
	cgpa   *models.CGPAResult
}

func (m *mockTranscriptSource) Report(ctx context.Context, studentID string) ([]models.GradeReportEntry, error) {
	return m.report, nil
}

func (m *mockTranscriptSource) CGPA(ctx context.Context, studentID string) (*models.CGPAResult, error) {
	return m.cgpa, nil
}

type mockStudentSource struct {
	student *models.Student
}

func (m *mockStudentSource) Get(ctx context.Context, id string) (*models.Student, error) {
	if m.student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return m.student, nil
}

func transcriptFixture() *ExportService {
	percent := 95.0
	letter := "A"
	cgpa := 2.0
	grades := &mockTranscriptSource{
		report: []models.GradeReportEntry{
			{CourseID: "c1", CourseName: "Algebra", PercentGrade: &percent, LetterGrade: &letter},
			{CourseID: "c2", CourseName: "History"},
		},
		cgpa: &models.CGPAResult{StudentID: "s1", CGPA: &cgpa, TotalCourses: 2, GradedCourses: 1},
	}
	students := &mockStudentSource{student: &models.Student{ID: "s1", Username: "jdoe", FullName: "Jane Doe"}}
	return NewExportService(grades, students, nil)
}

func TestTranscriptCSV(t *testing.T) {
	svc := transcriptFixture()

	file, err := svc.Transcript(context.Background(), "s1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "transcript_jdoe.csv", file.FileName)

	content := string(file.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Equal(t, "Course,Percent,Letter", strings.TrimSpace(lines[0]))
	assert.Contains(t, content, "Algebra,95.00,A")
	assert.Contains(t, content, "History,-,-")
	assert.Contains(t, content, "CGPA: 2.00")
}

func TestTranscriptPDF(t *testing.T) {
	svc := transcriptFixture()

	file, err := svc.Transcript(context.Background(), "s1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "transcript_jdoe.pdf", file.FileName)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestTranscriptUnsupportedFormat(t *testing.T) {
	svc := transcriptFixture()

	_, err := svc.Transcript(context.Background(), "s1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTranscriptUnknownStudent(t *testing.T) {
	svc := NewExportService(&mockTranscriptSource{}, &mockStudentSource{}, nil)

	_, err := svc.Transcript(context.Background(), "missing", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
