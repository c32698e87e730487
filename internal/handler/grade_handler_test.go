package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/student-mgmt-api/internal/models"
	"github.com/campuskit/student-mgmt-api/internal/service"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type gradeServiceMock struct {
	grade    *models.Grade
	report   []models.GradeReportEntry
	cgpa     *models.CGPAResult
	postErr  error
	cgpaErr  error
	lastPost service.PostGradeRequest
}

func (m *gradeServiceMock) Post(ctx context.Context, studentID string, req service.PostGradeRequest) (*models.Grade, error) {
	if m.postErr != nil {
		return nil, m.postErr
	}
	m.lastPost = req
	return m.grade, nil
}

func (m *gradeServiceMock) Update(ctx context.Context, gradeID string, req service.UpdateGradeRequest) (*models.Grade, error) {
	return m.grade, nil
}

func (m *gradeServiceMock) Delete(ctx context.Context, gradeID string) error {
	return nil
}

func (m *gradeServiceMock) Report(ctx context.Context, studentID string) ([]models.GradeReportEntry, error) {
	return m.report, nil
}

func (m *gradeServiceMock) CGPA(ctx context.Context, studentID string) (*models.CGPAResult, error) {
	if m.cgpaErr != nil {
		return nil, m.cgpaErr
	}
	return m.cgpa, nil
}

type transcriptServiceMock struct {
	file *service.TranscriptFile
	err  error
}

func (m *transcriptServiceMock) Transcript(ctx context.Context, studentID, format string) (*service.TranscriptFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.file, nil
}

func newGradeContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestGradeHandlerPostCreated(t *testing.T) {
	mock := &gradeServiceMock{grade: &models.Grade{ID: "g1", StudentID: "s1", CourseID: "c1", PercentGrade: 95, LetterGrade: "A"}}
	h := NewGradeHandler(mock, &transcriptServiceMock{})

	c, w := newGradeContext(t, http.MethodPost, "/students/s1/grades", service.PostGradeRequest{CourseID: "c1", PercentGrade: 95})
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Post(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "c1", mock.lastPost.CourseID)
	assert.Contains(t, w.Body.String(), `"letter_grade":"A"`)
}

func TestGradeHandlerPostInvalidBody(t *testing.T) {
	h := NewGradeHandler(&gradeServiceMock{}, &transcriptServiceMock{})

	c, w := newGradeContext(t, http.MethodPost, "/students/s1/grades", nil)
	c.Request.Body = http.NoBody
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Post(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradeHandlerPostNotEnrolled(t *testing.T) {
	mock := &gradeServiceMock{postErr: appErrors.Clone(appErrors.ErrNotFound, "student is not taking this course")}
	h := NewGradeHandler(mock, &transcriptServiceMock{})

	c, w := newGradeContext(t, http.MethodPost, "/students/s1/grades", service.PostGradeRequest{CourseID: "c9", PercentGrade: 80})
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Post(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGradeHandlerCGPA(t *testing.T) {
	cgpa := 3.5
	mock := &gradeServiceMock{cgpa: &models.CGPAResult{StudentID: "s1", CGPA: &cgpa, TotalCourses: 2, GradedCourses: 2}}
	h := NewGradeHandler(mock, &transcriptServiceMock{})

	c, w := newGradeContext(t, http.MethodGet, "/students/s1/cgpa", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.CGPA(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cgpa":3.5`)
}

func TestGradeHandlerTranscriptHeaders(t *testing.T) {
	file := &service.TranscriptFile{
		FileName:    "transcript_jdoe.csv",
		ContentType: "text/csv",
		Content:     []byte("Course,Percent,Letter\n"),
	}
	h := NewGradeHandler(&gradeServiceMock{}, &transcriptServiceMock{file: file})

	c, w := newGradeContext(t, http.MethodGet, "/students/s1/transcript?format=csv", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Transcript(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "transcript_jdoe.csv")
}
