package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campuskit/student-mgmt-api/internal/gradescale"
	"github.com/campuskit/student-mgmt-api/internal/models"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type gradeRepository interface {
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Grade, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

type gradeEnrollmentChecker interface {
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error)
}

// PostGradeRequest holds payload for recording a grade.
type PostGradeRequest struct {
	CourseID     string  `json:"course_id" validate:"required"`
	PercentGrade float64 `json:"percent_grade"`
}

// UpdateGradeRequest holds payload for rewriting a grade's score.
type UpdateGradeRequest struct {
	PercentGrade float64 `json:"percent_grade"`
}

// GradeService records grades and derives report and CGPA views from them.
type GradeService struct {
	grades      gradeRepository
	enrollments gradeEnrollmentChecker
	students    enrollmentStudentFinder
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
}

// NewGradeService constructs the grade service.
func NewGradeService(grades gradeRepository, enrollments gradeEnrollmentChecker, students enrollmentStudentFinder, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, enrollments: enrollments, students: students, validator: validate, logger: logger, metrics: metrics}
}

// Post records a grade for a student in a course the student is enrolled in.
// Posting again for the same pair overwrites the previous score.
func (s *GradeService) Post(ctx context.Context, studentID string, req PostGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	letter, err := gradescale.LetterFor(req.PercentGrade)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not taking this course")
	}

	existing, err := s.grades.FindByStudentAndCourse(ctx, studentID, req.CourseID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	if existing != nil {
		existing.PercentGrade = req.PercentGrade
		existing.LetterGrade = string(letter)
		if err := s.grades.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
		}
		s.metrics.RecordGrade()
		return existing, nil
	}

	grade := &models.Grade{
		StudentID:    studentID,
		CourseID:     req.CourseID,
		PercentGrade: req.PercentGrade,
		LetterGrade:  string(letter),
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}
	s.metrics.RecordGrade()
	s.logger.Info("grade recorded",
		zap.String("student_id", studentID),
		zap.String("course_id", req.CourseID),
		zap.Float64("percent", req.PercentGrade))
	return grade, nil
}

// Update rewrites the score of an existing grade, rederiving the letter.
func (s *GradeService) Update(ctx context.Context, gradeID string, req UpdateGradeRequest) (*models.Grade, error) {
	letter, err := gradescale.LetterFor(req.PercentGrade)
	if err != nil {
		return nil, err
	}
	grade, err := s.grades.FindByID(ctx, gradeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}

	grade.PercentGrade = req.PercentGrade
	grade.LetterGrade = string(letter)
	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	return grade, nil
}

// Delete removes a recorded grade.
func (s *GradeService) Delete(ctx context.Context, gradeID string) error {
	if err := s.grades.Delete(ctx, gradeID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}

// Report builds a student's grade report. Every enrolled course appears
// exactly once, with null score fields when no grade has been recorded.
func (s *GradeService) Report(ctx context.Context, studentID string) ([]models.GradeReportEntry, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	courses, err := s.enrollments.CoursesForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}
	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}

	byCourse := make(map[string]*models.Grade, len(grades))
	for i := range grades {
		byCourse[grades[i].CourseID] = &grades[i]
	}

	report := make([]models.GradeReportEntry, 0, len(courses))
	for _, course := range courses {
		entry := models.GradeReportEntry{CourseID: course.ID, CourseName: course.Name}
		if grade, ok := byCourse[course.ID]; ok {
			entry.GradeID = &grade.ID
			entry.PercentGrade = &grade.PercentGrade
			letter := grade.LetterGrade
			entry.LetterGrade = &letter
		}
		report = append(report, entry)
	}
	return report, nil
}

// CGPA computes a student's cumulative GPA over every enrolled course.
// Ungraded courses contribute zero points but still count in the divisor.
func (s *GradeService) CGPA(ctx context.Context, studentID string) (*models.CGPAResult, error) {
	report, err := s.Report(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := &models.CGPAResult{StudentID: studentID, TotalCourses: len(report)}
	points := make([]float64, 0, len(report))
	for _, entry := range report {
		if entry.LetterGrade == nil {
			continue
		}
		points = append(points, gradescale.PointsFor(gradescale.Letter(*entry.LetterGrade)))
		result.GradedCourses++
	}

	if cgpa, ok := gradescale.Cumulative(points, result.TotalCourses); ok {
		result.CGPA = &cgpa
	}
	return result, nil
}
