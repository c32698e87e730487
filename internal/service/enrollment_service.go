package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/campuskit/student-mgmt-api/internal/models"
	appErrors "github.com/campuskit/student-mgmt-api/pkg/errors"
)

type enrollmentRepository interface {
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentID, courseID string) error
	CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error)
	StudentsForCourse(ctx context.Context, courseID string) ([]models.Student, error)
}

type enrollmentStudentFinder interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type enrollmentCourseFinder interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollmentService manages the student/course relation.
type EnrollmentService struct {
	enrollments enrollmentRepository
	students    enrollmentStudentFinder
	courses     enrollmentCourseFinder
	logger      *zap.Logger
	metrics     *MetricsService
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(enrollments enrollmentRepository, students enrollmentStudentFinder, courses enrollmentCourseFinder, logger *zap.Logger, metrics *MetricsService) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, students: students, courses: courses, logger: logger, metrics: metrics}
}

// Enroll adds a student to a course. Enrolling twice is a no-op success.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, courseID string) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil
	}

	enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll student")
	}
	s.metrics.RecordEnrollment()
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID))
	return nil
}

// Drop removes a student from a course.
func (s *EnrollmentService) Drop(ctx context.Context, studentID, courseID string) error {
	if err := s.enrollments.Delete(ctx, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this course")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop enrollment")
	}
	s.logger.Info("student dropped",
		zap.String("student_id", studentID),
		zap.String("course_id", courseID))
	return nil
}

// CoursesForStudent lists the courses a student is enrolled in.
func (s *EnrollmentService) CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
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
	return courses, nil
}

// StudentsForCourse lists the students enrolled in a course.
func (s *EnrollmentService) StudentsForCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	students, err := s.enrollments.StudentsForCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}
	return students, nil
}
