package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campuskit/student-mgmt-api/internal/models"
)

// EnrollmentRepository handles persistence of the student/course relation.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Exists checks whether the student is enrolled in the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment row. The composite primary key on
// (student_id, course_id) is the authoritative duplicate guard.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (student_id, course_id, enrolled_at) VALUES (:student_id, :course_id, :enrolled_at) ON CONFLICT (student_id, course_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment row.
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, courseID string) error {
	const query = `DELETE FROM enrollments WHERE student_id = $1 AND course_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, courseID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CoursesForStudent returns all courses the student is enrolled in.
func (r *EnrollmentRepository) CoursesForStudent(ctx context.Context, studentID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.name, c.teacher, c.created_at, c.updated_at
        FROM courses c
        JOIN enrollments e ON e.course_id = c.id
        WHERE e.student_id = $1`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}
	return courses, nil
}

// StudentsForCourse returns all students enrolled in the course.
func (r *EnrollmentRepository) StudentsForCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT u.id, u.username, u.email, p.full_name, u.active, u.created_at, u.updated_at
        FROM users u
        JOIN student_profiles p ON p.user_id = u.id
        JOIN enrollments e ON e.student_id = u.id
        WHERE e.course_id = $1`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	return students, nil
}
