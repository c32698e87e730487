package models

import "time"

// Enrollment records that a student is registered for a course.
// The (student_id, course_id) pair is the identity; there is at most one
// row per pair.
type Enrollment struct {
	StudentID  string    `db:"student_id" json:"student_id"`
	CourseID   string    `db:"course_id" json:"course_id"`
	EnrolledAt time.Time `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail enriches Enrollment with student and course info for
// responses.
type EnrollmentDetail struct {
	Enrollment
	StudentName   string `db:"student_name" json:"student_name"`
	CourseName    string `db:"course_name" json:"course_name"`
	CourseTeacher string `db:"course_teacher" json:"course_teacher"`
}
