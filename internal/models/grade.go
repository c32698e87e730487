package models

import "time"

// Grade records a student's score in a course. The letter grade is always
// derived from the percent score at write time, never supplied by callers.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	CourseID     string    `db:"course_id" json:"course_id"`
	PercentGrade float64   `db:"percent_grade" json:"percent_grade"`
	LetterGrade  string    `db:"letter_grade" json:"letter_grade"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GradeReportEntry is one line of a student's grade report: every enrolled
// course appears, graded or not. Ungraded courses carry null percent and
// letter rather than being omitted.
type GradeReportEntry struct {
	CourseID     string   `json:"course_id"`
	CourseName   string   `json:"course_name"`
	GradeID      *string  `json:"grade_id,omitempty"`
	PercentGrade *float64 `json:"percent_grade"`
	LetterGrade  *string  `json:"letter_grade"`
}

// CGPAResult is the outcome of a cumulative GPA computation. CGPA is null
// when the student has no enrolled courses.
type CGPAResult struct {
	StudentID     string   `json:"student_id"`
	CGPA          *float64 `json:"cgpa"`
	TotalCourses  int      `json:"total_courses"`
	GradedCourses int      `json:"graded_courses"`
}
