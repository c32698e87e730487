package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Statements run in order inside one transaction. Every statement is
// idempotent so startup can re-run the whole set.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS student_profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		full_name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS admin_profiles (
		user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		full_name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		teacher VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		enrolled_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (student_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS grades (
		id UUID PRIMARY KEY,
		student_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		course_id UUID NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		percent_grade DOUBLE PRECISION NOT NULL CHECK (percent_grade >= 0 AND percent_grade <= 100),
		letter_grade VARCHAR(2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (student_id, course_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollments (course_id)`,
	`CREATE INDEX IF NOT EXISTS idx_grades_student ON grades (student_id)`,
}

// Migrate applies the schema. Safe to call on every startup.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema migration: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return tx.Commit()
}
