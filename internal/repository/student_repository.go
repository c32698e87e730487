package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/student-mgmt-api/internal/models"
)

// StudentRepository handles persistence for students: a user row joined with
// its student profile.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new repository instance.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `u.id, u.username, u.email, p.full_name, u.active, u.created_at, u.updated_at`

// List returns students matching filters with pagination metadata.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := `FROM users u JOIN student_profiles p ON p.user_id = u.id WHERE u.role = 'STUDENT'`
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("u.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.username) LIKE $%d OR LOWER(u.email) LIKE $%d OR LOWER(p.full_name) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"username":   "u.username",
		"email":      "u.email",
		"full_name":  "p.full_name",
		"created_at": "u.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "u.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, base, orderBy, order, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	return students, total, nil
}

// FindByID returns a student by user ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN student_profiles p ON p.user_id = u.id WHERE u.id = $1 AND u.role = 'STUDENT'`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts the user row and its student profile.
func (r *StudentRepository) Create(ctx context.Context, user *models.User, fullName string) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.Role = models.RoleStudent
	user.CreatedAt = now
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, username, email, password_hash, role, active, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create student user: %w", err)
	}
	const profileQuery = `INSERT INTO student_profiles (user_id, full_name) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, profileQuery, user.ID, fullName); err != nil {
		return fmt.Errorf("create student profile: %w", err)
	}
	return tx.Commit()
}

// Update updates the student's identity fields and profile name.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student, passwordHash string) error {
	student.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `UPDATE users SET username = $2, email = $3, password_hash = $4, updated_at = $5 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, userQuery, student.ID, student.Username, student.Email, passwordHash, student.UpdatedAt); err != nil {
		return fmt.Errorf("update student user: %w", err)
	}
	const profileQuery = `UPDATE student_profiles SET full_name = $2 WHERE user_id = $1`
	if _, err := tx.ExecContext(ctx, profileQuery, student.ID, student.FullName); err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	return tx.Commit()
}

// Delete removes the student and cascades to enrollments and grades in a
// single transaction.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete student: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM grades WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student grades: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments WHERE student_id = $1`, id); err != nil {
		return fmt.Errorf("delete student enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM student_profiles WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete student profile: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1 AND role = 'STUDENT'`, id)
	if err != nil {
		return fmt.Errorf("delete student user: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
