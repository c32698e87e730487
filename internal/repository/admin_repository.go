package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campuskit/student-mgmt-api/internal/models"
)

// AdminRepository handles persistence for administrators: a user row joined
// with its admin profile.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new repository instance.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `u.id, u.username, u.email, p.full_name, u.active, u.created_at, u.updated_at`

// List returns all administrators.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN admin_profiles p ON p.user_id = u.id WHERE u.role = 'ADMIN' ORDER BY u.created_at DESC`, adminColumns)
	var admins []models.Admin
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// FindByID returns an admin by user ID.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM users u JOIN admin_profiles p ON p.user_id = u.id WHERE u.id = $1 AND u.role = 'ADMIN'`, adminColumns)
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// CountAdmins returns the number of admin users. Used for the bootstrap
// exemption on the first admin registration.
func (r *AdminRepository) CountAdmins(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

// Create inserts the user row and its admin profile.
func (r *AdminRepository) Create(ctx context.Context, user *models.User, fullName string) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.Role = models.RoleAdmin
	user.CreatedAt = now
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create admin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const userQuery = `INSERT INTO users (id, username, email, password_hash, role, active, created_at, updated_at) VALUES (:id, :username, :email, :password_hash, :role, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	const profileQuery = `INSERT INTO admin_profiles (user_id, full_name) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, profileQuery, user.ID, fullName); err != nil {
		return fmt.Errorf("create admin profile: %w", err)
	}
	return tx.Commit()
}
