package repository

import (
	"context"

	"github.com/spec-kit/feedback-portal/internal/domain"
	"github.com/spec-kit/feedback-portal/internal/persistence"
)

// AdminRepository stores staff accounts.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	EnsureBootstrapAdmin(ctx context.Context, username, passwordHash string) error
}

type adminRepository struct {
	store *persistence.Postgres
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(store *persistence.Postgres) AdminRepository {
	return &adminRepository{store: store}
}

const adminColumns = `user_id, username, password_hash, email, role, is_active, created_at, last_login`

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE username = $1`
	var user domain.AdminUser
	if err := r.store.Pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.LastLogin,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.store.Pool.Exec(ctx, `UPDATE admin_users SET last_login = NOW() WHERE user_id = $1`, id)
	return err
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.store.Pool.Exec(ctx, `UPDATE admin_users SET password_hash = $1 WHERE user_id = $2`, passwordHash, id)
	return err
}

// EnsureBootstrapAdmin seeds the initial admin account once; an existing
// username is left untouched.
func (r *adminRepository) EnsureBootstrapAdmin(ctx context.Context, username, passwordHash string) error {
	const query = `
        INSERT INTO admin_users (username, password_hash, role)
        VALUES ($1,$2,'admin')
        ON CONFLICT (username) DO NOTHING`
	_, err := r.store.Pool.Exec(ctx, query, username, passwordHash)
	return err
}
