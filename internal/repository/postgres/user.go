package postgres

import (
	"context"
	"time"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.Profile, error) {
	query := `SELECT id, auth_id, name, COALESCE(email, ''), is_platform_admin, created_on FROM users WHERE id = $1`
	logger.DatabaseCall("SELECT", query, "id", id)
	return r.scanOne(ctx, query, id)
}

func (r *userRepository) GetByAuthID(ctx context.Context, authID string) (*domain.Profile, error) {
	query := `SELECT id, auth_id, name, COALESCE(email, ''), is_platform_admin, created_on FROM users WHERE auth_id = $1`
	logger.DatabaseCall("SELECT", query, "auth_id", authID)
	return r.scanOne(ctx, query, authID)
}

func (r *userRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Profile, error) {
	p := &domain.Profile{}
	var createdOn time.Time
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&p.UserID, &p.AuthID, &p.Name, &p.Email, &p.IsPlatformAdmin, &createdOn)
	if err != nil {
		return nil, translate(err)
	}
	p.CreatedOn = createdOn.Format("2006-01-02")
	return p, nil
}
