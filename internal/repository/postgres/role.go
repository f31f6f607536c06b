package postgres

import (
	"context"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type roleRepository struct {
	db DBTX
}

func NewRoleRepository(db DBTX) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) ListByName(ctx context.Context, name string, limit int) ([]domain.Role, error) {
	query := `SELECT id, name, COALESCE(org_type, '') FROM roles WHERE name = $1 ORDER BY id LIMIT $2`
	logger.DatabaseCall("SELECT", query, "name", name, "limit", limit)

	rows, err := r.db.QueryContext(ctx, query, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.OrgType); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
