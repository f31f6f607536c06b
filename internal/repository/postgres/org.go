package postgres

import (
	"context"
	"time"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type organizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	o := &domain.Organization{}
	var createdOn time.Time
	query := `SELECT id, name, type, created_on FROM organisations WHERE id = $1`
	logger.DatabaseCall("SELECT", query, "org_id", id)

	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.Name, &o.Type, &createdOn)
	if err != nil {
		return nil, translate(err)
	}
	o.CreatedOn = createdOn.Format("2006-01-02")
	return o, nil
}
