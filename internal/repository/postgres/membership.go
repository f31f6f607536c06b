package postgres

import (
	"context"
	"database/sql"
	"time"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type membershipRepository struct {
	db DBTX
}

func NewMembershipRepository(db DBTX) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.MembershipLink) error {
	query := `INSERT INTO memberships (user_id, org_id, role_id, flat_id, building_number_id, joined_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	logger.DatabaseCall("INSERT", query, "user_id", m.UserID, "org_id", m.OrgID, "role_id", m.RoleID)

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, m.UserID, m.OrgID, m.RoleID, m.FlatID, m.BuildingNumberID, now)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return err
	}
	logger.DatabaseResult("INSERT", n, nil)
	m.JoinedOn = now.Format("2006-01-02")
	return nil
}

func (r *membershipRepository) GetByUserAndOrg(ctx context.Context, userID, orgID int32) (*domain.MembershipLink, error) {
	query := `SELECT m.user_id, m.org_id, m.role_id, r.name, m.flat_id, m.building_number_id, m.joined_on
	          FROM memberships m JOIN roles r ON r.id = m.role_id
	          WHERE m.user_id = $1 AND m.org_id = $2`
	logger.DatabaseCall("SELECT", query, "user_id", userID, "org_id", orgID)

	m := &domain.MembershipLink{}
	var flatID, buildingNumberID sql.NullInt32
	var joinedOn time.Time
	err := r.db.QueryRowContext(ctx, query, userID, orgID).Scan(&m.UserID, &m.OrgID, &m.RoleID, &m.RoleName, &flatID, &buildingNumberID, &joinedOn)
	if err != nil {
		return nil, translate(err)
	}
	if flatID.Valid {
		m.FlatID = &flatID.Int32
	}
	if buildingNumberID.Valid {
		m.BuildingNumberID = &buildingNumberID.Int32
	}
	m.JoinedOn = joinedOn.Format("2006-01-02")
	return m, nil
}
