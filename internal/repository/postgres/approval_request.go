package postgres

import (
	"context"
	"database/sql"
	"time"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type approvalRequestRepository struct {
	db DBTX
}

func NewApprovalRequestRepository(db DBTX) repository.ApprovalRequestRepository {
	return &approvalRequestRepository{db: db}
}

func (r *approvalRequestRepository) GetByID(ctx context.Context, id int32) (*domain.ApprovalRequest, error) {
	query := `SELECT id, user_id, org_id, building_number_id, flat, created_on FROM approval_requests WHERE id = $1`
	logger.DatabaseCall("SELECT", query, "id", id)

	req, err := scanApprovalRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return req, nil
}

func (r *approvalRequestRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.ApprovalRequest, error) {
	query := `SELECT r.id, r.user_id, r.org_id, r.building_number_id, r.flat, r.created_on FROM approval_requests r
	          WHERE r.org_id = $1 AND NOT EXISTS (SELECT 1 FROM approval_outcomes o WHERE o.approval_id = r.id)
	          ORDER BY r.created_on, r.id`
	logger.DatabaseCall("SELECT", query, "org_id", orgID)

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := []domain.ApprovalRequest{}
	for rows.Next() {
		req, err := scanApprovalRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *approvalRequestRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM approval_requests WHERE id = $1`
	logger.DatabaseCall("DELETE", query, "id", id)

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	logger.DatabaseResult("DELETE", n, nil)
	return nil
}

func (r *approvalRequestRepository) DeleteProcessed(ctx context.Context) (int64, error) {
	query := `DELETE FROM approval_requests r USING approval_outcomes o WHERE o.approval_id = r.id`
	logger.DatabaseCall("DELETE", query)

	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	logger.DatabaseResult("DELETE", n, nil)
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApprovalRequest(row rowScanner) (*domain.ApprovalRequest, error) {
	req := &domain.ApprovalRequest{}
	var buildingNumberID sql.NullInt32
	var flat sql.NullString
	var createdOn time.Time
	if err := row.Scan(&req.ID, &req.UserID, &req.OrgID, &buildingNumberID, &flat, &createdOn); err != nil {
		return nil, err
	}
	if buildingNumberID.Valid {
		req.BuildingNumberID = &buildingNumberID.Int32
	}
	if flat.Valid {
		req.FlatLabel = &flat.String
	}
	req.CreatedOn = createdOn.Format("2006-01-02")
	return req, nil
}
