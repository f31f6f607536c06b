package postgres

import (
	"context"
	"database/sql"
	"time"

	"facility-admin-backend/internal/domain"
	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type approvalOutcomeRepository struct {
	db DBTX
}

func NewApprovalOutcomeRepository(db DBTX) repository.ApprovalOutcomeRepository {
	return &approvalOutcomeRepository{db: db}
}

func (r *approvalOutcomeRepository) Claim(ctx context.Context, o *domain.ApprovalOutcome) (bool, error) {
	query := `INSERT INTO approval_outcomes (approval_id, outcome, user_id, org_id, flat_id, decided_by, decided_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (approval_id) DO NOTHING`
	logger.DatabaseCall("INSERT", query, "approval_id", o.ApprovalID, "outcome", o.Outcome)

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, o.ApprovalID, o.Outcome, o.UserID, o.OrgID, o.FlatID, o.DecidedBy, now)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	logger.DatabaseResult("INSERT", n, nil)
	if n == 0 {
		return false, nil
	}
	o.DecidedOn = now.Format("2006-01-02")
	return true, nil
}

func (r *approvalOutcomeRepository) Get(ctx context.Context, approvalID int32) (*domain.ApprovalOutcome, error) {
	query := `SELECT approval_id, outcome, user_id, org_id, flat_id, decided_by, decided_on FROM approval_outcomes WHERE approval_id = $1`
	logger.DatabaseCall("SELECT", query, "approval_id", approvalID)

	o := &domain.ApprovalOutcome{}
	var flatID sql.NullInt32
	var decidedOn time.Time
	err := r.db.QueryRowContext(ctx, query, approvalID).Scan(&o.ApprovalID, &o.Outcome, &o.UserID, &o.OrgID, &flatID, &o.DecidedBy, &decidedOn)
	if err != nil {
		return nil, translate(err)
	}
	if flatID.Valid {
		o.FlatID = &flatID.Int32
	}
	o.DecidedOn = decidedOn.Format("2006-01-02")
	return o, nil
}

func (r *approvalOutcomeRepository) SetFlat(ctx context.Context, approvalID, flatID int32) error {
	query := `UPDATE approval_outcomes SET flat_id = $1 WHERE approval_id = $2`
	logger.DatabaseCall("UPDATE", query, "approval_id", approvalID, "flat_id", flatID)
	_, err := r.db.ExecContext(ctx, query, flatID, approvalID)
	return err
}

func (r *approvalOutcomeRepository) DeleteDecidedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM approval_outcomes WHERE decided_on < $1`
	logger.DatabaseCall("DELETE", query, "cutoff", cutoff)

	res, err := r.db.ExecContext(ctx, query, cutoff)
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
