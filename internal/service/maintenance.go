package service

import (
	"context"
	"fmt"
	"time"

	"facility-admin-backend/internal/logger"
	"facility-admin-backend/internal/repository"
)

type maintenanceService struct {
	reqRepo     repository.ApprovalRequestRepository
	outcomeRepo repository.ApprovalOutcomeRepository
	now         func() time.Time
}

func NewMaintenanceService(reqRepo repository.ApprovalRequestRepository, outcomeRepo repository.ApprovalOutcomeRepository) MaintenanceService {
	return &maintenanceService{reqRepo: reqRepo, outcomeRepo: outcomeRepo, now: time.Now}
}

// PurgeProcessed retries request cleanup first so no request loses its outcome
// while the row is still present.
func (s *maintenanceService) PurgeProcessed(ctx context.Context, retentionDays int) (int64, int64, error) {
	if retentionDays <= 0 {
		return 0, 0, fmt.Errorf("retention must be positive, got %d days", retentionDays)
	}

	requests, err := s.reqRepo.DeleteProcessed(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to delete processed requests: %w", err)
	}

	cutoff := s.now().UTC().AddDate(0, 0, -retentionDays)
	outcomes, err := s.outcomeRepo.DeleteDecidedBefore(ctx, cutoff)
	if err != nil {
		return requests, 0, fmt.Errorf("failed to delete expired outcomes: %w", err)
	}

	logger.Info("Purged processed approvals", "stale_requests", requests, "expired_outcomes", outcomes, "cutoff", cutoff.Format("2006-01-02"))
	return requests, outcomes, nil
}
