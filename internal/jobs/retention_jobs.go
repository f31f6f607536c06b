package jobs

import (
	"context"
	"time"

	"facility-admin-backend/internal/logger"
)

const purgeTimeout = 5 * time.Minute

// PurgeProcessedOutcomes retries request cleanup that failed after a commit
// and drops outcomes past the retention window.
func (jr *JobRunner) PurgeProcessedOutcomes() {
	jr.runWithRecovery("PurgeProcessedOutcomes", func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()

		days := jr.config.Retention.OutcomeDays
		requests, outcomes, err := jr.services.Maintenance.PurgeProcessed(ctx, days)
		if err != nil {
			logger.Error("Failed to purge processed approvals", "retention_days", days, "error", err)
			return
		}
		logger.Info("Processed approvals purged", "stale_requests", requests, "expired_outcomes", outcomes)
	})
}
