package jobs

import (
	"context"
	"testing"

	"facility-admin-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) PurgeProcessed(ctx context.Context, retentionDays int) (int64, int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func newTestRunner(maintenance *MockMaintenanceService) *JobRunner {
	cfg := &config.Config{}
	cfg.Retention.OutcomeDays = 90
	return NewJobRunner(&Services{Maintenance: maintenance}, cfg)
}

func TestPurgeProcessedOutcomes_UsesRetentionWindow(t *testing.T) {
	maintenance := new(MockMaintenanceService)
	maintenance.On("PurgeProcessed", mock.Anything, 90).Return(int64(1), int64(4), nil).Once()

	newTestRunner(maintenance).PurgeProcessedOutcomes()

	maintenance.AssertExpectations(t)
}

func TestPurgeProcessedOutcomes_SwallowsErrors(t *testing.T) {
	maintenance := new(MockMaintenanceService)
	maintenance.On("PurgeProcessed", mock.Anything, 90).Return(int64(0), int64(0), assert.AnError).Once()

	assert.NotPanics(t, func() {
		newTestRunner(maintenance).PurgeProcessedOutcomes()
	})
	maintenance.AssertExpectations(t)
}

func TestRunWithRecovery_RecoversPanic(t *testing.T) {
	jr := newTestRunner(new(MockMaintenanceService))

	assert.NotPanics(t, func() {
		jr.runWithRecovery("Boom", func() { panic("boom") })
	})
}
