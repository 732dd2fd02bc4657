package audit

import (
	"context"
	"time"

	"github.com/assetdesk/backend/internal/domain/audit"
	"go.uber.org/zap"
)

// RetentionJob deletes audit entries older than the retention window
type RetentionJob struct {
	repo      audit.Repository
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// NewRetentionJob creates a RetentionJob keeping retention worth of entries
func NewRetentionJob(repo audit.Repository, retention time.Duration, logger *zap.Logger) *RetentionJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionJob{repo: repo, retention: retention, now: time.Now, logger: logger}
}

// Name identifies the job in scheduler logs
func (j *RetentionJob) Name() string {
	return "audit-retention"
}

// Run purges the expired entries
func (j *RetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	removed, err := j.repo.PurgeBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("audit entries purged", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
	}
	return nil
}
