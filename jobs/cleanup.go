package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stocklight/stocklight/internal/jobs"
	"github.com/stocklight/stocklight/internal/shared"
)

// IdempotencyCleanupJob prunes idempotency keys past their retention window.
type IdempotencyCleanupJob struct {
	store     *shared.IdempotencyStore
	retention time.Duration
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
}

// NewIdempotencyCleanupJob constructs the job.
func NewIdempotencyCleanupJob(store *shared.IdempotencyStore, retention time.Duration, logger *slog.Logger) *IdempotencyCleanupJob {
	return &IdempotencyCleanupJob{store: store, retention: retention, logger: logger}
}

// WithMetrics attaches job instrumentation. Safe to skip in tests.
func (j *IdempotencyCleanupJob) WithMetrics(m *jobmetrics.Metrics) *IdempotencyCleanupJob {
	j.metrics = m
	return j
}

// Handle processes TaskIdempotencyCleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	tracker := j.metrics.Track(TaskIdempotencyCleanup)
	if err := tracker.End(j.store.Cleanup(ctx, j.retention)); err != nil {
		return err
	}
	j.logger.Info("idempotency keys pruned", slog.Duration("retention", j.retention))
	return nil
}
