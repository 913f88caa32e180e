package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReorderScan walks active SKUs and raises alerts for those at or
	// below their reorder point.
	TaskReorderScan = "reorder:scan"
	// TaskIdempotencyCleanup prunes expired idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

// ReorderScanPayload parameterises a reorder scan run.
type ReorderScanPayload struct {
	// Reason records what triggered the scan, for log correlation.
	Reason string `json:"reason"`
}

// NewReorderScanTask constructs an Asynq task for a reorder scan.
func NewReorderScanTask(reason string) (*asynq.Task, error) {
	data, err := json.Marshal(ReorderScanPayload{Reason: reason})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReorderScan, data), nil
}

// NewIdempotencyCleanupTask constructs an Asynq task for key pruning.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskIdempotencyCleanup, nil)
}
