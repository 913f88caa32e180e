package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stocklight/stocklight/internal/alerts"
	jobmetrics "github.com/stocklight/stocklight/internal/jobs"
	"github.com/stocklight/stocklight/internal/sku"
)

// LedgerPort is the slice of the ledger the scan needs.
type LedgerPort interface {
	LowStock(ctx context.Context) ([]sku.SKU, error)
}

// AlertPort publishes low-stock notifications.
type AlertPort interface {
	PublishLowStock(ctx context.Context, alert alerts.LowStockAlert) error
}

// ReorderScanJob periodically reports SKUs that need restocking. The scan is
// advisory: the low-stock API endpoint always queries live state, so a
// missed or delayed scan never makes the API stale.
type ReorderScanJob struct {
	ledger  LedgerPort
	alerts  AlertPort
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewReorderScanJob constructs the job.
func NewReorderScanJob(ledger LedgerPort, alertSink AlertPort, logger *slog.Logger) *ReorderScanJob {
	return &ReorderScanJob{ledger: ledger, alerts: alertSink, logger: logger}
}

// WithMetrics attaches job instrumentation. Safe to skip in tests.
func (j *ReorderScanJob) WithMetrics(m *jobmetrics.Metrics) *ReorderScanJob {
	j.metrics = m
	return j
}

// Handle processes TaskReorderScan tasks.
func (j *ReorderScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ReorderScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	tracker := j.metrics.Track(TaskReorderScan)
	return tracker.End(j.scan(ctx, payload))
}

func (j *ReorderScanJob) scan(ctx context.Context, payload ReorderScanPayload) error {
	items, err := j.ledger.LowStock(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, item := range items {
		j.logger.Warn("sku below reorder point",
			slog.String("code", item.Code),
			slog.Int64("quantity", item.Quantity),
			slog.Int64("reorder_point", item.ReorderPoint))
		if j.alerts == nil {
			continue
		}
		alert := alerts.LowStockAlert{
			Code:         item.Code,
			Description:  item.Description,
			Quantity:     item.Quantity,
			ReorderPoint: item.ReorderPoint,
			ObservedAt:   now,
		}
		if err := j.alerts.PublishLowStock(ctx, alert); err != nil {
			return err
		}
	}

	j.metrics.AddLowStock(len(items))
	j.logger.Info("reorder scan finished",
		slog.String("reason", payload.Reason),
		slog.Int("low_stock_count", len(items)))
	return nil
}
