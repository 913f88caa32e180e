package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/stocklight/stocklight/internal/alerts"
	"github.com/stocklight/stocklight/internal/sku"
)

type stubLedger struct {
	items []sku.SKU
	err   error
}

func (s *stubLedger) LowStock(ctx context.Context) ([]sku.SKU, error) {
	return s.items, s.err
}

type recordingAlerts struct {
	sent []alerts.LowStockAlert
	err  error
}

func (r *recordingAlerts) PublishLowStock(ctx context.Context, alert alerts.LowStockAlert) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, alert)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReorderScanPublishesAlerts(t *testing.T) {
	ledger := &stubLedger{items: []sku.SKU{
		{Code: "A-100", Description: "widget", Quantity: 2, ReorderPoint: 5, IsActive: true},
		{Code: "B-200", Description: "gadget", Quantity: 0, ReorderPoint: 1, IsActive: true},
	}}
	sink := &recordingAlerts{}
	job := NewReorderScanJob(ledger, sink, discardLogger())

	task, err := NewReorderScanTask("test")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	require.Len(t, sink.sent, 2)
	require.Equal(t, "A-100", sink.sent[0].Code)
	require.EqualValues(t, 2, sink.sent[0].Quantity)
	require.Equal(t, "B-200", sink.sent[1].Code)
}

func TestReorderScanPropagatesLedgerError(t *testing.T) {
	wantErr := errors.New("db down")
	job := NewReorderScanJob(&stubLedger{err: wantErr}, &recordingAlerts{}, discardLogger())

	task, err := NewReorderScanTask("test")
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), wantErr)
}

func TestReorderScanPropagatesPublishError(t *testing.T) {
	ledger := &stubLedger{items: []sku.SKU{{Code: "A-100", Quantity: 0, ReorderPoint: 1, IsActive: true}}}
	wantErr := errors.New("redis down")
	job := NewReorderScanJob(ledger, &recordingAlerts{err: wantErr}, discardLogger())

	task, err := NewReorderScanTask("test")
	require.NoError(t, err)
	require.ErrorIs(t, job.Handle(context.Background(), task), wantErr)
}

func TestReorderScanSkipsRetryOnBadPayload(t *testing.T) {
	job := NewReorderScanJob(&stubLedger{}, &recordingAlerts{}, discardLogger())

	task := asynq.NewTask(TaskReorderScan, []byte("{not json"))
	require.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}

func TestReorderScanWithoutAlertSink(t *testing.T) {
	ledger := &stubLedger{items: []sku.SKU{{Code: "A-100", Quantity: 0, ReorderPoint: 1, IsActive: true}}}
	job := NewReorderScanJob(ledger, nil, discardLogger())

	task, err := NewReorderScanTask("test")
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}
