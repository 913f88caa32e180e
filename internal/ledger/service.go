package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stocklight/stocklight/internal/sku"
)

// StorePort abstracts the SKU store primitives the ledger is built on.
// AdjustQuantity is the single serialization point for quantity changes;
// LowStock is a single consistent snapshot read.
type StorePort interface {
	AdjustQuantity(ctx context.Context, code string, delta int64) (sku.SKU, error)
	LowStock(ctx context.Context) ([]sku.SKU, error)
}

// Service coordinates atomic quantity changes and low-stock classification.
type Service struct {
	store StorePort
}

// NewService builds Service.
func NewService(store StorePort) *Service {
	return &Service{store: store}
}

// maxAdjustAttempts bounds internal retries of a conflicted adjustment.
const maxAdjustAttempts = 3

// AdjustQuantity applies delta to the SKU's quantity as one indivisible
// read-compute-write against the store. Delta may be positive (restock) or
// negative (consumption); zero is a no-op that still returns current state.
// Concurrent-writer conflicts are retried a bounded number of times before
// surfacing; all other failures propagate immediately with nothing applied.
func (s *Service) AdjustQuantity(ctx context.Context, code string, delta int64) (sku.SKU, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return sku.SKU{}, fmt.Errorf("%w: sku code is required", sku.ErrValidation)
	}

	var item sku.SKU
	var err error
	for attempt := 1; attempt <= maxAdjustAttempts; attempt++ {
		item, err = s.store.AdjustQuantity(ctx, code, delta)
		if !errors.Is(err, sku.ErrPreconditionFailed) {
			break
		}
		if ctx.Err() != nil {
			return sku.SKU{}, ctx.Err()
		}
	}
	if err != nil {
		return sku.SKU{}, err
	}
	return item, nil
}

// LowStock returns every active SKU at or below its reorder point, evaluated
// against a single snapshot of the store.
func (s *Service) LowStock(ctx context.Context) ([]sku.SKU, error) {
	return s.store.LowStock(ctx)
}
