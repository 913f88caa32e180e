package sku

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu     sync.Mutex
	items  map[string]SKU
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[string]SKU)}
}

func (r *memoryRepo) Create(ctx context.Context, item SKU) (SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.Code]; ok {
		return SKU{}, ErrDuplicateCode
	}
	r.nextID++
	item.ID = r.nextID
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.Code] = item
	return item, nil
}

func (r *memoryRepo) Get(ctx context.Context, code string) (SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[code]
	if !ok {
		return SKU{}, ErrNotFound
	}
	return item, nil
}

func (r *memoryRepo) List(ctx context.Context, filters ListFilters) ([]SKU, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []SKU
	for _, item := range r.items {
		if filters.ActiveOnly && !item.IsActive {
			continue
		}
		if filters.Search != "" &&
			!strings.Contains(strings.ToLower(item.Code), strings.ToLower(filters.Search)) &&
			!strings.Contains(strings.ToLower(item.Description), strings.ToLower(filters.Search)) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	total := len(items)
	if filters.Limit > 0 {
		offset := (filters.Page - 1) * filters.Limit
		if offset > total {
			offset = total
		}
		end := offset + filters.Limit
		if end > total {
			end = total
		}
		items = items[offset:end]
	}
	return items, total, nil
}

func (r *memoryRepo) UpdateFields(ctx context.Context, code string, patch FieldPatch) (SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[code]
	if !ok {
		return SKU{}, ErrNotFound
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.ReorderPoint != nil {
		item.ReorderPoint = *patch.ReorderPoint
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.IsActive != nil {
		item.IsActive = *patch.IsActive
	}
	item.UpdatedAt = time.Now().UTC()
	r.items[code] = item
	return item, nil
}

func (r *memoryRepo) AdjustQuantity(ctx context.Context, code string, delta int64) (SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[code]
	if !ok || !item.IsActive {
		return SKU{}, ErrNotFound
	}
	newQty := item.Quantity + delta
	if newQty < 0 {
		return SKU{}, ErrInsufficientStock
	}
	item.Quantity = newQty
	r.items[code] = item
	return item, nil
}

func (r *memoryRepo) LowStock(ctx context.Context) ([]SKU, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []SKU
	for _, item := range r.items {
		if item.LowStock() {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Code < items[j].Code })
	return items, nil
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	cases := []struct {
		name string
		item SKU
	}{
		{"empty code", SKU{Code: "   "}},
		{"negative quantity", SKU{Code: "A-1", Quantity: -1}},
		{"negative reorder point", SKU{Code: "A-1", ReorderPoint: -1}},
		{"negative price", SKU{Code: "A-1", Price: decimal.NewFromInt(-5)}},
		{"code too long", SKU{Code: strings.Repeat("X", 51)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.item)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateDuplicateCodeLeavesOriginal(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, SKU{Code: "A-100", Description: "original", Quantity: 10})
	require.NoError(t, err)

	_, err = svc.Create(ctx, SKU{Code: "A-100", Description: "impostor"})
	require.ErrorIs(t, err, ErrDuplicateCode)

	got, err := svc.Get(ctx, "A-100")
	require.NoError(t, err)
	require.Equal(t, "original", got.Description)
	require.EqualValues(t, 10, got.Quantity)
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Get(context.Background(), "MISSING")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateFields(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, SKU{Code: "A-100", Description: "widget", Quantity: 7, ReorderPoint: 2, Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)

	desc := "blue widget"
	reorder := int64(5)
	price := decimal.RequireFromString("21.50")
	updated, err := svc.UpdateFields(ctx, "A-100", FieldPatch{Description: &desc, ReorderPoint: &reorder, Price: &price})
	require.NoError(t, err)
	require.Equal(t, "blue widget", updated.Description)
	require.EqualValues(t, 5, updated.ReorderPoint)
	require.True(t, updated.Price.Equal(price))
	// Quantity is never touched by a field patch.
	require.Equal(t, created.Quantity, updated.Quantity)
}

func TestUpdateFieldsValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, SKU{Code: "A-100"})
	require.NoError(t, err)

	bad := int64(-1)
	_, err = svc.UpdateFields(ctx, "A-100", FieldPatch{ReorderPoint: &bad})
	require.ErrorIs(t, err, ErrValidation)

	negPrice := decimal.NewFromInt(-1)
	_, err = svc.UpdateFields(ctx, "A-100", FieldPatch{Price: &negPrice})
	require.ErrorIs(t, err, ErrValidation)
}

func TestEmptyPatchReturnsCurrentState(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, SKU{Code: "A-100", Description: "widget"})
	require.NoError(t, err)

	got, err := svc.UpdateFields(ctx, "A-100", FieldPatch{})
	require.NoError(t, err)
	require.Equal(t, created.Description, got.Description)
}

func TestDeactivate(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, SKU{Code: "A-100", Quantity: 1, ReorderPoint: 5})
	require.NoError(t, err)

	retired, err := svc.Deactivate(ctx, "A-100")
	require.NoError(t, err)
	require.False(t, retired.IsActive)

	// Still readable after retirement.
	got, err := svc.Get(ctx, "A-100")
	require.NoError(t, err)
	require.False(t, got.IsActive)

	// But gone from low-stock reporting.
	low, err := repo.LowStock(ctx)
	require.NoError(t, err)
	require.Empty(t, low)
}

func TestListFilters(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	for _, item := range []SKU{
		{Code: "A-100", Description: "blue widget"},
		{Code: "B-200", Description: "red gadget"},
		{Code: "C-300", Description: "green widget"},
	} {
		_, err := svc.Create(ctx, item)
		require.NoError(t, err)
	}
	_, err := svc.Deactivate(ctx, "B-200")
	require.NoError(t, err)

	items, total, err := svc.List(ctx, ListFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, items, 2)
	require.Equal(t, "A-100", items[0].Code)
	require.Equal(t, "C-300", items[1].Code)

	items, total, err = svc.List(ctx, ListFilters{Search: "widget"})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, items, 2)

	items, total, err = svc.List(ctx, ListFilters{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, items, 1)
	require.Equal(t, "C-300", items[0].Code)
}
