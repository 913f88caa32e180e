package sku

import (
	"context"
	"strings"
)

// Service owns SKU master data: creation, reads, and field edits. Quantity
// mutation is not exposed here; it belongs to the ledger.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new SKU after validating its fields.
func (s *Service) Create(ctx context.Context, item SKU) (SKU, error) {
	item.Code = strings.TrimSpace(item.Code)
	if err := validateNew(item); err != nil {
		return SKU{}, err
	}
	item.IsActive = true
	return s.repo.Create(ctx, item)
}

// Get returns the SKU for a code, active or not.
func (s *Service) Get(ctx context.Context, code string) (SKU, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return SKU{}, errCodeRequired
	}
	return s.repo.Get(ctx, code)
}

// List returns SKUs matching the filters plus the unpaged total.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]SKU, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	return s.repo.List(ctx, filters)
}

// UpdateFields applies a partial update of master data fields.
func (s *Service) UpdateFields(ctx context.Context, code string, patch FieldPatch) (SKU, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return SKU{}, errCodeRequired
	}
	if err := validatePatch(patch); err != nil {
		return SKU{}, err
	}
	if patch.Empty() {
		return s.repo.Get(ctx, code)
	}
	return s.repo.UpdateFields(ctx, code, patch)
}

// Deactivate retires a SKU. The record stays in place so external references
// to the code remain valid; it only drops out of low-stock reporting and
// stops accepting adjustments.
func (s *Service) Deactivate(ctx context.Context, code string) (SKU, error) {
	inactive := false
	return s.UpdateFields(ctx, code, FieldPatch{IsActive: &inactive})
}
