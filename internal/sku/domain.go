package sku

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// SKU is a uniquely coded inventory item. Quantity is only ever mutated
// through the adjustment primitive; direct writes bypass the per-row
// serialization and are not exposed.
type SKU struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Quantity     int64           `json:"quantity"`
	ReorderPoint int64           `json:"reorder_point"`
	Price        decimal.Decimal `json:"price"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// LowStock reports whether the SKU sits at or below its reorder point.
func (s SKU) LowStock() bool {
	return s.IsActive && s.Quantity <= s.ReorderPoint
}

// FieldPatch describes a partial update of SKU master data. Nil fields are
// left untouched. Quantity is deliberately absent.
type FieldPatch struct {
	Description  *string
	ReorderPoint *int64
	Price        *decimal.Decimal
	IsActive     *bool
}

// Empty reports whether the patch changes nothing.
func (p FieldPatch) Empty() bool {
	return p.Description == nil && p.ReorderPoint == nil && p.Price == nil && p.IsActive == nil
}

// ListFilters represents list query filters.
type ListFilters struct {
	Page       int
	Limit      int
	Search     string
	ActiveOnly bool
}

var (
	// ErrNotFound indicates an unknown SKU code, or an inactive SKU
	// referenced for quantity adjustment.
	ErrNotFound = errors.New("sku: not found")
	// ErrDuplicateCode indicates a create with an already used code.
	ErrDuplicateCode = errors.New("sku: duplicate code")
	// ErrValidation wraps malformed or out-of-range input.
	ErrValidation = errors.New("sku: validation failed")
	// ErrInsufficientStock indicates an adjustment that would drive the
	// quantity negative.
	ErrInsufficientStock = errors.New("sku: insufficient stock")
	// ErrPreconditionFailed indicates a conflicting concurrent writer was
	// detected. The caller may retry the same operation.
	ErrPreconditionFailed = errors.New("sku: concurrent update conflict")
)
