package sku

import "github.com/shopspring/decimal"

// CreateSKUInput is the request body for creating a SKU.
type CreateSKUInput struct {
	Code         string          `json:"code" validate:"required,max=50"`
	Description  string          `json:"description" validate:"max=255"`
	Quantity     int64           `json:"quantity" validate:"gte=0"`
	ReorderPoint int64           `json:"reorder_point" validate:"gte=0"`
	Price        decimal.Decimal `json:"price"`
}

// UpdateSKUInput is the request body for a partial SKU update. Quantity is
// not patchable; adjustments go through the ledger endpoint.
type UpdateSKUInput struct {
	Description  *string          `json:"description" validate:"omitempty,max=255"`
	ReorderPoint *int64           `json:"reorder_point" validate:"omitempty,gte=0"`
	Price        *decimal.Decimal `json:"price"`
	IsActive     *bool            `json:"is_active"`
}

func (in CreateSKUInput) toSKU() SKU {
	return SKU{
		Code:         in.Code,
		Description:  in.Description,
		Quantity:     in.Quantity,
		ReorderPoint: in.ReorderPoint,
		Price:        in.Price,
	}
}

func (in UpdateSKUInput) toPatch() FieldPatch {
	return FieldPatch{
		Description:  in.Description,
		ReorderPoint: in.ReorderPoint,
		Price:        in.Price,
		IsActive:     in.IsActive,
	}
}

// ListResponse wraps a SKU page with pagination metadata.
type ListResponse struct {
	Items []SKU `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int   `json:"total"`
}
