package sku

import "fmt"

const (
	maxCodeLen        = 50
	maxDescriptionLen = 255
)

var (
	errCodeRequired = fmt.Errorf("%w: sku code is required", ErrValidation)
)

func validateNew(item SKU) error {
	if item.Code == "" {
		return errCodeRequired
	}
	if len(item.Code) > maxCodeLen {
		return fmt.Errorf("%w: sku code exceeds %d characters", ErrValidation, maxCodeLen)
	}
	if len(item.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, maxDescriptionLen)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("%w: initial quantity must be >= 0", ErrValidation)
	}
	if item.ReorderPoint < 0 {
		return fmt.Errorf("%w: reorder point must be >= 0", ErrValidation)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}

func validatePatch(patch FieldPatch) error {
	if patch.Description != nil && len(*patch.Description) > maxDescriptionLen {
		return fmt.Errorf("%w: description exceeds %d characters", ErrValidation, maxDescriptionLen)
	}
	if patch.ReorderPoint != nil && *patch.ReorderPoint < 0 {
		return fmt.Errorf("%w: reorder point must be >= 0", ErrValidation)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	return nil
}
