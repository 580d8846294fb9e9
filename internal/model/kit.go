package model

import (
	"errors"
	"fmt"
	"strings"
)

// Kit errors.
var (
	ErrEmptyKit          = errors.New("kit must contain at least one product")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrDuplicateKitItem  = errors.New("kit contains the same product twice")
	ErrUnknownKitProduct = errors.New("kit references an unknown product")
)

// Kit is a named bundle of products that is manufactured together.
type Kit struct {
	Code        string    `json:"code" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Items       []KitItem `json:"items,omitempty"`
}

// KitItem is one line of a kit: a product and how many of it each
// finished unit needs.
type KitItem struct {
	ProductCode string `json:"product_code" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

// Validate checks the kit header and its items. Duplicate product lines
// are rejected; callers should merge quantities instead.
func (k *Kit) Validate() error {
	if strings.TrimSpace(k.Code) == "" {
		return ErrEmptyCode
	}
	if strings.TrimSpace(k.Description) == "" {
		return ErrEmptyDescription
	}
	if len(k.Items) == 0 {
		return ErrEmptyKit
	}
	seen := make(map[string]bool, len(k.Items))
	for _, item := range k.Items {
		if strings.TrimSpace(item.ProductCode) == "" {
			return ErrEmptyCode
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: %s has quantity %d", ErrInvalidQuantity, item.ProductCode, item.Quantity)
		}
		if seen[item.ProductCode] {
			return fmt.Errorf("%w: %s", ErrDuplicateKitItem, item.ProductCode)
		}
		seen[item.ProductCode] = true
	}
	return nil
}

// AddItem appends a product line, merging the quantity if the product is
// already present.
func (k *Kit) AddItem(productCode string, quantity int) {
	for i := range k.Items {
		if k.Items[i].ProductCode == productCode {
			k.Items[i].Quantity += quantity
			return
		}
	}
	k.Items = append(k.Items, KitItem{ProductCode: productCode, Quantity: quantity})
}
