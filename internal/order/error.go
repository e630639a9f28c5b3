package order

import (
	"errors"
	"fmt"

	"paniervert-be/internal/utils"
)

var (
	// -- Authorization --
	ErrForbidden = errors.New("not allowed to act on this order")

	// -- Validation & Input --
	ErrEmptyCart = errors.New("cart is empty")

	// -- Resource State --
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOutOfStock        = errors.New("product no longer in stock")
	ErrRefundFailed      = errors.New("refund failed, order not cancelled")
)

// PriceChange describes one cart line whose catalog price moved between
// add time and checkout.
type PriceChange struct {
	ProductID uint  `json:"product_id"`
	OldPrice  int64 `json:"old_price"`
	NewPrice  int64 `json:"new_price"`
}

// PriceChangedError aborts checkout and carries the updated prices so
// the caller can re-confirm instead of being silently charged a
// different amount.
type PriceChangedError struct {
	Changes []PriceChange
}

func (e *PriceChangedError) Error() string {
	if len(e.Changes) == 1 {
		c := e.Changes[0]
		return fmt.Sprintf("price changed for product %d: %s -> %s",
			c.ProductID, utils.FormatCents(c.OldPrice), utils.FormatCents(c.NewPrice))
	}
	return fmt.Sprintf("prices changed for %d products", len(e.Changes))
}
