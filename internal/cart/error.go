package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")

	// -- Resource State --
	ErrItemNotFound  = errors.New("cart item not found")
	ErrOutOfStock    = errors.New("product out of stock")
	ErrStockExceeded = errors.New("requested quantity exceeds stock")
)
