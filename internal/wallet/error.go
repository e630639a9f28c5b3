package wallet

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidAmount = errors.New("amount must be positive")

	// -- Resource State --
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)
