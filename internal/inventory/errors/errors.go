package errors

import "errors"

var (
	ErrItemNotFound = errors.New("inventory item not found")

	ErrStockNotFound = errors.New("item not found in warehouse")

	// ErrInsufficientStock is returned by a conditional decrement that lost
	// the race against a concurrent deduction.
	ErrInsufficientStock = errors.New("insufficient warehouse stock")

	ErrInvalidQuantity = errors.New("quantity must be positive")
)
