package checkout

import "errors"

var (
	ErrEmptyOrder         = errors.New("no items in order")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductUnavailable = errors.New("product not available")
)
