package reviews

import "errors"

var (
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrOrderNotOwned     = errors.New("order not found or not yours")
	ErrOrderNotDelivered = errors.New("can only review delivered orders")
	ErrProductNotInOrder = errors.New("product not in order")
)
