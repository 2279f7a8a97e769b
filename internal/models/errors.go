package models

import "errors"

var (
	ErrNoRecord           = errors.New("no matching record found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateReview    = errors.New("product already reviewed for this order")
	ErrInsufficientStock  = errors.New("insufficient stock")
)
