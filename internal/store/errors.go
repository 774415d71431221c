package store

import "errors"

// Sentinel errors returned by the store layer. Handlers map these onto HTTP
// status codes.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveAccount    = errors.New("account is deactivated")
	ErrDuplicateReview    = errors.New("product already reviewed")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrEmptyOrder         = errors.New("no order items")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrForbidden          = errors.New("not authorized")
	ErrCategoryCycle      = errors.New("category parent chain contains a cycle")
	ErrParentNotFound     = errors.New("parent category not found")
)
