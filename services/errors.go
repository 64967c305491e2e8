package services

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("order changed concurrently")
)
