package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientStock is returned by a conditional stock decrement that matched no row.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStaleStatus means the order status changed between read and write.
	ErrStaleStatus = errors.New("order status changed concurrently")
)
