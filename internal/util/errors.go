package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientItems = errors.New("insufficient items")
	ErrNoData            = errors.New("no data")
	ErrAuthFailure       = errors.New("authentication failed")
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrStore             = errors.New("store failure")

	// 以下错误归属于上面的大类
	ErrInvalidEnum     = fmt.Errorf("%w: invalid enum value", ErrValidation)
	ErrUnknownCategory = fmt.Errorf("%w: unknown category", ErrNotFound)
	ErrItemNotFound    = fmt.Errorf("%w: item", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("%w: user", ErrNotFound)
	ErrAdminNotFound   = fmt.Errorf("%w: admin", ErrNotFound)
	ErrRatingNotFound  = fmt.Errorf("%w: rating", ErrNotFound)
)

// StoreError 同时包装 ErrStore 与底层驱动错误
func StoreError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
