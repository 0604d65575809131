package store

import "errors"

var (
	// ErrNotFound is returned when an item doesn't exist or has no attributes left.
	ErrNotFound = errors.New("sdbmap: item not found")

	// ErrConditionFailed is returned when a conditional swap finds an unexpected value.
	ErrConditionFailed = errors.New("sdbmap: attribute condition failed")
)
