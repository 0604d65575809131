package adapter

import (
	"errors"

	"github.com/jacentio/sdbmap/mapper"
	"github.com/jacentio/sdbmap/store"
)

var (
	// ErrNotFound is returned when the addressed item doesn't exist.
	ErrNotFound = store.ErrNotFound

	// ErrUnsupportedOperation is returned when a query or change cannot be
	// carried out against the store, such as a delete by range condition.
	ErrUnsupportedOperation = errors.New("sdbmap: unsupported operation")

	// ErrIncompleteKey is returned when a single-item query doesn't name
	// every key property exactly once.
	ErrIncompleteKey = errors.New("sdbmap: query does not address a single item")

	// ErrConcurrentModification is returned when the version attribute changed
	// between read and write.
	ErrConcurrentModification = errors.New("sdbmap: item was modified concurrently")

	// ErrUnknownProperty is returned for values keyed by a name the model
	// doesn't declare.
	ErrUnknownProperty = mapper.ErrUnknownProperty
)
