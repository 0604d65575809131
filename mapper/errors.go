package mapper

import "errors"

var (
	// ErrTypecast is returned when a stored string cannot be converted to a property's kind.
	ErrTypecast = errors.New("sdbmap: cannot typecast stored value")

	// ErrUnknownProperty is returned when a property name is not part of a model.
	ErrUnknownProperty = errors.New("sdbmap: unknown property")
)
