package store

import (
	"context"
	"iter"
	"maps"
	"slices"
)

// Attributes is a store item's attribute set. Every attribute may hold
// several string values.
type Attributes map[string][]string

// Clone returns a deep copy of a.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	return out
}

// Names returns the attribute names in ascending order.
func (a Attributes) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Item is a named item returned by a query.
type Item struct {
	Name       string
	Attributes Attributes
}

// Domain is the store client the adapter talks to. Implementations must be
// safe to call from one goroutine at a time; Store and memstore are safe for
// concurrent use.
type Domain interface {
	// PutAttributes adds values to an item, creating it if needed. Existing
	// values are kept.
	PutAttributes(ctx context.Context, item string, attrs Attributes) error

	// DeleteAttributes removes the given name/value pairs from an item. A nil
	// attrs removes the whole item; an attribute with no values is removed
	// entirely.
	DeleteAttributes(ctx context.Context, item string, attrs Attributes) error

	// GetAttributes returns every attribute of an item, or ErrNotFound.
	GetAttributes(ctx context.Context, item string) (Attributes, error)

	// Query returns the items matching a query expression. Attributes are
	// only populated when loadAttrs is set.
	Query(ctx context.Context, expr string, loadAttrs bool) iter.Seq2[Item, error]
}

// Swapper is implemented by domains that can conditionally replace a
// single-valued attribute.
type Swapper interface {
	// SwapAttribute sets name to new if its current value is old. An empty
	// old requires the attribute to be absent. A mismatch returns
	// ErrConditionFailed.
	SwapAttribute(ctx context.Context, item, name, old, new string) error
}
