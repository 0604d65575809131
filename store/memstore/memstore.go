// Package memstore is an in-memory store.Domain. It evaluates the full query
// grammar of package sdbql and is safe for concurrent use, which makes it a
// drop-in domain for tests and local tooling.
package memstore

import (
	"context"
	"errors"
	"iter"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/jacentio/sdbmap/sdbql"
	"github.com/jacentio/sdbmap/store"
)

// Domain holds items in a concurrent map keyed by item name. Attribute
// values are kept sorted and distinct.
type Domain struct {
	items *xsync.MapOf[string, store.Attributes]
}

var (
	_ store.Domain  = (*Domain)(nil)
	_ store.Swapper = (*Domain)(nil)
)

// New returns an empty domain.
func New() *Domain {
	return &Domain{items: xsync.NewMapOf[string, store.Attributes]()}
}

// Len returns the number of items.
func (d *Domain) Len() int {
	return d.items.Size()
}

// PutAttributes adds values to the item, creating it if needed. Values
// already present are kept once.
func (d *Domain) PutAttributes(ctx context.Context, item string, attrs store.Attributes) error {
	if err := check(ctx, item); err != nil {
		return err
	}
	d.items.Compute(item, func(old store.Attributes, loaded bool) (store.Attributes, bool) {
		next := old.Clone()
		if next == nil {
			next = store.Attributes{}
		}
		for name, values := range attrs {
			if len(values) == 0 {
				continue
			}
			merged := append(next[name], values...)
			slices.Sort(merged)
			next[name] = slices.Compact(merged)
		}
		return next, len(next) == 0
	})
	return nil
}

// DeleteAttributes removes name/value pairs from the item; a nil attrs
// deletes the whole item. An item left without attributes is removed.
func (d *Domain) DeleteAttributes(ctx context.Context, item string, attrs store.Attributes) error {
	if err := check(ctx, item); err != nil {
		return err
	}
	if attrs == nil {
		d.items.Delete(item)
		return nil
	}
	d.items.Compute(item, func(old store.Attributes, loaded bool) (store.Attributes, bool) {
		if !loaded {
			return nil, true
		}
		next := old.Clone()
		for name, values := range attrs {
			if len(values) == 0 {
				delete(next, name)
				continue
			}
			kept := slices.DeleteFunc(next[name], func(v string) bool {
				return slices.Contains(values, v)
			})
			if len(kept) == 0 {
				delete(next, name)
			} else {
				next[name] = kept
			}
		}
		return next, len(next) == 0
	})
	return nil
}

// GetAttributes returns a copy of the item's attributes, or
// store.ErrNotFound.
func (d *Domain) GetAttributes(ctx context.Context, item string) (store.Attributes, error) {
	if err := check(ctx, item); err != nil {
		return nil, err
	}
	attrs, ok := d.items.Load(item)
	if !ok {
		return nil, store.ErrNotFound
	}
	return attrs.Clone(), nil
}

// Query evaluates expr against a snapshot of the item names, in ascending
// name order.
func (d *Domain) Query(ctx context.Context, expr string, loadAttrs bool) iter.Seq2[store.Item, error] {
	return func(yield func(store.Item, error) bool) {
		parsed, err := sdbql.Parse(expr)
		if err != nil {
			yield(store.Item{}, err)
			return
		}

		var names []string
		d.items.Range(func(name string, _ store.Attributes) bool {
			names = append(names, name)
			return true
		})
		slices.Sort(names)

		for _, name := range names {
			if err := ctx.Err(); err != nil {
				yield(store.Item{}, err)
				return
			}
			attrs, ok := d.items.Load(name)
			if !ok || !parsed.Match(attrs) {
				continue
			}
			it := store.Item{Name: name}
			if loadAttrs {
				it.Attributes = attrs.Clone()
			}
			if !yield(it, nil) {
				return
			}
		}
	}
}

// SwapAttribute atomically replaces the value of name when the item exists
// and holds old (or lacks the attribute, for an empty old). Otherwise it
// returns store.ErrConditionFailed.
func (d *Domain) SwapAttribute(ctx context.Context, item, name, old, new string) error {
	if err := check(ctx, item); err != nil {
		return err
	}
	swapped := false
	d.items.Compute(item, func(cur store.Attributes, loaded bool) (store.Attributes, bool) {
		if !loaded {
			return nil, true
		}
		values := cur[name]
		if old == "" && len(values) > 0 || old != "" && !slices.Contains(values, old) {
			return cur, false
		}
		next := cur.Clone()
		next[name] = []string{new}
		swapped = true
		return next, false
	})
	if !swapped {
		return store.ErrConditionFailed
	}
	return nil
}

func check(ctx context.Context, item string) error {
	if item == "" {
		return errors.New("sdbmap: empty item name")
	}
	return ctx.Err()
}
