package mapper

import (
	"errors"
	"iter"
)

// LoadFunc receives one decoded field list, in query projection order.
type LoadFunc func(values []any) error

// FillFunc populates a collection by calling load once per matching item.
type FillFunc func(load LoadFunc) error

var errStopped = errors.New("sdbmap: iteration stopped")

// Collection is a lazily populated result set.
//
// The fill function runs the first time the collection is iterated. Records
// are yielded as they are loaded, so a store's paged result set is consumed
// only as far as the caller reads. A fully consumed collection caches its
// records; an iteration stopped early leaves it unloaded.
type Collection struct {
	query   *Query
	fill    FillFunc
	records []*Record
	err     error
	loaded  bool
}

// NewCollection creates a collection for q that is populated by fill.
func NewCollection(q *Query, fill FillFunc) *Collection {
	return &Collection{query: q, fill: fill}
}

// Query returns the query the collection answers.
func (c *Collection) Query() *Query { return c.query }

// Loaded reports whether the collection has been fully populated.
func (c *Collection) Loaded() bool { return c.loaded }

// All iterates the collection, populating it on first use.
func (c *Collection) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		if c.loaded {
			for _, r := range c.records {
				if !yield(r, nil) {
					return
				}
			}
			if c.err != nil {
				yield(nil, c.err)
			}
			return
		}

		var (
			records []*Record
			stopped bool
			fields  = c.query.Projection()
		)
		err := c.fill(func(values []any) error {
			r, err := Load(c.query.Model, fields, values)
			if err != nil {
				return err
			}
			records = append(records, r)
			if !yield(r, nil) {
				stopped = true
				return errStopped
			}
			return nil
		})
		if stopped {
			return
		}

		c.records, c.err, c.loaded = records, err, true
		if err != nil {
			yield(nil, err)
		}
	}
}

// Records populates the collection if needed and returns every record.
func (c *Collection) Records() ([]*Record, error) {
	for _, err := range c.All() {
		if err != nil {
			return nil, err
		}
	}
	return c.records, nil
}

// First returns the first record, or nil when the collection is empty.
func (c *Collection) First() (*Record, error) {
	for r, err := range c.All() {
		return r, err
	}
	return nil, nil
}
