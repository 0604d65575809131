package mapper

import (
	"fmt"
	"maps"
)

// Resource is a mapper-owned object holding the in-memory values of one record.
type Resource interface {
	// Model returns the resource type.
	Model() *Model

	// Attributes returns the current property values keyed by property name.
	Attributes() map[string]any
}

// Record is the generic Resource the adapter builds on read.
type Record struct {
	model  *Model
	values map[string]any
}

var _ Resource = (*Record)(nil)

// NewRecord creates a record of model holding values keyed by property name.
func NewRecord(model *Model, values map[string]any) *Record {
	r := &Record{model: model, values: make(map[string]any, len(values))}
	maps.Copy(r.values, values)
	return r
}

// Load builds a record from a decoded field list. values[i] belongs to fields[i].
func Load(model *Model, fields []Property, values []any) (*Record, error) {
	if len(fields) != len(values) {
		return nil, fmt.Errorf("sdbmap: load %s: %d fields, %d values", model.Name, len(fields), len(values))
	}
	r := &Record{model: model, values: make(map[string]any, len(fields))}
	for i, p := range fields {
		r.values[p.Name] = values[i]
	}
	return r, nil
}

// Model returns the record's model.
func (r *Record) Model() *Model { return r.model }

// Attributes returns a copy of the record's values.
func (r *Record) Attributes() map[string]any {
	return maps.Clone(r.values)
}

// Get returns the value of a property and whether it was loaded.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Set assigns a property value.
func (r *Record) Set(name string, value any) {
	r.values[name] = value
}

// Key returns the record's key values keyed by property name.
func (r *Record) Key() map[string]any {
	key := make(map[string]any)
	for _, p := range r.model.Keys() {
		key[p.Name] = r.values[p.Name]
	}
	return key
}
