package mapper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind is the Go type a property's stored strings are converted to.
type Kind int

const (
	KindString  Kind = iota // string
	KindInteger             // int64
	KindFloat               // float64
	KindBoolean             // bool
	KindDate                // time.Time, calendar date only
	KindTime                // time.Time, RFC 3339
)

// DateLayout is the stored form of KindDate values.
const DateLayout = "2006-01-02"

var kindNames = map[Kind]string{
	KindString:  "string",
	KindInteger: "integer",
	KindFloat:   "float",
	KindBoolean: "boolean",
	KindDate:    "date",
	KindTime:    "time",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Property describes one attribute of a model.
type Property struct {
	// Name is the mapper-facing property name.
	Name string

	// Field is the store attribute name. Empty means Name.
	Field string

	// Kind selects the typecast applied on read.
	Kind Kind

	// Key marks the property as part of the item identity.
	Key bool
}

// FieldName returns the store attribute name for the property.
func (p Property) FieldName() string {
	if p.Field != "" {
		return p.Field
	}
	return p.Name
}

// Typecast converts a single stored string into the property's Go type.
func (p Property) Typecast(raw string) (any, error) {
	switch p.Kind {
	case KindString:
		return raw, nil
	case KindInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, p.typecastError(raw, err)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, p.typecastError(raw, err)
		}
		return f, nil
	case KindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, p.typecastError(raw, err)
		}
		return b, nil
	case KindDate:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			// Dates written as full timestamps are truncated to the day.
			if ts, terr := time.Parse(time.RFC3339Nano, raw); terr == nil {
				y, m, d := ts.Date()
				return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
			}
			return nil, p.typecastError(raw, err)
		}
		return t, nil
	case KindTime:
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, p.typecastError(raw, err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: property %q has unsupported kind %s", ErrTypecast, p.Name, p.Kind)
	}
}

func (p Property) typecastError(raw string, err error) error {
	return fmt.Errorf("%w: property %q (%s) from %q: %v", ErrTypecast, p.Name, p.Kind, raw, err)
}

// Model identifies a resource type.
type Model struct {
	// Name is the mapper-facing type name (e.g., "Person").
	Name string

	// StorageName is the discriminator stored on every item of this type (e.g., "people").
	// Empty means Name.
	StorageName string

	// Properties in declaration order.
	Properties []Property
}

// Storage returns the discriminator value for the model.
func (m *Model) Storage() string {
	if m.StorageName != "" {
		return m.StorageName
	}
	return m.Name
}

// Property looks up a property by name.
func (m *Model) Property(name string) (Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// MustProperty is like Property but panics when the name is unknown.
// It is intended for building queries against statically declared models.
func (m *Model) MustProperty(name string) Property {
	p, ok := m.Property(name)
	if !ok {
		panic(fmt.Sprintf("sdbmap: model %s has no property %q", m.Name, name))
	}
	return p
}

// Keys returns the key properties sorted by name ascending.
func (m *Model) Keys() []Property {
	var keys []Property
	for _, p := range m.Properties {
		if p.Key {
			keys = append(keys, p)
		}
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}
