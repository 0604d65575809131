// Package codec converts typed property values to and from store strings.
//
// The store keeps every attribute as a set of strings and compares them
// lexicographically. Integers are therefore zero-padded to a fixed width on
// write so that range comparisons order them numerically.
package codec

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/jacentio/sdbmap/mapper"
)

// IntWidth is the zero-padded width of encoded integers.
const IntWidth = 32

// Encode renders a value for storage or comparison.
// Values of any integral kind, named types included, are zero-padded to
// IntWidth digits; everything else uses Format.
func Encode(v any) string {
	if s, ok := padIntegral(v); ok {
		return s
	}
	return Format(v)
}

// EncodeValue renders one value of property p. The property's kind decides
// the form: KindInteger values are always padded, KindDate times use
// mapper.DateLayout and every other kind uses Format, so an integral value on
// a float or string property is never padded.
func EncodeValue(p mapper.Property, v any) string {
	switch p.Kind {
	case mapper.KindInteger:
		if s, ok := padIntegral(v); ok {
			return s
		}
		if f, ok := floatValue(v); ok && f == math.Trunc(f) && math.Abs(f) < 1<<63 {
			return padInt(int64(f))
		}
	case mapper.KindDate:
		if t, ok := v.(time.Time); ok {
			return t.Format(mapper.DateLayout)
		}
	}
	return Format(v)
}

func padIntegral(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return padInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return padUint(rv.Uint()), true
	}
	return "", false
}

func floatValue(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func padInt(n int64) string {
	return fmt.Sprintf("%0*d", IntWidth, n)
}

func padUint(n uint64) string {
	return fmt.Sprintf("%0*d", IntWidth, n)
}

// Format renders a value in its natural textual form, without padding.
// Item names are derived from Format so that a key value and an equality
// condition on it hash identically.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}

// EncodeProperty returns the store values for one property value.
// A nil value yields no values, so the attribute is omitted. Slices yield one
// value per element.
func EncodeProperty(p mapper.Property, v any) []string {
	if v == nil {
		return nil
	}
	if _, ok := v.([]byte); !ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			values := make([]string, 0, rv.Len())
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				if elem == nil {
					continue
				}
				values = append(values, EncodeValue(p, elem))
			}
			return values
		}
	}
	return []string{EncodeValue(p, v)}
}

// Decode converts the values stored for one attribute into the property's type.
//
// The store returns every attribute as a set: one value decodes to a scalar,
// several values decode to a []any with each element typecast, and no values
// decode to nil.
func Decode(values []string, p mapper.Property) (any, error) {
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		return p.Typecast(values[0])
	}

	out := make([]any, len(values))
	for i, raw := range values {
		v, err := p.Typecast(raw)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// DecodeFields decodes every projected field from an attribute map, in order.
func DecodeFields(attrs map[string][]string, fields []mapper.Property) ([]any, error) {
	values := make([]any, len(fields))
	for i, p := range fields {
		v, err := Decode(attrs[p.FieldName()], p)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
