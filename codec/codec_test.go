package codec

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jacentio/sdbmap/mapper"
)

var (
	ageProp      = mapper.Property{Name: "age", Kind: mapper.KindInteger}
	nameProp     = mapper.Property{Name: "name", Kind: mapper.KindString}
	wealthProp   = mapper.Property{Name: "wealth", Kind: mapper.KindFloat}
	birthdayProp = mapper.Property{Name: "birthday", Kind: mapper.KindDate}
)

func TestEncode_PadsIntegers(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int", 5, "00000000000000000000000000000005"},
		{"int 25", 25, "00000000000000000000000000000025"},
		{"int64", int64(20), "00000000000000000000000000000020"},
		{"uint8", uint8(7), "00000000000000000000000000000007"},
		{"zero", 0, "00000000000000000000000000000000"},
		{"negative", -5, "-0000000000000000000000000000005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.in)
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if len(got) != IntWidth {
				t.Errorf("expected width %d, got %d", IntWidth, len(got))
			}
		})
	}
}

func TestEncode_NumericOrdering(t *testing.T) {
	pairs := [][2]int{{5, 25}, {0, 1}, {9, 10}, {99, 100}, {123456, 1234567}}
	for _, p := range pairs {
		a, b := Encode(p[0]), Encode(p[1])
		if strings.Compare(a, b) >= 0 {
			t.Errorf("expected %q < %q", a, b)
		}
	}
}

func TestEncode_NonIntegers(t *testing.T) {
	stamp := time.Date(2008, 10, 10, 12, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "Ann", "Ann"},
		{"float", 1.5, "1.5"},
		{"float no exponent", 1e21, "1000000000000000000000"},
		{"bool", true, "true"},
		{"time", stamp, "2008-10-10T12:30:00Z"},
		{"nil", nil, ""},
		{"bytes", []byte("raw"), "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormat_IntegersAreNotPadded(t *testing.T) {
	if got := Format(1); got != "1" {
		t.Errorf("expected %q, got %q", "1", got)
	}
	if got := Format(int64(-3)); got != "-3" {
		t.Errorf("expected %q, got %q", "-3", got)
	}
}

func TestEncodeProperty(t *testing.T) {
	day := time.Date(1980, 3, 4, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		prop mapper.Property
		in   any
		want []string
	}{
		{"nil omitted", nameProp, nil, nil},
		{"scalar", nameProp, "Ann", []string{"Ann"}},
		{"integer", ageProp, 25, []string{"00000000000000000000000000000025"}},
		{"slice", nameProp, []string{"a", "b"}, []string{"a", "b"}},
		{"int slice", ageProp, []int{1, 2}, []string{"00000000000000000000000000000001", "00000000000000000000000000000002"}},
		{"any slice skips nil", nameProp, []any{"a", nil}, []string{"a"}},
		{"date", birthdayProp, day, []string{"1980-03-04"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeProperty(tt.prop, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDecode_SingleValueIsScalar(t *testing.T) {
	got, err := Decode([]string{"00000000000000000000000000000025"}, ageProp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != int64(25) {
		t.Errorf("expected int64(25), got %#v", got)
	}
}

func TestDecode_MultipleValuesIsList(t *testing.T) {
	got, err := Decode([]string{"00000000000000000000000000000025", "7"}, ageProp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := got.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", got)
	}
	want := []any{int64(25), int64(7)}
	if !reflect.DeepEqual(list, want) {
		t.Errorf("expected %v, got %v", want, list)
	}
}

func TestDecode_NoValues(t *testing.T) {
	got, err := Decode(nil, nameProp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %#v", got)
	}
}

func TestDecode_TypecastError(t *testing.T) {
	_, err := Decode([]string{"1", "abc"}, ageProp)
	if !errors.Is(err, mapper.ErrTypecast) {
		t.Errorf("expected ErrTypecast, got %v", err)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		prop mapper.Property
		in   any
		want any
	}{
		{ageProp, 25, int64(25)},
		{wealthProp, 1234.5, 1234.5},
		{nameProp, "Ann", "Ann"},
		{birthdayProp, time.Date(1980, 3, 4, 0, 0, 0, 0, time.UTC), time.Date(1980, 3, 4, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.prop.Name, func(t *testing.T) {
			got, err := Decode(EncodeProperty(tt.prop, tt.in), tt.prop)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestDecodeFields(t *testing.T) {
	attrs := map[string][]string{
		"age":  {"00000000000000000000000000000030"},
		"name": {"Ann"},
	}
	fields := []mapper.Property{nameProp, ageProp, wealthProp}

	values, err := DecodeFields(attrs, fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{"Ann", int64(30), nil}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("expected %v, got %v", want, values)
	}
}

func TestDecodeFields_UsesFieldName(t *testing.T) {
	prop := mapper.Property{Name: "fullName", Field: "full_name", Kind: mapper.KindString}
	values, err := DecodeFields(map[string][]string{"full_name": {"Ann Lee"}}, []mapper.Property{prop})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values[0] != "Ann Lee" {
		t.Errorf("expected 'Ann Lee', got %#v", values[0])
	}
}

type years int

type count uint16

func TestEncode_NamedIntegers(t *testing.T) {
	if got := Encode(years(5)); got != "00000000000000000000000000000005" {
		t.Errorf("expected padded named int, got %q", got)
	}
	if got := Encode(count(7)); got != "00000000000000000000000000000007" {
		t.Errorf("expected padded named uint, got %q", got)
	}
}

func TestEncodeValue_KindDecidesForm(t *testing.T) {
	day := time.Date(1980, 3, 4, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		prop mapper.Property
		in   any
		want string
	}{
		{"int on integer", ageProp, 25, "00000000000000000000000000000025"},
		{"named int on integer", ageProp, years(5), "00000000000000000000000000000005"},
		{"whole float on integer", ageProp, 20.0, "00000000000000000000000000000020"},
		{"fractional float on integer", ageProp, 2.5, "2.5"},
		{"int on float", wealthProp, 3, "3"},
		{"int on string", nameProp, 7, "7"},
		{"time on date", birthdayProp, day, "1980-03-04"},
		{"string on date", birthdayProp, "1980-03-04", "1980-03-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeValue(tt.prop, tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEncodeValue_FloatMatchesStoredForm(t *testing.T) {
	stored := EncodeProperty(wealthProp, 3.0)
	if got := EncodeValue(wealthProp, 3); got != stored[0] {
		t.Errorf("expected int condition %q to match stored float %q", got, stored[0])
	}
}
