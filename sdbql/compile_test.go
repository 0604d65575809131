package sdbql

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jacentio/sdbmap/mapper"
)

var (
	idProp   = mapper.Property{Name: "id", Kind: mapper.KindString, Key: true}
	nameProp = mapper.Property{Name: "name", Kind: mapper.KindString, Key: true}
	ageProp  = mapper.Property{Name: "age", Kind: mapper.KindInteger}
)

func TestCompile_ScopeOnly(t *testing.T) {
	got, err := Compile("people", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "['simpledb_type' = 'people']"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCompile_RangeCondition(t *testing.T) {
	got, err := Compile("people", []mapper.Condition{
		{Op: mapper.Gte, Property: ageProp, Value: 20},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "['simpledb_type' = 'people'] intersection ['age' >= '00000000000000000000000000000020']"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !strings.Contains(got, "00000000000000000000000000000020") {
		t.Error("expected padded value in expression")
	}
}

func TestCompile_OperatorTable(t *testing.T) {
	tests := []struct {
		op   mapper.Operator
		want string
	}{
		{mapper.Eql, "="},
		{mapper.Not, "!="},
		{mapper.Gt, ">"},
		{mapper.Gte, ">="},
		{mapper.Lt, "<"},
		{mapper.Lte, "<="},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, err := Compile("people", []mapper.Condition{{Op: tt.op, Property: nameProp, Value: "Ann"}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := "['simpledb_type' = 'people'] intersection ['name' " + tt.want + " 'Ann']"
			if got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		})
	}
}

func TestCompile_MultipleConditions(t *testing.T) {
	got, err := Compile("people", []mapper.Condition{
		{Op: mapper.Eql, Property: idProp, Value: "1"},
		{Op: mapper.Lt, Property: ageProp, Value: 30},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(got, " intersection "); n != 2 {
		t.Errorf("expected 2 intersections, got %d in %q", n, got)
	}
	if !strings.HasPrefix(got, "['simpledb_type' = 'people']") {
		t.Errorf("expected scope clause first, got %q", got)
	}
}

func TestCompile_RejectsUnsupportedOperators(t *testing.T) {
	for _, op := range []mapper.Operator{mapper.Like, mapper.In, mapper.Operator(42)} {
		t.Run(op.String(), func(t *testing.T) {
			_, err := Compile("people", []mapper.Condition{{Op: op, Property: nameProp, Value: "A%"}})
			if !errors.Is(err, ErrUnsupportedOperator) {
				t.Errorf("expected ErrUnsupportedOperator, got %v", err)
			}
		})
	}
}

func TestCompile_CustomTypeAttribute(t *testing.T) {
	got, err := Compiler{TypeAttribute: "kind"}.Compile("people", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "['kind' = 'people']" {
		t.Errorf("expected custom type attribute, got %q", got)
	}
}

func TestCompile_EscapesQuotes(t *testing.T) {
	got, err := Compile("people", []mapper.Condition{{Op: mapper.Eql, Property: nameProp, Value: `O'Brien\`}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, `'O\'Brien\\'`) {
		t.Errorf("expected escaped value, got %q", got)
	}

	expr, err := Parse(got)
	if err != nil {
		t.Fatalf("expected compiled expression to parse, got %v", err)
	}
	if v := expr.Rest[0].Predicate.Any[0][0].Value; v != `O'Brien\` {
		t.Errorf("expected round-tripped value, got %q", v)
	}
}

func TestCompile_UsesFieldName(t *testing.T) {
	prop := mapper.Property{Name: "createdAt", Field: "created_at", Kind: mapper.KindString}
	got, err := Compile("people", []mapper.Condition{{Op: mapper.Gt, Property: prop, Value: "2008"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "['created_at' > '2008']") {
		t.Errorf("expected field name in clause, got %q", got)
	}
}

func TestSymbol_Exhaustive(t *testing.T) {
	supported := 0
	for op := mapper.Eql; op <= mapper.In; op++ {
		if _, err := Symbol(op); err == nil {
			supported++
		}
	}
	if supported != 6 {
		t.Errorf("expected 6 supported operators, got %d", supported)
	}
}

type years int

func TestCompile_NamedIntegerType(t *testing.T) {
	got, err := Compile("people", []mapper.Condition{
		{Op: mapper.Gte, Property: ageProp, Value: years(20)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "['simpledb_type' = 'people'] intersection ['age' >= '00000000000000000000000000000020']"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCompile_EncodesByPropertyKind(t *testing.T) {
	tests := []struct {
		name string
		prop mapper.Property
		in   any
		want string
	}{
		{"int on float", mapper.Property{Name: "wealth", Kind: mapper.KindFloat}, 3, "['wealth' > '3']"},
		{"date", mapper.Property{Name: "born", Kind: mapper.KindDate}, time.Date(1980, 3, 4, 0, 0, 0, 0, time.UTC), "['born' > '1980-03-04']"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile("people", []mapper.Condition{{Op: mapper.Gt, Property: tt.prop, Value: tt.in}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.HasSuffix(got, tt.want) {
				t.Errorf("expected clause %q, got %q", tt.want, got)
			}
		})
	}
}
