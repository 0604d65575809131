package sdbql

import (
	"fmt"
	"strings"

	"github.com/jacentio/sdbmap/codec"
	"github.com/jacentio/sdbmap/mapper"
)

// DefaultTypeAttribute is the reserved attribute holding a model's storage name.
const DefaultTypeAttribute = "simpledb_type"

// Symbol maps a mapper operator to its comparison symbol.
// Like, In and unknown operators have no symbol.
func Symbol(op mapper.Operator) (CompareOp, error) {
	switch op {
	case mapper.Eql:
		return OpEqual, nil
	case mapper.Not:
		return OpNotEqual, nil
	case mapper.Gt:
		return OpGreater, nil
	case mapper.Gte:
		return OpGreaterEqual, nil
	case mapper.Lt:
		return OpLess, nil
	case mapper.Lte:
		return OpLessEqual, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedOperator, op)
}

// Compiler turns mapper conditions into query expressions.
type Compiler struct {
	// TypeAttribute is the discriminator attribute. Empty means DefaultTypeAttribute.
	TypeAttribute string
}

func (c Compiler) typeAttribute() string {
	if c.TypeAttribute != "" {
		return c.TypeAttribute
	}
	return DefaultTypeAttribute
}

// Compile builds the expression selecting items of storageName that satisfy
// every condition:
//
//	['simpledb_type' = 'people'] intersection ['age' >= '00000000000000000000000000000020']
func (c Compiler) Compile(storageName string, conds []mapper.Condition) (string, error) {
	clauses := make([]string, 0, len(conds)+1)
	clauses = append(clauses, clause(Comparison{
		Attribute: c.typeAttribute(),
		Op:        OpEqual,
		Value:     storageName,
	}))

	for _, cond := range conds {
		op, err := Symbol(cond.Op)
		if err != nil {
			return "", fmt.Errorf("compile %s condition on %q: %w", cond.Op, cond.Property.Name, err)
		}
		clauses = append(clauses, clause(Comparison{
			Attribute: cond.Property.FieldName(),
			Op:        op,
			Value:     codec.EncodeValue(cond.Property, cond.Value),
		}))
	}

	return strings.Join(clauses, " "+string(Intersection)+" "), nil
}

// Compile builds an expression with the default type attribute.
func Compile(storageName string, conds []mapper.Condition) (string, error) {
	return Compiler{}.Compile(storageName, conds)
}

func clause(c Comparison) string {
	return "[" + c.String() + "]"
}
