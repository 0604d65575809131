package mapper

import "strconv"

// Operator is a condition comparison.
type Operator int

const (
	Eql  Operator = iota // equal
	Not                  // not equal
	Gt                   // greater than
	Gte                  // greater than or equal
	Lt                   // less than
	Lte                  // less than or equal
	Like                 // pattern match
	In                   // membership in a list
)

var operatorNames = [...]string{
	Eql:  "eql",
	Not:  "not",
	Gt:   "gt",
	Gte:  "gte",
	Lt:   "lt",
	Lte:  "lte",
	Like: "like",
	In:   "in",
}

func (o Operator) String() string {
	if o >= 0 && int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return "operator(" + strconv.Itoa(int(o)) + ")"
}

// Condition is a single (operator, property, value) filter.
type Condition struct {
	Op       Operator
	Property Property
	Value    any
}

// Query describes a read, update or delete target.
type Query struct {
	// Model is the target resource type.
	Model *Model

	// Conditions are combined with logical AND.
	Conditions []Condition

	// Fields is the projection returned on read. Empty means every model property.
	Fields []Property
}

// NewQuery creates a query over every property of model.
func NewQuery(model *Model, conditions ...Condition) *Query {
	return &Query{
		Model:      model,
		Conditions: conditions,
	}
}

// KeyQuery creates an equality query matching the given key values.
// Values are keyed by property name.
func KeyQuery(model *Model, key map[string]any) *Query {
	q := NewQuery(model)
	for _, p := range model.Keys() {
		if v, ok := key[p.Name]; ok {
			q.Conditions = append(q.Conditions, Condition{Op: Eql, Property: p, Value: v})
		}
	}
	return q
}

// Projection returns the fields to decode on read.
func (q *Query) Projection() []Property {
	if len(q.Fields) > 0 {
		return q.Fields
	}
	return q.Model.Properties
}
