package sdbql

import "strings"

// Match reports whether an item's attributes satisfy the comparison.
// The comparison holds when any value of the attribute satisfies it; an
// absent attribute never matches, not even for !=.
func (c Comparison) Match(attrs map[string][]string) bool {
	for _, v := range attrs[c.Attribute] {
		if c.holds(v) {
			return true
		}
	}
	return false
}

func (c Comparison) holds(v string) bool {
	switch c.Op {
	case OpEqual:
		return v == c.Value
	case OpNotEqual:
		return v != c.Value
	case OpGreater:
		return v > c.Value
	case OpGreaterEqual:
		return v >= c.Value
	case OpLess:
		return v < c.Value
	case OpLessEqual:
		return v <= c.Value
	case OpStartsWith:
		return strings.HasPrefix(v, c.Value)
	}
	return false
}

// Match reports whether an item's attributes satisfy the predicate set.
func (p Predicate) Match(attrs map[string][]string) bool {
	matched := false
	for _, all := range p.Any {
		ok := true
		for _, c := range all {
			if !c.Match(attrs) {
				ok = false
				break
			}
		}
		if ok {
			matched = true
			break
		}
	}
	return matched != p.Not
}

// Match reports whether an item's attributes satisfy the expression.
func (e *Expr) Match(attrs map[string][]string) bool {
	result := e.First.Match(attrs)
	for _, t := range e.Rest {
		switch t.Op {
		case Intersection:
			result = result && t.Predicate.Match(attrs)
		case Union:
			result = result || t.Predicate.Match(attrs)
		}
	}
	return result
}
