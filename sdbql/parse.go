package sdbql

import (
	"fmt"
	"strings"
)

// CompareOp is a comparison symbol of the query language.
type CompareOp string

const (
	OpEqual        CompareOp = "="
	OpNotEqual     CompareOp = "!="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
	OpStartsWith   CompareOp = "starts-with"
)

// Comparison is a single ['attribute' op 'value'] test.
type Comparison struct {
	Attribute string
	Op        CompareOp
	Value     string
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s %s %s", quote(c.Attribute), c.Op, quote(c.Value))
}

// Predicate is one bracketed predicate set. Its comparisons are combined as
// an OR of AND groups, so "a and b or c" is [[a b] [c]].
type Predicate struct {
	Not bool
	Any [][]Comparison
}

func (p Predicate) String() string {
	var groups []string
	for _, all := range p.Any {
		parts := make([]string, len(all))
		for i, c := range all {
			parts[i] = c.String()
		}
		groups = append(groups, strings.Join(parts, " and "))
	}
	s := "[" + strings.Join(groups, " or ") + "]"
	if p.Not {
		s = "not " + s
	}
	return s
}

// SetOp combines two predicate sets.
type SetOp string

const (
	Intersection SetOp = "intersection"
	Union        SetOp = "union"
)

// Term is a predicate joined to the expression so far by a set operator.
type Term struct {
	Op        SetOp
	Predicate Predicate
}

// Expr is a parsed query expression. Set operators apply left to right.
type Expr struct {
	First Predicate
	Rest  []Term
}

func (e *Expr) String() string {
	parts := []string{e.First.String()}
	for _, t := range e.Rest {
		parts = append(parts, string(t.Op), t.Predicate.String())
	}
	return strings.Join(parts, " ")
}

// Equalities returns the equality comparisons every matching item must
// satisfy. It is empty unless the expression is a pure intersection.
func (e *Expr) Equalities() []Comparison {
	preds := []Predicate{e.First}
	for _, t := range e.Rest {
		if t.Op != Intersection {
			return nil
		}
		preds = append(preds, t.Predicate)
	}

	var eqs []Comparison
	for _, p := range preds {
		if p.Not || len(p.Any) != 1 {
			continue
		}
		for _, c := range p.Any[0] {
			if c.Op == OpEqual {
				eqs = append(eqs, c)
			}
		}
	}
	return eqs
}

// Parse parses a query expression.
func Parse(input string) (*Expr, error) {
	p := &parser{items: lex(input)}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return expr, nil
}

type parser struct {
	items []item
	pos   int
}

func (p *parser) peek() item {
	return p.items[p.pos]
}

func (p *parser) next() item {
	it := p.items[p.pos]
	if it.typ != itemEOF && it.typ != itemError {
		p.pos++
	}
	return it
}

func (p *parser) unexpected(it item, want string) error {
	if it.typ == itemError {
		return fmt.Errorf("%s", it.val)
	}
	return fmt.Errorf("expected %s at %d, got %s", want, it.pos, it)
}

func (p *parser) parseExpr() (*Expr, error) {
	first, err := p.parsePredicate()
	if err != nil {
		return nil, err
	}
	expr := &Expr{First: first}

	for {
		it := p.next()
		switch {
		case it.typ == itemEOF:
			return expr, nil
		case it.typ == itemKeyword && (it.val == string(Intersection) || it.val == string(Union)):
			pred, err := p.parsePredicate()
			if err != nil {
				return nil, err
			}
			expr.Rest = append(expr.Rest, Term{Op: SetOp(it.val), Predicate: pred})
		default:
			return nil, p.unexpected(it, "'intersection', 'union' or end of expression")
		}
	}
}

func (p *parser) parsePredicate() (Predicate, error) {
	var pred Predicate
	if it := p.peek(); it.typ == itemKeyword && it.val == "not" {
		p.next()
		pred.Not = true
	}
	if it := p.next(); it.typ != itemLeftBracket {
		return pred, p.unexpected(it, "'['")
	}

	group := []Comparison{}
	for {
		c, err := p.parseComparison()
		if err != nil {
			return pred, err
		}
		group = append(group, c)

		it := p.next()
		switch {
		case it.typ == itemRightBracket:
			pred.Any = append(pred.Any, group)
			return pred, nil
		case it.typ == itemKeyword && it.val == "and":
		case it.typ == itemKeyword && it.val == "or":
			pred.Any = append(pred.Any, group)
			group = []Comparison{}
		default:
			return pred, p.unexpected(it, "'and', 'or' or ']'")
		}
	}
}

func (p *parser) parseComparison() (Comparison, error) {
	var c Comparison

	name := p.next()
	if name.typ != itemString {
		return c, p.unexpected(name, "quoted attribute name")
	}
	c.Attribute = name.val

	op := p.next()
	switch {
	case op.typ == itemOperator:
		c.Op = CompareOp(op.val)
	case op.typ == itemKeyword && op.val == string(OpStartsWith):
		c.Op = OpStartsWith
	default:
		return c, p.unexpected(op, "comparison operator")
	}

	value := p.next()
	if value.typ != itemString {
		return c, p.unexpected(value, "quoted value")
	}
	c.Value = value.val
	return c, nil
}
