package sdbql

import "errors"

var (
	// ErrUnsupportedOperator is returned when a condition uses an operator the
	// query language cannot express.
	ErrUnsupportedOperator = errors.New("sdbmap: unsupported query operator")

	// ErrSyntax is returned when an expression cannot be parsed.
	ErrSyntax = errors.New("sdbmap: query syntax error")
)
