// Package sdbql compiles mapper conditions into the store's query language
// and parses that language for store backends.
//
// An expression is a sequence of bracketed predicate sets joined by set
// operators:
//
//	['simpledb_type' = 'people'] intersection ['age' >= '00000000000000000000000000000020']
//
// Every value is a string and comparisons are lexicographic, which is why
// integers are zero-padded by the codec before they are interpolated.
//
// A predicate set may combine comparisons with "and" / "or" and may be
// negated with a leading "not". Sets are joined with "intersection" or
// "union", applied left to right. [Compile] only produces intersections of
// single comparisons; [Parse] accepts the full grammar.
package sdbql
