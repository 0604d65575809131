package sdbql

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexical scanner in the style of text/template/parse: state functions emit
// items until the input is exhausted or an error is found.

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemLeftBracket
	itemRightBracket
	itemString   // quoted name or value, unescaped
	itemOperator // = != > >= < <=
	itemKeyword  // and or not intersection union starts-with
)

type item struct {
	typ itemType
	pos int
	val string
}

func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return i.val
	case itemString:
		return quote(i.val)
	}
	return i.val
}

const eof = -1

var keywords = map[string]bool{
	"and":          true,
	"or":           true,
	"not":          true,
	"intersection": true,
	"union":        true,
	"starts-with":  true,
}

type stateFn func(*lexer) stateFn

type lexer struct {
	input string
	start int
	pos   int
	width int
	items []item
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

func (l *lexer) backup() {
	l.pos -= l.width
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) emit(t itemType) {
	l.items = append(l.items, item{typ: t, pos: l.start, val: l.input[l.start:l.pos]})
	l.start = l.pos
}

func (l *lexer) emitValue(t itemType, val string) {
	l.items = append(l.items, item{typ: t, pos: l.start, val: val})
	l.start = l.pos
}

func (l *lexer) ignore() {
	l.start = l.pos
}

func (l *lexer) errorf(format string, args ...any) stateFn {
	l.items = append(l.items, item{typ: itemError, pos: l.start, val: fmt.Sprintf(format, args...)})
	return nil
}

// lex scans the whole input. The last item is always itemEOF or itemError.
func lex(input string) []item {
	l := &lexer{input: input}
	for state := lexSpace; state != nil; {
		state = state(l)
	}
	return l.items
}

func lexSpace(l *lexer) stateFn {
	for {
		r := l.next()
		switch {
		case r == eof:
			l.emit(itemEOF)
			return nil
		case unicode.IsSpace(r):
			l.ignore()
		case r == '[':
			l.emit(itemLeftBracket)
		case r == ']':
			l.emit(itemRightBracket)
		case r == '\'':
			return lexQuoted
		case strings.ContainsRune("=!<>", r):
			l.backup()
			return lexOperator
		case unicode.IsLetter(r):
			l.backup()
			return lexKeyword
		default:
			return l.errorf("unexpected character %q at %d", r, l.pos-l.width)
		}
	}
}

func lexQuoted(l *lexer) stateFn {
	var b strings.Builder
	for {
		switch r := l.next(); r {
		case eof:
			return l.errorf("unterminated quoted string starting at %d", l.start)
		case '\\':
			esc := l.next()
			if esc == eof {
				return l.errorf("unterminated escape at %d", l.pos)
			}
			b.WriteRune(esc)
		case '\'':
			l.emitValue(itemString, b.String())
			return lexSpace
		default:
			b.WriteRune(r)
		}
	}
}

func lexOperator(l *lexer) stateFn {
	switch r := l.next(); r {
	case '=':
	case '!':
		if l.next() != '=' {
			return l.errorf("expected '=' after '!' at %d", l.start)
		}
	case '<', '>':
		if l.peek() == '=' {
			l.next()
		}
	}
	l.emit(itemOperator)
	return lexSpace
}

func lexKeyword(l *lexer) stateFn {
	for {
		r := l.next()
		if !unicode.IsLetter(r) && r != '-' {
			if r != eof {
				l.backup()
			}
			break
		}
	}
	word := strings.ToLower(l.input[l.start:l.pos])
	if !keywords[word] {
		return l.errorf("unknown keyword %q at %d", l.input[l.start:l.pos], l.start)
	}
	l.emitValue(itemKeyword, word)
	return lexSpace
}

// quote renders s as a quoted string of the query language.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
