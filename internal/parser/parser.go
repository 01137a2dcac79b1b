// Package parser turns the raw text of a single block into a tree of
// expressions: links, tags, formatting, code spans, attributes, media and
// quotes.
//
// Parsing never fails. Anything that does not match a construct is kept as
// literal text, so the worst outcome of a markup bug is plain text in the
// output. The parser holds no state between calls and is safe for concurrent
// use.
package parser

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxNesting bounds how deep bold, quote and attribute payloads may re-enter
// the parser. Past this depth the recursive constructs are left as text.
const MaxNesting = 16

// ErrInvalidEncoding is returned by Validate for text that is not UTF-8.
var ErrInvalidEncoding = errors.New("block text is not valid UTF-8")

// Validate checks the input contract of Parse. Callers run it before parsing;
// Parse itself never reports errors.
func Validate(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	return nil
}

// Parse parses the full text of one block.
//
// An attribute ("Name:: value") or a quote ("> text") is only recognized at
// the very start of the block. Everything else is recognized anywhere.
// Empty input yields no expressions.
func Parse(s string) []Expr {
	if a, ok := attribute(s); ok {
		return []Expr{a}
	}
	if q, ok := blockQuote(s); ok {
		return []Expr{q}
	}
	return parseInline(s, 0)
}

// attribute matches "Name:: value" at the head of the block. A backtick or a
// line break before the first "::" means there is no attribute.
func attribute(s string) (Attribute, bool) {
	for i := 0; i+1 < len(s); i++ {
		switch s[i] {
		case '`', '\n':
			return Attribute{}, false
		case ':':
			if s[i+1] != ':' {
				continue
			}
			name := s[:i]
			if strings.TrimSpace(name) == "" {
				return Attribute{}, false
			}
			rest := strings.TrimLeft(s[i+2:], " \t")
			return Attribute{Name: name, Value: parseInline(rest, 1)}, true
		}
	}
	return Attribute{}, false
}

// blockQuote matches a block starting with "> ". The quote runs to the end of
// the block, across line breaks.
func blockQuote(s string) (BlockQuote, bool) {
	if !strings.HasPrefix(s, "> ") {
		return nil, false
	}
	return BlockQuote(parseInline(s[2:], 1)), true
}

func parseInline(s string, depth int) []Expr {
	p := newInlineParser(s, depth)
	var list []Expr
	emitted := 0
	for i := 0; i < len(s); {
		if x, end, ok := p.recognize(i); ok {
			if emitted < i {
				list = append(list, Text(s[emitted:i]))
			}
			list = append(list, x)
			i = end
			emitted = end
			continue
		}
		i++
	}
	if emitted < len(s) {
		list = append(list, Text(s[emitted:]))
	}
	return list
}
