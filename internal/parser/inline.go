package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Closing delimiters searched for by the recognizers.
const (
	closeBrackets = iota // ]]
	closeParens          // ))
	closeBraces          // }}
	closeStars           // **
	closeFence           // ```
	closeTick            // `
	closeBracket         // ]
	closeParen           // )
	numClosers
)

var closers = [numClosers]string{"]]", "))", "}}", "**", "```", "`", "]", ")"}

// inlineParser holds one scan over s. Each recognizer matches a construct
// starting at an offset and either returns the node and the offset just past
// it, or declines without side effects on the output.
type inlineParser struct {
	s     string
	depth int

	// Result of the last delimiter search per closer: the search started at
	// from[c] and found next[c] (-1 when there is none).
	// The cursor only moves forward, so most searches are answered from here
	// and a scan over unterminated openers stays linear.
	from [numClosers]int
	next [numClosers]int
}

func newInlineParser(s string, depth int) *inlineParser {
	p := &inlineParser{s: s, depth: depth}
	for c := range p.from {
		p.from[c] = -1
	}
	return p
}

// find returns the offset of the first occurrence of closer c at or after
// from, or -1.
func (p *inlineParser) find(c int, from int) int {
	if p.from[c] >= 0 && from >= p.from[c] && (p.next[c] < 0 || from <= p.next[c]) {
		return p.next[c]
	}
	at := -1
	if from <= len(p.s) {
		if j := strings.Index(p.s[from:], closers[c]); j >= 0 {
			at = from + j
		}
	}
	p.from[c], p.next[c] = from, at
	return at
}

// recognize tries the constructs that can start at s[i]. Constructs sharing a
// lead character are tried in priority order.
func (p *inlineParser) recognize(i int) (Expr, int, bool) {
	switch p.s[i] {
	case '`':
		if x, end, ok := p.tripleBacktick(i); ok {
			return x, end, true
		}
		return p.singleBacktick(i)
	case '(':
		return p.blockRef(i)
	case '*':
		return p.bold(i)
	case '!':
		return p.image(i)
	case '[':
		if x, end, ok := p.markdownLink(i); ok {
			return x, end, true
		}
		return p.link(i)
	case '#':
		return p.hashtag(i)
	case '{':
		return p.brace(i)
	case 'h':
		return p.rawHyperlink(i)
	}
	return nil, i, false
}

// enclosed matches open ... close at s[i:] with a non-empty payload.
func (p *inlineParser) enclosed(i int, open string, c int) (string, int, bool) {
	if !strings.HasPrefix(p.s[i:], open) {
		return "", i, false
	}
	start := i + len(open)
	j := p.find(c, start)
	if j <= start {
		return "", i, false
	}
	return p.s[start:j], j + len(closers[c]), true
}

func (p *inlineParser) tripleBacktick(i int) (Expr, int, bool) {
	if !strings.HasPrefix(p.s[i:], "```") {
		return nil, i, false
	}
	start := i + 3
	j := p.find(closeFence, start)
	if j < 0 {
		return TripleBacktick(p.s[start:]), len(p.s), true
	}
	return TripleBacktick(p.s[start:j]), j + 3, true
}

func (p *inlineParser) singleBacktick(i int) (Expr, int, bool) {
	j := p.find(closeTick, i+1)
	if j < 0 {
		return nil, i, false
	}
	return SingleBacktick(p.s[i+1 : j]), j + 1, true
}

func (p *inlineParser) blockRef(i int) (Expr, int, bool) {
	uid, end, ok := p.enclosed(i, "((", closeParens)
	if !ok {
		return nil, i, false
	}
	return BlockRef(uid), end, true
}

func (p *inlineParser) link(i int) (Expr, int, bool) {
	title, end, ok := p.enclosed(i, "[[", closeBrackets)
	if !ok {
		return nil, i, false
	}
	return Link(title), end, true
}

func (p *inlineParser) bold(i int) (Expr, int, bool) {
	if p.depth >= MaxNesting {
		return nil, i, false
	}
	inner, end, ok := p.enclosed(i, "**", closeStars)
	if !ok {
		return nil, i, false
	}
	return Bold(parseInline(inner, p.depth+1)), end, true
}

func (p *inlineParser) brace(i int) (Expr, int, bool) {
	body, end, ok := p.enclosed(i, "{{", closeBraces)
	if !ok {
		return nil, i, false
	}
	name := unwrapLink(strings.TrimSpace(body))
	switch name {
	case "":
		return nil, i, false
	case "table":
		return Table{}, end, true
	}
	return BraceDirective(name), end, true
}

// unwrapLink strips a [[...]] wrapper enclosing all of s.
func unwrapLink(s string) string {
	if len(s) > 4 && strings.HasPrefix(s, "[[") && strings.Index(s[2:], "]]") == len(s)-4 {
		return s[2 : len(s)-2]
	}
	return s
}

// hashtag declines on the character after '#' before scanning the word, so a
// run of '#' is not rescanned from every position.
func (p *inlineParser) hashtag(i int) (Expr, int, bool) {
	if i+1 >= len(p.s) || p.s[i+1] == '#' {
		return nil, i, false
	}
	if r, _ := utf8.DecodeRuneInString(p.s[i+1:]); unicode.IsSpace(r) {
		return nil, i, false
	}
	if strings.HasPrefix(p.s[i+1:], "[[") {
		x, end, ok := p.link(i + 1)
		if !ok {
			return nil, i, false
		}
		return Hashtag{Tag: string(x.(Link))}, end, true
	}

	end := i + 1
	for end < len(p.s) {
		r, size := utf8.DecodeRuneInString(p.s[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}
	word := p.s[i+1 : end]
	if word[0] == '.' {
		if len(word) == 1 {
			return nil, i, false
		}
		return Hashtag{Tag: word[1:], Dotted: true}, end, true
	}
	return Hashtag{Tag: word}, end, true
}

func (p *inlineParser) image(i int) (Expr, int, bool) {
	if i+1 >= len(p.s) || p.s[i+1] != '[' {
		return nil, i, false
	}
	alt, url, end, ok := p.labelURL(i + 1)
	if !ok {
		return nil, i, false
	}
	return Image{Alt: alt, URL: url}, end, true
}

func (p *inlineParser) markdownLink(i int) (Expr, int, bool) {
	title, url, end, ok := p.labelURL(i)
	if !ok {
		return nil, i, false
	}
	return MarkdownLink{Title: title, URL: url}, end, true
}

// labelURL matches [label](url) at s[i:]. The parenthesis must follow the
// closing bracket directly, and the label may not open another bracket, so
// [[ never starts one.
func (p *inlineParser) labelURL(i int) (label, url string, end int, ok bool) {
	j := p.find(closeBracket, i+1)
	if j < 0 || j+1 >= len(p.s) || p.s[j+1] != '(' {
		return "", "", i, false
	}
	label = p.s[i+1 : j]
	if strings.IndexByte(label, '[') >= 0 {
		return "", "", i, false
	}
	k := p.find(closeParen, j+2)
	if k < 0 {
		return "", "", i, false
	}
	url = p.s[j+2 : k]
	if url == "" || strings.IndexFunc(url, unicode.IsSpace) >= 0 {
		return "", "", i, false
	}
	return label, url, k + 1, true
}

// trailingPunct is never the last character of a raw hyperlink.
const trailingPunct = ".,;:!?'\""

func (p *inlineParser) rawHyperlink(i int) (Expr, int, bool) {
	rest := p.s[i:]
	var scheme int
	switch {
	case strings.HasPrefix(rest, "https://"):
		scheme = len("https://")
	case strings.HasPrefix(rest, "http://"):
		scheme = len("http://")
	default:
		return nil, i, false
	}

	n := scheme
	for n < len(rest) {
		r, size := utf8.DecodeRuneInString(rest[n:])
		if unicode.IsSpace(r) {
			break
		}
		n += size
	}
	url := rest[:n]

	switch last := url[len(url)-1]; {
	case strings.IndexByte(trailingPunct, last) >= 0:
		url = url[:len(url)-1]
	case last == ')' && strings.Count(url, "(") < strings.Count(url, ")"):
		url = url[:len(url)-1]
	case last == ']' && strings.Count(url, "[") < strings.Count(url, "]"):
		url = url[:len(url)-1]
	}
	if len(url) <= scheme {
		return nil, i, false
	}
	return RawHyperlink(url), i + len(url), true
}
