package parser

import (
	"strings"
	"unicode"
)

// Markup writes a tree back as block markup. The result is canonical: it
// parses to the same tree, but whitespace the parser drops (inside {{ }} or
// after an attribute's "::") is not restored.
func Markup(list []Expr) string {
	var b strings.Builder
	writeMarkup(&b, list)
	return b.String()
}

func writeMarkup(b *strings.Builder, list []Expr) {
	for _, x := range list {
		switch x := x.(type) {
		case Text:
			b.WriteString(string(x))
		case BlockRef:
			b.WriteString("((" + string(x) + "))")
		case Link:
			b.WriteString("[[" + string(x) + "]]")
		case Hashtag:
			b.WriteByte('#')
			if x.Dotted {
				b.WriteByte('.')
			}
			if strings.IndexFunc(x.Tag, unicode.IsSpace) >= 0 {
				b.WriteString("[[" + x.Tag + "]]")
			} else {
				b.WriteString(x.Tag)
			}
		case BraceDirective:
			b.WriteString("{{" + string(x) + "}}")
		case Table:
			b.WriteString("{{table}}")
		case Image:
			b.WriteString("![" + x.Alt + "](" + x.URL + ")")
		case MarkdownLink:
			b.WriteString("[" + x.Title + "](" + x.URL + ")")
		case RawHyperlink:
			b.WriteString(string(x))
		case Bold:
			b.WriteString("**")
			writeMarkup(b, x)
			b.WriteString("**")
		case BlockQuote:
			b.WriteString("> ")
			writeMarkup(b, x)
		case SingleBacktick:
			b.WriteString("`" + string(x) + "`")
		case TripleBacktick:
			b.WriteString("```" + string(x) + "```")
		case Attribute:
			b.WriteString(x.Name + ":: ")
			writeMarkup(b, x.Value)
		}
	}
}

// PlainText returns the readable text of a tree without any markup. Links and
// tags contribute their titles, media their labels, directives nothing.
func PlainText(list []Expr) string {
	var b strings.Builder
	writePlain(&b, list)
	return b.String()
}

func writePlain(b *strings.Builder, list []Expr) {
	for _, x := range list {
		switch x := x.(type) {
		case Text:
			b.WriteString(string(x))
		case BlockRef:
			b.WriteString(string(x))
		case Link:
			b.WriteString(string(x))
		case Hashtag:
			b.WriteString(x.Tag)
		case Image:
			b.WriteString(x.Alt)
		case MarkdownLink:
			b.WriteString(x.Title)
		case RawHyperlink:
			b.WriteString(string(x))
		case Bold:
			writePlain(b, x)
		case BlockQuote:
			writePlain(b, x)
		case SingleBacktick:
			b.WriteString(string(x))
		case TripleBacktick:
			b.WriteString(string(x))
		case Attribute:
			b.WriteString(x.Name + ": ")
			writePlain(b, x.Value)
		}
	}
}

// Walk visits every expression depth first, including the children of Bold,
// BlockQuote and Attribute. Returning false from fn skips the children of that
// expression.
func Walk(list []Expr, fn func(Expr) bool) {
	for _, x := range list {
		if !fn(x) {
			continue
		}
		switch x := x.(type) {
		case Bold:
			Walk(x, fn)
		case BlockQuote:
			Walk(x, fn)
		case Attribute:
			Walk(x.Value, fn)
		}
	}
}

// Attr returns the attribute heading a parsed block, if any.
func Attr(list []Expr) (Attribute, bool) {
	if len(list) == 0 {
		return Attribute{}, false
	}
	a, ok := list[0].(Attribute)
	return a, ok
}
