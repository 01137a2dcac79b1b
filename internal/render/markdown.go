package render

import (
	"strings"

	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/highlight"
	"github.com/gerunddev/roampages/internal/parser"
)

func (r *Renderer) markdownBlocks(w *strings.Builder, blocks []*graph.Block, depth int) error {
	for _, b := range blocks {
		if err := r.markdownBlock(w, b, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) markdownBlock(w *strings.Builder, b *graph.Block, depth int) error {
	if !r.visible(b) {
		return nil
	}

	var content strings.Builder
	r.markdownInline(&content, b.Content, 0)

	var children strings.Builder
	if hasTable(b) {
		r.markdownTable(&children, b, depth+1)
	} else if err := r.markdownBlocks(&children, r.g.ChildBlocks(b), depth+1); err != nil {
		return err
	}

	text := strings.TrimSpace(content.String())
	if text == "" && children.Len() == 0 {
		return nil
	}
	if b.Heading >= 1 && b.Heading <= 3 && text != "" {
		text = strings.Repeat("#", b.Heading) + " " + text
	}

	indent := strings.Repeat("  ", depth)
	w.WriteString(indent + "- " + indentLines(text, indent+"  ") + "\n")
	w.WriteString(children.String())
	return nil
}

// indentLines indents every line of s after the first.
func indentLines(s, indent string) string {
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}

func (r *Renderer) markdownTable(w *strings.Builder, b *graph.Block, depth int) {
	rows := r.tableRows(b)
	if len(rows) == 0 {
		return
	}

	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}

	indent := strings.Repeat("  ", depth)
	writeRow := func(cells []string) {
		w.WriteString(indent + "|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			w.WriteString(" " + cell + " |")
		}
		w.WriteString("\n")
	}

	for n, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			var c strings.Builder
			r.markdownInline(&c, cell.Content, 0)
			cells[i] = tableCell(c.String())
		}
		writeRow(cells)
		if n == 0 {
			sep := make([]string, cols)
			for i := range sep {
				sep[i] = "---"
			}
			writeRow(sep)
		}
	}
}

func tableCell(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func (r *Renderer) markdownLink(w *strings.Builder, title string) {
	if r.isFilterTag(title) {
		return
	}
	if href, ok := r.href(title); ok {
		w.WriteString("[" + title + "](" + href + ")")
		return
	}
	w.WriteString(title)
}

func (r *Renderer) markdownInline(w *strings.Builder, list []parser.Expr, depth int) {
	for _, x := range list {
		switch x := x.(type) {
		case parser.Text:
			w.WriteString(string(x))

		case parser.Link:
			r.markdownLink(w, string(x))

		case parser.Hashtag:
			if !x.Dotted {
				r.markdownLink(w, x.Tag)
			}

		case parser.BlockRef:
			target, ok := r.g.BlockByUID(string(x))
			switch {
			case !ok || depth >= maxRefDepth:
				w.WriteString(string(x))
			case target.IsPage():
				r.markdownLink(w, target.Title)
			default:
				r.markdownInline(w, target.Content, depth+1)
			}

		case parser.BraceDirective:
			if done, ok := checkbox(string(x)); ok {
				if done {
					w.WriteString("[x]")
				} else {
					w.WriteString("[ ]")
				}
			}

		case parser.Table:
			// Rendered from the block's children.

		case parser.Image:
			w.WriteString("![" + x.Alt + "](" + x.URL + ")")

		case parser.MarkdownLink:
			w.WriteString("[" + x.Title + "](" + x.URL + ")")

		case parser.RawHyperlink:
			w.WriteString("<" + string(x) + ">")

		case parser.Bold:
			w.WriteString("**")
			r.markdownInline(w, x, depth)
			w.WriteString("**")

		case parser.BlockQuote:
			w.WriteString("> ")
			r.markdownInline(w, x, depth)

		case parser.SingleBacktick:
			w.WriteString("`" + string(x) + "`")

		case parser.TripleBacktick:
			lang, code := highlight.SplitLanguage(string(x))
			w.WriteString("```" + lang + "\n" + strings.TrimSuffix(code, "\n") + "\n```")

		case parser.Attribute:
			w.WriteString("**" + strings.TrimSpace(x.Name) + ":** ")
			r.markdownInline(w, x.Value, depth)
		}
	}
}
