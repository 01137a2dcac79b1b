package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/highlight"
	"github.com/gerunddev/roampages/internal/parser"
)

func (r *Renderer) htmlBlocks(w *strings.Builder, blocks []*graph.Block) error {
	var items []string
	for _, b := range blocks {
		item, err := r.htmlBlock(b)
		if err != nil {
			return err
		}
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}

	w.WriteString("<ul>\n")
	for _, item := range items {
		w.WriteString(item)
	}
	w.WriteString("</ul>\n")
	return nil
}

func (r *Renderer) htmlBlock(b *graph.Block) (string, error) {
	if !r.visible(b) {
		return "", nil
	}

	var content strings.Builder
	if err := r.htmlInline(&content, b.Content, 0); err != nil {
		return "", err
	}

	var children strings.Builder
	if hasTable(b) {
		if err := r.htmlTable(&children, b); err != nil {
			return "", err
		}
	} else if err := r.htmlBlocks(&children, r.g.ChildBlocks(b)); err != nil {
		return "", err
	}

	text := strings.TrimSpace(content.String())
	if text == "" && children.Len() == 0 {
		return "", nil
	}

	var w strings.Builder
	fmt.Fprintf(&w, `<li id="%s"`, html.EscapeString(b.UID))
	if cls := classes(b); len(cls) > 0 {
		fmt.Fprintf(&w, ` class="%s"`, html.EscapeString(strings.Join(cls, " ")))
	}
	w.WriteString(">")
	if b.Heading >= 1 && b.Heading <= 3 {
		fmt.Fprintf(&w, "<h%d>%s</h%d>", b.Heading, text, b.Heading)
	} else {
		w.WriteString(text)
	}
	w.WriteString("\n")
	w.WriteString(children.String())
	w.WriteString("</li>\n")
	return w.String(), nil
}

func (r *Renderer) htmlTable(w *strings.Builder, b *graph.Block) error {
	rows := r.tableRows(b)
	if len(rows) == 0 {
		return nil
	}

	w.WriteString("<table>\n<tbody>\n")
	for _, row := range rows {
		w.WriteString("<tr>")
		for _, cell := range row {
			w.WriteString("<td>")
			if err := r.htmlInline(w, cell.Content, 0); err != nil {
				return err
			}
			w.WriteString("</td>")
		}
		w.WriteString("</tr>\n")
	}
	w.WriteString("</tbody>\n</table>\n")
	return nil
}

func (r *Renderer) htmlLink(w *strings.Builder, title, class string) {
	if r.isFilterTag(title) {
		return
	}
	href, ok := r.href(title)
	if !ok {
		w.WriteString(html.EscapeString(title))
		return
	}
	fmt.Fprintf(w, `<a class="%s" href="%s">%s</a>`, class, html.EscapeString(href), html.EscapeString(title))
}

func (r *Renderer) htmlInline(w *strings.Builder, list []parser.Expr, depth int) error {
	for _, x := range list {
		switch x := x.(type) {
		case parser.Text:
			w.WriteString(html.EscapeString(string(x)))

		case parser.Link:
			r.htmlLink(w, string(x), "link")

		case parser.Hashtag:
			if !x.Dotted {
				r.htmlLink(w, x.Tag, "tag")
			}

		case parser.BlockRef:
			if err := r.htmlBlockRef(w, string(x), depth); err != nil {
				return err
			}

		case parser.BraceDirective:
			if done, ok := checkbox(string(x)); ok {
				if done {
					w.WriteString(`<input type="checkbox" disabled checked>`)
				} else {
					w.WriteString(`<input type="checkbox" disabled>`)
				}
			}

		case parser.Table:
			// Rendered from the block's children.

		case parser.Image:
			fmt.Fprintf(w, `<img src="%s" alt="%s">`, html.EscapeString(x.URL), html.EscapeString(x.Alt))

		case parser.MarkdownLink:
			fmt.Fprintf(w, `<a href="%s">%s</a>`, html.EscapeString(x.URL), html.EscapeString(x.Title))

		case parser.RawHyperlink:
			u := html.EscapeString(string(x))
			fmt.Fprintf(w, `<a href="%s">%s</a>`, u, u)

		case parser.Bold:
			w.WriteString("<strong>")
			if err := r.htmlInline(w, x, depth); err != nil {
				return err
			}
			w.WriteString("</strong>")

		case parser.BlockQuote:
			w.WriteString("<blockquote>")
			if err := r.htmlInline(w, x, depth); err != nil {
				return err
			}
			w.WriteString("</blockquote>")

		case parser.SingleBacktick:
			fmt.Fprintf(w, "<code>%s</code>", html.EscapeString(string(x)))

		case parser.TripleBacktick:
			lang, code := highlight.SplitLanguage(string(x))
			if r.hl == nil {
				fmt.Fprintf(w, "<pre><code>%s</code></pre>", html.EscapeString(code))
				continue
			}
			out, err := r.hl.Highlight(code, lang)
			if err != nil {
				return err
			}
			w.WriteString(out)

		case parser.Attribute:
			fmt.Fprintf(w, `<span class="attr-name">%s:</span> `, html.EscapeString(strings.TrimSpace(x.Name)))
			if err := r.htmlInline(w, x.Value, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) htmlBlockRef(w *strings.Builder, uid string, depth int) error {
	target, ok := r.g.BlockByUID(uid)
	if !ok || depth >= maxRefDepth {
		w.WriteString(html.EscapeString(uid))
		return nil
	}

	if target.IsPage() {
		r.htmlLink(w, target.Title, "link")
		return nil
	}

	var inner strings.Builder
	if err := r.htmlInline(&inner, target.Content, depth+1); err != nil {
		return err
	}

	if href, ok := r.blockHref(target); ok {
		fmt.Fprintf(w, `<span class="block-ref" data-href="%s">%s</span>`, html.EscapeString(href), inner.String())
	} else {
		fmt.Fprintf(w, `<span class="block-ref">%s</span>`, inner.String())
	}
	return nil
}
