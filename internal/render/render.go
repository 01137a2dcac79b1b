// Package render turns the blocks of a page into HTML or Markdown.
//
// A Renderer is read-only once built and may render pages from several
// goroutines at once.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/highlight"
	"github.com/gerunddev/roampages/internal/pages"
	"github.com/gerunddev/roampages/internal/parser"
)

// maxRefDepth bounds how deep block references are expanded inline.
const maxRefDepth = 8

// Options controls rendering
type Options struct {
	Format    string
	Extension string

	// FilterTag is the title of the include tag. Links and hashtags to it
	// render nothing.
	FilterTag string

	OmitBlocksWithOnlyUnexportedLinks bool
}

// OptionsFromConfig returns the rendering options set in cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Format:                            cfg.Format,
		Extension:                         cfg.Extension,
		FilterTag:                         cfg.Include,
		OmitBlocksWithOnlyUnexportedLinks: cfg.OmitBlocksWithOnlyUnexportedLinks,
	}
}

// Renderer renders the pages of a selection.
type Renderer struct {
	g    *graph.Graph
	sel  *pages.Selection
	hl   *highlight.Highlighter
	opts Options

	// Attribute pages whose blocks are page metadata and not shown.
	hidden map[string]bool
}

// New creates a Renderer.
func New(g *graph.Graph, sel *pages.Selection, hl *highlight.Highlighter, opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = config.FormatHTML
	}
	if opts.Extension == "" {
		opts.Extension = config.DefaultExtension(opts.Format)
	}

	hidden := make(map[string]bool)
	for _, uid := range []string{sel.TagsAttrUID, sel.IncludeUID} {
		if uid != "" {
			hidden[uid] = true
		}
	}

	return &Renderer{g: g, sel: sel, hl: hl, opts: opts, hidden: hidden}
}

// RenderPage renders the body of the page with the given id.
func (r *Renderer) RenderPage(id int) (string, error) {
	page, ok := r.g.Get(id)
	if !ok || !page.IsPage() {
		return "", fmt.Errorf("page %d: %w", id, graph.ErrNotFound)
	}

	var b strings.Builder
	var err error
	switch r.opts.Format {
	case config.FormatMarkdown:
		err = r.markdownBlocks(&b, r.g.ChildBlocks(page), 0)
	default:
		err = r.htmlBlocks(&b, r.g.ChildBlocks(page))
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", page.Title, err)
	}
	return b.String(), nil
}

// href returns the link to an exported page, or false when the page is not
// exported.
func (r *Renderer) href(title string) (string, bool) {
	ref, ok := r.sel.ByTitle[title]
	if !ok {
		return "", false
	}
	return r.pageURL(ref), true
}

// pageURL escapes each segment of a slug, which may name a subdirectory.
func (r *Renderer) pageURL(ref pages.Ref) string {
	segments := strings.Split(ref.Slug, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/") + "." + r.opts.Extension
}

// blockHref returns the link to a block on an exported page.
func (r *Renderer) blockHref(b *graph.Block) (string, bool) {
	ref, ok := r.sel.Lookup(b.Page)
	if !ok {
		return "", false
	}
	return r.pageURL(ref) + "#" + url.PathEscape(b.UID), true
}

func (r *Renderer) isFilterTag(title string) bool {
	return r.opts.FilterTag != "" && title == r.opts.FilterTag
}

// visible reports whether a block is shown at all.
func (r *Renderer) visible(b *graph.Block) bool {
	if a, ok := parser.Attr(b.Content); ok {
		if p, ok := r.g.PageByTitle(strings.TrimSpace(a.Name)); ok && r.hidden[p.UID] {
			return false
		}
	}
	if r.opts.OmitBlocksWithOnlyUnexportedLinks && r.onlyUnexportedLinks(b.Content) {
		return false
	}
	return true
}

// onlyUnexportedLinks reports whether list holds nothing but whitespace and
// links to pages that are not exported.
func (r *Renderer) onlyUnexportedLinks(list []parser.Expr) bool {
	links := 0
	for _, x := range list {
		var title string
		switch x := x.(type) {
		case parser.Text:
			if strings.TrimSpace(string(x)) != "" {
				return false
			}
			continue
		case parser.Link:
			title = string(x)
		case parser.Hashtag:
			if x.Dotted {
				continue
			}
			title = x.Tag
		default:
			return false
		}
		if _, ok := r.sel.ByTitle[title]; ok {
			return false
		}
		links++
	}
	return links > 0
}

// classes returns the CSS classes a block sets with dotted hashtags.
func classes(b *graph.Block) []string {
	var out []string
	parser.Walk(b.Content, func(x parser.Expr) bool {
		if h, ok := x.(parser.Hashtag); ok && h.Dotted {
			out = append(out, h.Tag)
		}
		return true
	})
	return out
}

func hasTable(b *graph.Block) bool {
	found := false
	parser.Walk(b.Content, func(x parser.Expr) bool {
		if _, ok := x.(parser.Table); ok {
			found = true
		}
		return !found
	})
	return found
}

// tableRows lays out the children of a table block. Each child is a row and
// its chain of first children are the cells.
func (r *Renderer) tableRows(b *graph.Block) [][]*graph.Block {
	var rows [][]*graph.Block
	for _, child := range r.g.ChildBlocks(b) {
		var row []*graph.Block
		for cell := child; cell != nil; {
			row = append(row, cell)
			next := r.g.ChildBlocks(cell)
			if len(next) == 0 {
				break
			}
			cell = next[0]
		}
		rows = append(rows, row)
	}
	return rows
}

// checkbox returns whether a directive is a TODO or DONE marker and which.
func checkbox(name string) (done, ok bool) {
	switch name {
	case "TODO":
		return false, true
	case "DONE":
		return true, true
	}
	return false, false
}
