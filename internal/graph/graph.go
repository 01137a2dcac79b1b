// Package graph loads a Roam JSON export into an indexed block graph.
//
// Pages are blocks with a title. Every block carries the parsed form of its
// text and the ids of the pages and blocks it references, so the renderer
// never needs to parse twice.
package graph

import (
	"errors"
	"sort"

	"github.com/gerunddev/roampages/internal/parser"
)

// ErrNotFound is returned when a page or block cannot be found in a graph.
var ErrNotFound = errors.New("not found")

// AttrValue is the value of an attribute set on a page through one of its
// top-level blocks.
type AttrValue struct {
	Raw string
}

// Block is a page or a block of a page.
type Block struct {
	ID         int
	UID        string
	Title      string // pages only
	String     string // blocks only
	Heading    int
	Page       int // owning page; a page's own id
	Parent     int // 0 for pages
	Children   []int
	Order      int
	CreateTime int64
	EditTime   int64

	// Refs lists referenced pages and blocks in order of first appearance.
	Refs []int

	// Attrs holds attribute values keyed by the uid of the attribute's page.
	Attrs map[string]AttrValue

	DailyNote bool
	Stub      bool

	Content []parser.Expr
}

// IsPage reports whether b is a page.
func (b *Block) IsPage() bool {
	return b.Parent == 0
}

// Graph is an immutable index over a loaded export.
type Graph struct {
	blocks []*Block // indexed by id; blocks[0] is unused
	Titles map[string]int
	UIDs   map[string]int
}

func newGraph() *Graph {
	return &Graph{
		blocks: []*Block{nil},
		Titles: make(map[string]int),
		UIDs:   make(map[string]int),
	}
}

func (g *Graph) add(b *Block) *Block {
	b.ID = len(g.blocks)
	g.blocks = append(g.blocks, b)
	if b.UID != "" {
		g.UIDs[b.UID] = b.ID
	}
	return b
}

// Get returns the block with the given id.
func (g *Graph) Get(id int) (*Block, bool) {
	if id <= 0 || id >= len(g.blocks) {
		return nil, false
	}
	return g.blocks[id], true
}

// PageByTitle returns the page with the given title.
func (g *Graph) PageByTitle(title string) (*Block, bool) {
	id, ok := g.Titles[title]
	if !ok {
		return nil, false
	}
	return g.blocks[id], true
}

// BlockByUID returns the page or block with the given uid.
func (g *Graph) BlockByUID(uid string) (*Block, bool) {
	id, ok := g.UIDs[uid]
	if !ok {
		return nil, false
	}
	return g.blocks[id], true
}

// Len returns the number of pages and blocks in the graph.
func (g *Graph) Len() int {
	return len(g.blocks) - 1
}

// Pages returns every page in id order, stubs included.
func (g *Graph) Pages() []*Block {
	var pages []*Block
	for _, b := range g.blocks[1:] {
		if b.IsPage() {
			pages = append(pages, b)
		}
	}
	return pages
}

// BlocksWithReferences returns the blocks and pages referencing any of ids,
// in id order.
func (g *Graph) BlocksWithReferences(ids []int) []*Block {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []*Block
	for _, b := range g.blocks[1:] {
		for _, r := range b.Refs {
			if want[r] {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// ChildBlocks returns the children of a block in display order.
func (g *Graph) ChildBlocks(b *Block) []*Block {
	out := make([]*Block, 0, len(b.Children))
	for _, id := range b.Children {
		out = append(out, g.blocks[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}
