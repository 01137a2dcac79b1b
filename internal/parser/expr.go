package parser

// Expr is a node in the expression tree of a single block.
// The set of implementations is closed: only the types in this file satisfy it.
type Expr interface {
	expr()
}

// Text is a literal run. Adjacent literal characters are always coalesced.
type Text string

// BlockRef references another block by its uid: ((uid))
type BlockRef string

// Link references a page by title: [[title]]
type Link string

// Hashtag references a page by title: #tag, #[[a tag]] or #.tag (Dotted)
type Hashtag struct {
	Tag    string
	Dotted bool
}

// BraceDirective is an opaque {{directive}}
type BraceDirective string

// Table is the {{table}} directive
type Table struct{}

// Image is ![alt](url)
type Image struct {
	Alt string
	URL string
}

// MarkdownLink is [title](url)
type MarkdownLink struct {
	Title string
	URL   string
}

// RawHyperlink is an unbracketed http:// or https:// URL in running text
type RawHyperlink string

// Bold is **children**
type Bold []Expr

// BlockQuote is a block starting with "> "
type BlockQuote []Expr

// SingleBacktick is `code`. Its content is never parsed.
type SingleBacktick string

// TripleBacktick is ```code```. Its content is never parsed.
type TripleBacktick string

// Attribute is a "Name:: value" pair at the head of a block
type Attribute struct {
	Name  string
	Value []Expr
}

func (Text) expr()           {}
func (BlockRef) expr()       {}
func (Link) expr()           {}
func (Hashtag) expr()        {}
func (BraceDirective) expr() {}
func (Table) expr()          {}
func (Image) expr()          {}
func (MarkdownLink) expr()   {}
func (RawHyperlink) expr()   {}
func (Bold) expr()           {}
func (BlockQuote) expr()     {}
func (SingleBacktick) expr() {}
func (TripleBacktick) expr() {}
func (Attribute) expr()      {}
