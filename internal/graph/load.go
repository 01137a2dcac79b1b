package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/gerunddev/roampages/internal/logger"
	"github.com/gerunddev/roampages/internal/parser"
)

// dailyNoteUID matches the uids Roam gives daily note pages. The JSON export
// carries no log id, so the uid is what marks a daily note.
var dailyNoteUID = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// exportBlock is one entry of the export file. Pages have a title, blocks
// have a string.
type exportBlock struct {
	Title      string        `json:"title"`
	UID        string        `json:"uid"`
	String     string        `json:"string"`
	Heading    int           `json:"heading"`
	Order      *int          `json:"order"`
	CreateTime int64         `json:"create-time"`
	EditTime   int64         `json:"edit-time"`
	Children   []exportBlock `json:"children"`
}

// Load reads the export at path.
func Load(path string, log *logger.Logger) (*Graph, error) {
	if log == nil {
		log = logger.Discard()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph: %w", err)
	}
	defer f.Close()

	g, err := Parse(f, log)
	if err != nil {
		return nil, err
	}
	log.GraphLoaded(path, len(g.Titles), g.Len())
	return g, nil
}

// Parse reads an export from r.
func Parse(r io.Reader, log *logger.Logger) (*Graph, error) {
	if log == nil {
		log = logger.Discard()
	}

	var pages []exportBlock
	if err := json.NewDecoder(r).Decode(&pages); err != nil {
		return nil, fmt.Errorf("failed to parse graph export: %w", err)
	}

	l := &loader{g: newGraph(), log: log}

	// Pages first so that titles resolve regardless of export order.
	roots := make([]*Block, len(pages))
	for i, p := range pages {
		if p.Title == "" {
			return nil, fmt.Errorf("failed to parse graph export: page %d has no title", i)
		}
		if _, dup := l.g.Titles[p.Title]; dup {
			log.Warn("duplicate page title, keeping the first", "title", p.Title)
			continue
		}
		roots[i] = l.addPage(p.Title, p.UID, p.CreateTime, p.EditTime)
	}

	for i, p := range pages {
		if roots[i] == nil {
			continue
		}
		for n, c := range p.Children {
			l.addBlock(roots[i], roots[i], c, n)
		}
	}

	// Stub pages may be appended while resolving, so iterate by index.
	for id := 1; id < len(l.g.blocks); id++ {
		l.resolve(l.g.blocks[id])
	}

	for _, p := range l.g.Pages() {
		l.collectAttrs(p)
	}

	return l.g, nil
}

type loader struct {
	g   *Graph
	log *logger.Logger
}

func (l *loader) addPage(title, uid string, created, edited int64) *Block {
	if uid == "" {
		uid = uuid.NewSHA1(uuid.NameSpaceURL, []byte(title)).String()
	}
	b := l.g.add(&Block{
		UID:        uid,
		Title:      title,
		CreateTime: created,
		EditTime:   edited,
		Attrs:      make(map[string]AttrValue),
		DailyNote:  dailyNoteUID.MatchString(uid),
	})
	b.Page = b.ID
	l.g.Titles[title] = b.ID
	return b
}

func (l *loader) addBlock(page, parent *Block, e exportBlock, n int) {
	text := e.String
	if err := parser.Validate(text); err != nil {
		l.log.BlockRepaired(e.UID, err)
		text = strings.ToValidUTF8(text, "\uFFFD")
	}

	order := n
	if e.Order != nil {
		order = *e.Order
	}

	b := l.g.add(&Block{
		UID:        e.UID,
		String:     text,
		Heading:    e.Heading,
		Page:       page.ID,
		Parent:     parent.ID,
		Order:      order,
		CreateTime: e.CreateTime,
		EditTime:   e.EditTime,
		Content:    parser.Parse(text),
	})
	parent.Children = append(parent.Children, b.ID)

	for i, c := range e.Children {
		l.addBlock(page, b, c, i)
	}
}

// page returns the page titled title, adding a stub when the export has none.
func (l *loader) page(title string) *Block {
	if id, ok := l.g.Titles[title]; ok {
		return l.g.blocks[id]
	}
	b := l.addPage(title, "", 0, 0)
	b.Stub = true
	return b
}

func (l *loader) resolve(b *Block) {
	seen := make(map[int]bool)
	ref := func(id int) {
		if !seen[id] {
			seen[id] = true
			b.Refs = append(b.Refs, id)
		}
	}

	parser.Walk(b.Content, func(x parser.Expr) bool {
		switch x := x.(type) {
		case parser.Link:
			ref(l.page(string(x)).ID)
		case parser.Hashtag:
			ref(l.page(x.Tag).ID)
		case parser.Attribute:
			ref(l.page(strings.TrimSpace(x.Name)).ID)
		case parser.BlockRef:
			if id, ok := l.g.UIDs[string(x)]; ok {
				ref(id)
			}
		}
		return true
	})
}

// collectAttrs records the attributes set by a page's top-level blocks.
func (l *loader) collectAttrs(p *Block) {
	for _, id := range p.Children {
		a, ok := parser.Attr(l.g.blocks[id].Content)
		if !ok {
			continue
		}
		attrPage, ok := l.g.PageByTitle(strings.TrimSpace(a.Name))
		if !ok {
			continue
		}
		p.Attrs[attrPage.UID] = AttrValue{Raw: strings.TrimSpace(parser.PlainText(a.Value))}
	}
}
