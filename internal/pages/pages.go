// Package pages decides which pages of a graph are exported and where.
package pages

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/logger"
)

// Ref identifies an exported page.
type Ref struct {
	ID    int
	Title string
	Slug  string
	UID   string
}

// Selection is the set of exported pages.
type Selection struct {
	ByTitle map[string]Ref
	ByID    map[int]Ref

	// Excluded lists titles of pages that matched a filter tag but were
	// left out, sorted.
	Excluded []string

	// FilterTags are the page ids of the include and also tags.
	FilterTags []int

	// IncludeUID is the uid of the include tag page, or "" with include_all
	// and no include tag. TagsAttrUID is the uid of the tags attribute page.
	IncludeUID  string
	TagsAttrUID string
}

// Refs returns the selected pages sorted by slug.
func (s *Selection) Refs() []Ref {
	refs := make([]Ref, 0, len(s.ByID))
	for _, r := range s.ByID {
		refs = append(refs, r)
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Slug < refs[j].Slug
	})
	return refs
}

// Lookup returns the exported page with the given id.
func (s *Selection) Lookup(id int) (Ref, bool) {
	r, ok := s.ByID[id]
	return r, ok
}

// TitleToSlug turns a page title into a file name. Words are split on
// whitespace, '/', '-' and ':', stripped of everything but letters and
// digits, lowercased and joined with '_'.
func TitleToSlug(title string) string {
	words := strings.FieldsFunc(title, func(r rune) bool {
		return unicode.IsSpace(r) || r == '/' || r == '-' || r == ':'
	})

	var out []string
	for _, w := range words {
		var b strings.Builder
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteString(strings.ToLower(string(r)))
			}
		}
		if b.Len() > 0 {
			out = append(out, b.String())
		}
	}
	return strings.Join(out, "_")
}

// Select applies the tag filters in cfg to g.
func Select(g *graph.Graph, cfg *config.Config, log *logger.Logger) (*Selection, error) {
	if log == nil {
		log = logger.Discard()
	}

	var filterTags []string
	if cfg.Include != "" {
		filterTags = append(filterTags, cfg.Include)
	}
	filterTags = append(filterTags, cfg.Also...)

	sel := &Selection{
		ByTitle: make(map[string]Ref),
		ByID:    make(map[int]Ref),
	}

	for _, tag := range filterTags {
		p, ok := g.PageByTitle(tag)
		if !ok {
			return nil, fmt.Errorf("could not find page with filter name %s: %w", tag, graph.ErrNotFound)
		}
		sel.FilterTags = append(sel.FilterTags, p.ID)
	}

	var excludeTags []int
	for _, tag := range cfg.Exclude {
		p, ok := g.PageByTitle(tag)
		if !ok {
			return nil, fmt.Errorf("could not find page with excluded filter name %s: %w", tag, graph.ErrNotFound)
		}
		excludeTags = append(excludeTags, p.ID)
	}

	tagsAttr, ok := g.PageByTitle(cfg.TagsAttr)
	if !ok {
		return nil, fmt.Errorf("could not find tags attribute %s: %w", cfg.TagsAttr, graph.ErrNotFound)
	}
	sel.TagsAttrUID = tagsAttr.UID

	if p, ok := g.PageByTitle(cfg.Include); ok {
		sel.IncludeUID = p.UID
	}

	excluded := make(map[int]bool)
	for _, b := range g.BlocksWithReferences(excludeTags) {
		excluded[b.Page] = true
	}
	for _, id := range excludeTags {
		excluded[id] = true
	}

	var candidates []*graph.Block
	if cfg.IncludeAll {
		for _, p := range g.Pages() {
			if !p.Stub {
				candidates = append(candidates, p)
			}
		}
	} else {
		seen := make(map[int]bool)
		for _, b := range g.BlocksWithReferences(sel.FilterTags) {
			if seen[b.Page] {
				continue
			}
			seen[b.Page] = true
			p, _ := g.Get(b.Page)
			candidates = append(candidates, p)
		}
	}

	slugs := make(map[string]string)
	var skipped []string
	for _, p := range candidates {
		switch {
		case excluded[p.ID]:
			log.PageExcluded(p.Title, "excluded tag")
			skipped = append(skipped, p.Title)
			continue
		case p.DailyNote && !cfg.AllowDailyNotes:
			log.PageExcluded(p.Title, "daily note")
			skipped = append(skipped, p.Title)
			continue
		}

		slug := TitleToSlug(p.Title)
		if sel.IncludeUID != "" {
			// The page sets its file name through the include tag attribute.
			if v, ok := p.Attrs[sel.IncludeUID]; ok && v.Raw != "" {
				slug = v.Raw
			}
		}

		if slug == "" {
			slug = p.UID
		}
		if other, taken := slugs[slug]; taken {
			log.Warn("slug already in use, adding the page uid", "slug", slug, "title", p.Title, "other", other)
			slug += "_" + p.UID
		}
		slugs[slug] = p.Title

		ref := Ref{ID: p.ID, Title: p.Title, Slug: slug, UID: p.UID}
		sel.ByTitle[p.Title] = ref
		sel.ByID[p.ID] = ref
	}

	sort.Strings(skipped)
	sel.Excluded = skipped

	return sel, nil
}

// Tags returns the tags set on a page through the tags attribute. Values are
// split on commas with link and hashtag markers removed.
func Tags(page *graph.Block, tagsAttrUID string) []string {
	v, ok := page.Attrs[tagsAttrUID]
	if !ok {
		return nil
	}

	var tags []string
	for _, t := range strings.Split(v.Raw, ",") {
		t = strings.TrimSpace(t)
		t = strings.TrimPrefix(t, "#")
		t = strings.TrimPrefix(t, "[[")
		t = strings.TrimSuffix(t, "]]")
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
