// Package highlight renders code blocks to HTML with chroma.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders code with CSS classes so one style sheet serves every
// page.
type Highlighter struct {
	style     *chroma.Style
	formatter *html.Formatter
}

// New returns a Highlighter for the named chroma style. Unknown styles fall
// back to chroma's default.
func New(style string) *Highlighter {
	return &Highlighter{
		style:     styles.Get(style),
		formatter: html.New(html.WithClasses(true), html.TabWidth(4)),
	}
}

// Lexer returns the lexer for a language name or alias, or the plain text
// lexer when none matches.
func Lexer(lang string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang = strings.TrimSpace(lang); lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Highlight renders code as a <pre> element.
func (h *Highlighter) Highlight(code, lang string) (string, error) {
	it, err := Lexer(lang).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise %s code: %w", lang, err)
	}

	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", fmt.Errorf("failed to format code: %w", err)
	}
	return b.String(), nil
}

// CSS returns the style sheet for the classes Highlight emits.
func (h *Highlighter) CSS() (string, error) {
	var b strings.Builder
	if err := h.formatter.WriteCSS(&b, h.style); err != nil {
		return "", fmt.Errorf("failed to write highlight css: %w", err)
	}
	return b.String(), nil
}

// SplitLanguage splits a fenced code payload into its language line and the
// code. A first line that is not a single word is treated as code.
func SplitLanguage(payload string) (lang, code string) {
	first, rest, found := strings.Cut(payload, "\n")
	first = strings.TrimSpace(first)
	if !found || first == "" || strings.ContainsAny(first, " \t") {
		return "", strings.TrimPrefix(payload, "\n")
	}
	return first, rest
}
