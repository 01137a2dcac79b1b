// Package template wraps rendered page bodies into complete documents.
package template

import (
	"bytes"
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/roampages/internal/config"
)

//go:embed page.html.tmpl
var defaultHTML string

// Args are the values a page template can use
type Args struct {
	Title string
	Body  string
	Tags  []string

	// Roam timestamps in milliseconds since the epoch
	CreatedTime int64
	EditedTime  int64
}

// Template composes documents in one output format
type Template struct {
	format string
	html   *htmltemplate.Template
}

var funcs = htmltemplate.FuncMap{
	"date": func(ms int64) string {
		return msTime(ms).Format("January 2, 2006")
	},
	"isodate": func(ms int64) string {
		return msTime(ms).Format(time.RFC3339)
	},
}

func msTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// New returns a Template for format. For HTML, path names a template file to
// use instead of the built-in one; Markdown output ignores it.
func New(format, path string) (*Template, error) {
	t := &Template{format: format}
	if format == config.FormatMarkdown {
		return t, nil
	}

	text := defaultHTML
	name := "page"
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}
		text = string(data)
		name = path
	}

	tmpl, err := htmltemplate.New(name).Funcs(funcs).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	t.html = tmpl
	return t, nil
}

// Render returns the complete document for a page
func (t *Template) Render(args Args) ([]byte, error) {
	if t.format == config.FormatMarkdown {
		return renderMarkdown(args)
	}

	data := struct {
		Args
		Body htmltemplate.HTML
	}{
		Args: args,
		// The body is produced by the renderer, which escapes all text.
		Body: htmltemplate.HTML(args.Body),
	}

	var buf bytes.Buffer
	if err := t.html.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Tags    []string `yaml:"tags,omitempty"`
	Created string   `yaml:"created,omitempty"`
	Edited  string   `yaml:"edited,omitempty"`
}

func renderMarkdown(args Args) ([]byte, error) {
	fm := frontMatter{Title: args.Title, Tags: args.Tags}
	if args.CreatedTime > 0 {
		fm.Created = msTime(args.CreatedTime).Format(time.RFC3339)
	}
	if args.EditedTime > 0 {
		fm.Edited = msTime(args.EditedTime).Format(time.RFC3339)
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(data)
	buf.WriteString("---\n\n")
	buf.WriteString(args.Body)
	return buf.Bytes(), nil
}
