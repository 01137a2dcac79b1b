package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/roampages/internal/config"
)

var testArgs = Args{
	Title:       "Astrolabes & Co",
	Body:        "<ul>\n<li id=\"a\">text</li>\n</ul>\n",
	Tags:        []string{"history", "instruments"},
	CreatedTime: 1600000000000,
	EditedTime:  1700000000000,
}

func TestRenderHTML(t *testing.T) {
	tmpl, err := New(config.FormatHTML, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := tmpl.Render(testArgs)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	doc := string(out)

	tests := []struct {
		name     string
		contains string
	}{
		{name: "escaped title", contains: "<title>Astrolabes &amp; Co</title>"},
		{name: "raw body", contains: testArgs.Body},
		{name: "tags", contains: "<li>history</li>"},
		{name: "created date", contains: "Created September 13, 2020"},
		{name: "edited datetime", contains: `datetime="2023-11-14T22:13:20Z"`},
		{name: "style sheet", contains: `href="highlight.css"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(doc, tt.contains) {
				t.Errorf("Render() = %s\nwant it to contain %q", doc, tt.contains)
			}
		})
	}
}

func TestRenderHTMLWithoutTimes(t *testing.T) {
	tmpl, err := New(config.FormatHTML, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := tmpl.Render(Args{Title: "Bare", Body: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(out), "<time") || strings.Contains(string(out), `class="tags"`) {
		t.Errorf("Render() = %s, want no times or tags", out)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.tmpl")
	custom := `<h1>{{ .Title }}</h1>{{ .Body }}{{ range .Tags }}[{{ . }}]{{ end }} {{ date .EditedTime }}`
	if err := os.WriteFile(path, []byte(custom), 0644); err != nil {
		t.Fatal(err)
	}

	tmpl, err := New(config.FormatHTML, path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out, err := tmpl.Render(testArgs)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	expected := "<h1>Astrolabes &amp; Co</h1>" + testArgs.Body + "[history][instruments] November 14, 2023"
	if string(out) != expected {
		t.Errorf("Render() = %q, want %q", out, expected)
	}
}

func TestNewErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.tmpl")
	if err := os.WriteFile(bad, []byte("{{ .Title "), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(config.FormatHTML, filepath.Join(dir, "missing.tmpl")); err == nil {
		t.Error("New() with a missing template succeeded")
	}
	if _, err := New(config.FormatHTML, bad); err == nil {
		t.Error("New() with an unparsable template succeeded")
	}
}

func TestRenderMarkdown(t *testing.T) {
	tmpl, err := New(config.FormatMarkdown, "ignored.tmpl")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	args := testArgs
	args.Body = "- text\n"
	out, err := tmpl.Render(args)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	doc := string(out)
	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("Render() = %q, want front matter", doc)
	}
	rest := strings.TrimPrefix(doc, "---\n")
	head, body, ok := strings.Cut(rest, "---\n\n")
	if !ok {
		t.Fatalf("Render() = %q, front matter not closed", doc)
	}
	if body != "- text\n" {
		t.Errorf("body = %q, want %q", body, "- text\n")
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		t.Fatalf("front matter is not YAML: %v", err)
	}
	if fm.Title != "Astrolabes & Co" || len(fm.Tags) != 2 {
		t.Errorf("front matter = %+v", fm)
	}
	if fm.Created != "2020-09-13T12:26:40Z" {
		t.Errorf("created = %q", fm.Created)
	}
}
