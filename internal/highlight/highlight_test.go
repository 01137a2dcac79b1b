package highlight

import (
	"strings"
	"testing"
)

func TestHighlight(t *testing.T) {
	h := New("github")

	out, err := h.Highlight("package main\n\nfunc main() {}\n", "go")
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	if !strings.HasPrefix(out, "<pre") {
		t.Errorf("Highlight() = %q, want a <pre> element", out)
	}
	if !strings.Contains(out, `class="`) {
		t.Errorf("Highlight() = %q, want class based markup", out)
	}
	if strings.Contains(out, "style=") {
		t.Errorf("Highlight() = %q, want no inline styles", out)
	}
	if !strings.Contains(out, "main") {
		t.Errorf("Highlight() lost the code: %q", out)
	}
}

func TestHighlightEscapes(t *testing.T) {
	out, err := New("github").Highlight("<script>alert(1)</script>", "")
	if err != nil {
		t.Fatalf("Highlight() error = %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("Highlight() did not escape markup: %q", out)
	}
}

func TestLexerFallback(t *testing.T) {
	tests := []struct {
		lang     string
		fallback bool
	}{
		{lang: "go", fallback: false},
		{lang: "Python", fallback: false},
		{lang: " rust ", fallback: false},
		{lang: "no-such-language", fallback: true},
		{lang: "", fallback: true},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			name := Lexer(tt.lang).Config().Name
			if isFallback := name == "fallback" || name == "plaintext"; isFallback != tt.fallback {
				t.Errorf("Lexer(%q) = %q, fallback = %v, want %v", tt.lang, name, isFallback, tt.fallback)
			}
		})
	}
}

func TestCSS(t *testing.T) {
	css, err := New("monokai").CSS()
	if err != nil {
		t.Fatalf("CSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CSS() = %q, want .chroma rules", css)
	}
}

func TestSplitLanguage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		lang    string
		code    string
	}{
		{name: "language line", payload: "go\nfmt.Println()", lang: "go", code: "fmt.Println()"},
		{name: "no language", payload: "\nplain", lang: "", code: "plain"},
		{name: "single line", payload: "just code", lang: "", code: "just code"},
		{name: "first line is code", payload: "x := 1\ny := 2", lang: "", code: "x := 1\ny := 2"},
		{name: "trailing space", payload: "js \nlet x", lang: "js", code: "let x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, code := SplitLanguage(tt.payload)
			if lang != tt.lang || code != tt.code {
				t.Errorf("SplitLanguage(%q) = %q, %q, want %q, %q", tt.payload, lang, code, tt.lang, tt.code)
			}
		})
	}
}
