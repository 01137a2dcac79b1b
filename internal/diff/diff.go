package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff turning old into new. Both sides are named
// after path. It returns "" when the contents are equal.
func Unified(path, old, new string) string {
	if old == new {
		return ""
	}
	name := filepath.Base(path)
	edits := myers.ComputeEdits(span.URIFromPath(name), old, new)
	return fmt.Sprint(gotextdiff.ToUnified(name, name, old, edits))
}

// File diffs the file at path against the content a build would write. A
// missing file diffs as empty.
func File(path string, content []byte) (string, error) {
	old, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Unified(path, string(old), string(content)), nil
}

// Render formats a unified diff for the terminal
func Render(unified string, width int) string {
	if unified == "" {
		return ""
	}

	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	if width <= 0 {
		width = 120
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown
	}

	return rendered
}
