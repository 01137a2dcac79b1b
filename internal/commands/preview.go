package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/pflag"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/highlight"
	"github.com/gerunddev/roampages/internal/logger"
	"github.com/gerunddev/roampages/internal/pages"
	"github.com/gerunddev/roampages/internal/render"
	"github.com/gerunddev/roampages/internal/styles"
)

// Preview renders one page to the terminal without writing anything
func Preview(args []string) {
	var (
		configPath string
		html       bool
		raw        bool
		width      int
	)

	flags := pflag.NewFlagSet("preview", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", config.ConfigPath(), "Config file")
	flags.BoolVar(&html, "html", false, "Print the HTML body instead of Markdown")
	flags.BoolVarP(&raw, "raw", "r", false, "Print Markdown without terminal styling")
	flags.IntVarP(&width, "width", "w", 0, "Output width (0 uses terminal width if available)")
	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roampages preview [flags] <page title>\n\nFlags:\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(args)

	if flags.NArg() == 0 {
		flags.Usage()
		os.Exit(2)
	}
	title := strings.Join(flags.Args(), " ")

	cfg := loadConfig(configPath)
	if width <= 0 {
		width = terminalWidth()
	}

	out, err := preview(cfg, title, html, raw, width)
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ " + err.Error()))
		os.Exit(1)
	}
	fmt.Print(out)
}

// preview renders the page with the given title. Pages outside the export
// can be previewed too; links from them still only reach exported pages.
func preview(cfg *config.Config, title string, html, raw bool, width int) (string, error) {
	g, err := graph.Load(cfg.Graph, logger.Discard())
	if err != nil {
		return "", fmt.Errorf("failed to load graph: %w", err)
	}

	page, ok := g.PageByTitle(title)
	if !ok {
		return "", fmt.Errorf("page %q: %w", title, graph.ErrNotFound)
	}

	sel, err := pages.Select(g, cfg, logger.Discard())
	if err != nil {
		return "", err
	}

	opts := render.OptionsFromConfig(cfg)
	opts.Format = config.FormatMarkdown
	opts.Extension = config.DefaultExtension(config.FormatMarkdown)
	var hl *highlight.Highlighter
	if html {
		opts.Format = config.FormatHTML
		opts.Extension = cfg.Extension
		hl = highlight.New(cfg.HighlightStyle)
	}

	body, err := render.New(g, sel, hl, opts).RenderPage(page.ID)
	if err != nil {
		return "", err
	}

	if html {
		return body + "\n", nil
	}

	doc := "# " + page.Title + "\n\n" + body
	if raw {
		return doc, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return doc, nil
	}
	rendered, err := renderer.Render(doc)
	if err != nil {
		return doc, nil
	}
	return rendered, nil
}
