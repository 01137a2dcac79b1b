package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/gerunddev/roampages/internal/build"
	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/diff"
	"github.com/gerunddev/roampages/internal/graph"
	"github.com/gerunddev/roampages/internal/logger"
	"github.com/gerunddev/roampages/internal/state"
	"github.com/gerunddev/roampages/internal/styles"
	"github.com/gerunddev/roampages/internal/tui"
)

// Build renders the selected pages of the graph into the output directory
func Build(args []string) {
	var (
		configPath string
		dryRun     bool
		noTUI      bool
		verbose    bool
		prune      bool
		workers    int
	)

	flags := pflag.NewFlagSet("build", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", config.ConfigPath(), "Config file")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "Show what would change without writing anything")
	flags.BoolVar(&noTUI, "no-tui", false, "Print plain progress instead of the interactive display")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log to stderr at debug level")
	flags.BoolVar(&prune, "prune", false, "Remove pages written by earlier builds that are no longer exported")
	flags.IntVarP(&workers, "workers", "j", 0, "Pages rendered in parallel (0 uses the config)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roampages build [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(args)

	cfg := loadConfig(configPath)
	if workers > 0 {
		cfg.Workers = workers
	}
	if prune {
		cfg.Prune = true
	}

	log, cleanup := setupLogger(cfg, verbose)
	log.ConfigLoaded(configPath, cfg.Graph, cfg.Output)

	code := runBuild(cfg, log, dryRun, !noTUI && !verbose && isTerminal(os.Stdout))
	cleanup()
	os.Exit(code)
}

// runBuild loads the graph and state, builds, and reports. It returns the
// process exit code.
func runBuild(cfg *config.Config, log *logger.Logger, dryRun, interactive bool) int {
	errorStyle := styles.ErrorStyle
	dimStyle := styles.DimStyle

	if dryRun {
		fmt.Println(styles.TitleStyle.Render("roampages build (DRY RUN)"))
	} else {
		fmt.Println(styles.TitleStyle.Render("roampages build"))
	}
	fmt.Printf("%s → %s\n\n", dimStyle.Render(cfg.Graph), dimStyle.Render(cfg.Output))

	g, err := graph.Load(cfg.Graph, log)
	if err != nil {
		fmt.Println(errorStyle.Render("✗ Error loading graph: " + err.Error()))
		return 1
	}

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		log.StateError("load", err)
		fmt.Println(errorStyle.Render("✗ Error loading state: " + err.Error()))
		return 1
	}

	builder := build.NewBuilder(cfg, g, st)
	builder.SetLogger(log)
	builder.SetDryRun(dryRun)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *build.Result
	if interactive {
		result, err = buildInteractive(ctx, builder)
	} else {
		builder.SetProgress(printEvent)
		result, err = builder.Build(ctx)
		fmt.Print(tui.Summary(result, err))
	}

	if dryRun && result != nil {
		printDiffs(result.Diffs)
	}

	if err != nil || (result != nil && len(result.Errors) > 0) {
		return 1
	}
	return 0
}

// buildInteractive runs the build behind the progress display
func buildInteractive(ctx context.Context, builder *build.Builder) (*build.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := tui.InitBuildModel(cancel)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin))
	builder.SetProgress(func(e build.Event) {
		p.Send(tui.BuildEventMsg(e))
	})

	var (
		result *build.Result
		err    error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, err = builder.Build(ctx)
		p.Send(tui.BuildDoneMsg{Result: result, Err: err})
	}()

	if _, runErr := p.Run(); runErr != nil {
		cancel()
		<-done
		return result, runErr
	}
	<-done
	return result, err
}

func printEvent(e build.Event) {
	if e.Kind != build.EventPage {
		return
	}

	progress := styles.DimStyle.Render(fmt.Sprintf("[%d/%d]", e.Done, e.Total))
	switch e.Status {
	case build.StatusWritten:
		fmt.Printf("%s %s %s\n", progress, styles.SuccessStyle.Render("✓"), e.Title)
	case build.StatusUnchanged:
		fmt.Printf("%s %s %s\n", progress, styles.DimStyle.Render("="), e.Title)
	case build.StatusDiff:
		fmt.Printf("%s %s %s\n", progress, styles.InfoStyle.Render("~"), e.Title)
	default:
		fmt.Printf("%s %s %s: %v\n", progress, styles.ErrorStyle.Render("✗"), e.Title, e.Err)
	}
}

func printDiffs(diffs map[string]string) {
	if len(diffs) == 0 {
		return
	}

	paths := make([]string, 0, len(diffs))
	for p := range diffs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	width := terminalWidth()
	for _, p := range paths {
		fmt.Println()
		fmt.Println(styles.PathStyle.Render(p))
		fmt.Print(diff.Render(diffs[p], width))
	}
}
