package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/gerunddev/roampages/internal/config"
	"github.com/gerunddev/roampages/internal/state"
	"github.com/gerunddev/roampages/internal/styles"
	"github.com/gerunddev/roampages/internal/tui"
)

// Status displays the pages recorded by earlier builds
func Status(args []string) {
	var configPath string

	flags := pflag.NewFlagSet("status", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", config.ConfigPath(), "Config file")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: roampages status [flags]\n\nFlags:\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(args)

	cfg := loadConfig(configPath)

	if !isTerminal(os.Stdout) {
		data, err := statusData(cfg)
		if err != nil {
			fmt.Println(styles.ErrorStyle.Render("✗ Error loading state: " + err.Error()))
			os.Exit(1)
		}
		printStatus(data)
		return
	}

	p := tea.NewProgram(tui.InitStatusModel(), tea.WithInput(os.Stdin))
	go func() {
		data, err := statusData(cfg)
		p.Send(tui.StatusMsg{Data: data, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		os.Exit(1)
	}
}

// statusData collects the tracked pages and the last build from the log
func statusData(cfg *config.Config) (*tui.StatusData, error) {
	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return nil, err
	}

	data := &tui.StatusData{
		Graph:     cfg.Graph,
		Output:    cfg.Output,
		StateFile: cfg.StateFile,
	}
	if cfg.LogFile != "" {
		_, data.LastBuild, data.LastCount = ParseLogFile(cfg.LogFile, 500)
	}

	for _, path := range st.Paths() {
		row := tui.PageRow{
			Title:   st.Pages[path].Title,
			Path:    path,
			Written: st.GetWritten(path),
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			row.Missing = true
		}
		data.Pages = append(data.Pages, row)
	}
	return data, nil
}

func printStatus(data *tui.StatusData) {
	fmt.Printf("Graph:  %s\nOutput: %s\nState:  %s\n", data.Graph, data.Output, data.StateFile)
	if !data.LastBuild.IsZero() {
		fmt.Printf("Last build %s, %d page(s) written\n", humanize.Time(data.LastBuild), data.LastCount)
	}
	fmt.Printf("\n%d page(s) tracked\n", len(data.Pages))
	for _, p := range data.Pages {
		mark := " "
		if p.Missing {
			mark = "!"
		}
		fmt.Printf("%s %-40s %s\n", mark, p.Title, p.Path)
	}
}
