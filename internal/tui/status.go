package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gerunddev/roampages/internal/styles"
)

var (
	labelStyle = styles.DimStyle
	valueStyle = styles.NormalTextStyle
)

// PageRow describes one page recorded in the state file
type PageRow struct {
	Title   string
	Path    string
	Written time.Time
	Missing bool
}

// StatusData holds all the information for the status display
type StatusData struct {
	Graph     string
	Output    string
	StateFile string
	LastBuild time.Time
	LastCount int
	Pages     []PageRow
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

type statusModel struct {
	spinner  spinner.Model
	data     *StatusData
	table    table.Model
	err      error
	scanning bool
	width    int
	height   int
}

// InitStatusModel creates a new status display model
func InitStatusModel() statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	columns := []table.Column{
		{Title: "Page", Width: 32},
		{Title: "Path", Width: 36},
		{Title: "Written", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	ts := table.DefaultStyles()
	ts.Header = styles.HeaderStyle.
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true)
	ts.Selected = styles.SelectedStyle
	t.SetStyles(ts)

	return statusModel{
		spinner:  s,
		scanning: true,
		table:    t,
	}
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Height > 20 {
			m.table.SetHeight(msg.Height - 16)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k", "down", "j", "pgup", "pgdown", "home", "end":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case StatusMsg:
		m.scanning = false
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			m.table.SetRows(statusRows(m.data.Pages, m.data.Output))
		}
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func statusRows(pages []PageRow, output string) []table.Row {
	rows := make([]table.Row, 0, len(pages))
	for _, p := range pages {
		path := strings.TrimPrefix(p.Path, strings.TrimSuffix(output, "/")+"/")
		written := humanize.Time(p.Written)
		if p.Missing {
			written = "missing"
		}
		rows = append(rows, table.Row{p.Title, path, written})
	}
	return rows
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("roampages status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning {
		b.WriteString(fmt.Sprintf("%s Reading state...\n", m.spinner.View()))
		return b.String()
	}

	if m.data == nil {
		return b.String()
	}

	b.WriteString(labelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Graph:      %s\n", valueStyle.Render(m.data.Graph)))
	b.WriteString(fmt.Sprintf("  Output:     %s\n", valueStyle.Render(m.data.Output)))
	b.WriteString(fmt.Sprintf("  State file: %s\n", valueStyle.Render(m.data.StateFile)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Last build"))
	b.WriteString("\n")
	if m.data.LastBuild.IsZero() {
		b.WriteString(fmt.Sprintf("  %s\n", styles.DimStyle.Render("No build found in the log")))
	} else {
		b.WriteString(fmt.Sprintf("  %s, %s page(s) written\n",
			valueStyle.Render(humanize.Time(m.data.LastBuild)),
			valueStyle.Render(humanize.Comma(int64(m.data.LastCount)))))
	}
	b.WriteString("\n")

	missing := 0
	for _, p := range m.data.Pages {
		if p.Missing {
			missing++
		}
	}

	b.WriteString(labelStyle.Render("Pages"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s\n", valueStyle.Render(fmt.Sprintf("%d page(s) tracked", len(m.data.Pages)))))
	if missing > 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.WarningStyle.Render(fmt.Sprintf("● %d page(s) missing from the output", missing))))
	}
	b.WriteString("\n")

	if len(m.data.Pages) > 0 {
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • q/ctrl+c quit"))
	} else {
		b.WriteString(styles.HelpStyle.Render("q/ctrl+c quit"))
	}
	b.WriteString("\n")

	return b.String()
}
