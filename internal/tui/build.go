package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/gerunddev/roampages/internal/build"
	"github.com/gerunddev/roampages/internal/styles"
)

// BuildEventMsg forwards a build event to the program
type BuildEventMsg build.Event

// BuildDoneMsg is sent when the build returns
type BuildDoneMsg struct {
	Result *build.Result
	Err    error
}

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner   spinner.Model
	status    string
	current   string
	done      int
	total     int
	written   int
	unchanged int
	failed    int
	width     int
	complete  bool
	cancelled bool
	result    *build.Result
	err       error
	cancel    func()
}

// InitBuildModel creates a new build progress model. cancel is called when
// the user interrupts the build.
func InitBuildModel(cancel func()) buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  "Selecting pages...",
		width:   80,
		cancel:  cancel,
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil && !m.cancelled {
				m.cancel()
				m.cancelled = true
				m.status = "Cancelling..."
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case BuildEventMsg:
		switch msg.Kind {
		case build.EventStarted:
			m.total = msg.Total
			m.status = "Rendering pages"
		case build.EventPage:
			m.done = msg.Done
			m.current = msg.Title
			switch msg.Status {
			case build.StatusWritten:
				m.written++
			case build.StatusUnchanged:
				m.unchanged++
			case build.StatusFailed:
				m.failed++
			}
		case build.EventDone:
			m.status = "Finishing"
		}
		return m, nil

	case BuildDoneMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if m.complete {
		return Summary(m.result, m.err)
	}

	line := fmt.Sprintf("%s %s", m.spinner.View(), m.status)
	if m.total > 0 {
		line += styles.DimStyle.Render(fmt.Sprintf(" %d/%d", m.done, m.total))
	}
	if m.current != "" {
		room := m.width - len(line) - 4
		if room > 10 {
			line += "  " + styles.HighlightStyle.Render(truncate.StringWithTail(m.current, uint(room), "…"))
		}
	}

	return "\n" + line + "\n\n" + styles.HelpStyle.Render("q: cancel") + "\n"
}

// Summary describes a finished build for the terminal
func Summary(result *build.Result, err error) string {
	if result == nil {
		if err == nil {
			return ""
		}
		return styles.ErrorStyle.Render("✗ Build failed: "+err.Error()) + "\n"
	}

	var b strings.Builder
	if err != nil {
		b.WriteString(styles.ErrorStyle.Render("✗ Build failed: "+err.Error()) + "\n")
	}

	switch {
	case result.Pages == 0:
		b.WriteString(styles.WarningStyle.Render("✓ No pages selected") + "\n")
	case result.Written == 0 && len(result.Diffs) == 0:
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ %s page(s) up to date", humanize.Comma(int64(result.Pages)))) + "\n")
	default:
		msg := styles.SuccessStyle.Render(fmt.Sprintf("✓ Wrote %s page(s)", humanize.Comma(int64(result.Written))))
		if result.Bytes > 0 {
			msg += styles.DimStyle.Render(fmt.Sprintf(" (%s)", humanize.Bytes(uint64(result.Bytes))))
		}
		if len(result.Diffs) > 0 {
			msg = styles.InfoStyle.Render(fmt.Sprintf("✓ %d page(s) would change", len(result.Diffs)))
		}
		if result.Unchanged > 0 {
			msg += ", " + styles.InfoStyle.Render(fmt.Sprintf("%d unchanged", result.Unchanged))
		}
		b.WriteString(msg + "\n")
	}

	if len(result.Pruned) > 0 {
		b.WriteString(styles.WarningStyle.Render(fmt.Sprintf("  %d stale page(s) pruned", len(result.Pruned))) + "\n")
	}
	if len(result.Excluded) > 0 {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  %d page(s) excluded", len(result.Excluded))) + "\n")
	}
	for _, e := range result.Errors {
		b.WriteString(styles.ErrorStyle.Render("  ✗ "+e.Error()) + "\n")
	}

	if !result.EndTime.IsZero() {
		duration := result.EndTime.Sub(result.StartTime)
		b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", duration.Round(time.Millisecond))) + "\n")
	}
	return b.String()
}
