// Package styles holds the terminal palette shared by commands and the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Pink   = "#FF6188" // failures, titles
	Orange = "#FC9867" // pruned and excluded pages
	Yellow = "#FFD866"
	Green  = "#A9DC76" // written pages
	Cyan   = "#78DCE8" // unchanged pages, dry-run changes
	Violet = "#AB9DF2" // output paths

	Comment = "#727072"
	Border  = "#5B595C"
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// Text styles
var (
	SuccessStyle    = fg(Green)
	ErrorStyle      = fg(Pink)
	WarningStyle    = fg(Orange)
	InfoStyle       = fg(Cyan)
	PathStyle       = fg(Violet)
	DimStyle        = fg(Comment)
	HelpStyle       = fg(Comment)
	NormalTextStyle = fg(Foreground)
	SpinnerStyle    = fg(Pink)
	TitleStyle      = fg(Pink).Bold(true)
	HighlightStyle  = fg(Yellow).Bold(true)
)

// Table styles used by the status view
var (
	HeaderStyle = fg(Pink).Bold(true)

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))
)
