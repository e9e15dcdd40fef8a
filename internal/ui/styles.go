package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor = lipgloss.Color("62")  // bright purple/blue
	dimColor    = lipgloss.Color("240") // dim gray
	okColor     = lipgloss.Color("42")  // green
	warnColor   = lipgloss.Color("214") // orange
)

// Status bar
var (
	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252"))
	statusBarAccentStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(accentColor).
				Bold(true)
	statusBarWarnStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(warnColor).
				Bold(true)
)

// Page header and body
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))
	pageBodyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Trigger buttons
var (
	triggerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("238"))
	triggerFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(accentColor).
				Bold(true)
	triggerOpenStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(okColor).
				Bold(true)
)

// Floating panels
var (
	menuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(accentColor)
	menuHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	menuDisabledStyle = lipgloss.NewStyle().Foreground(dimColor)

	tooltipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("229")).
			Padding(0, 1)

	selectCheckStyle = lipgloss.NewStyle().Foreground(okColor).Bold(true)
	selectEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)

	panelClosingStyle = lipgloss.NewStyle().Faint(true).Foreground(dimColor)
)

// Modal overlays (help, settings)
var (
	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(accentColor).
			Padding(0, 1)

	modalFooterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)
)

func modalBoxStyle(width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Width(width - 2). // account for border
		Height(height - 2)
}

// Scroll indicator style
var scrollIndicatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

// scrollIndicator returns a scroll position line for a viewport.
// Returns "" if all content fits within the viewport (no scrolling needed).
func scrollIndicator(vp viewport.Model, width int) string {
	if vp.TotalLineCount() <= vp.Height {
		return ""
	}
	pct := int(vp.ScrollPercent() * 100)
	var label string
	switch {
	case vp.AtTop():
		label = fmt.Sprintf("%d%% ▼", pct)
	case vp.AtBottom():
		label = fmt.Sprintf("▲ %d%%", pct)
	default:
		label = fmt.Sprintf("▲ %d%% ▼", pct)
	}
	return scrollIndicatorStyle.Render(
		lipgloss.PlaceHorizontal(width, lipgloss.Right, label),
	)
}

func padRight(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
