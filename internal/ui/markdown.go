package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// markdownView renders help markdown with glamour. The renderer is rebuilt
// only when the wrap width changes.
type markdownView struct {
	renderer *glamour.TermRenderer
	width    int
}

func (v *markdownView) Render(md string, width int) string {
	width = max(width, 10)
	if v.renderer == nil || v.width != width {
		style := glamour.WithStandardStyle("dark")
		if !lipgloss.HasDarkBackground() {
			style = glamour.WithStandardStyle("light")
		}
		r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
		if err != nil {
			return wordwrap.String(md, width)
		}
		v.renderer, v.width = r, width
	}
	out, err := v.renderer.Render(md)
	if err != nil {
		return wordwrap.String(md, width)
	}
	return strings.TrimSpace(out)
}
