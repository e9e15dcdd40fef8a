package ui

import "github.com/charmbracelet/lipgloss"

// modal is the titled, centered box shared by the help and settings
// screens. Both replace the page while shown.
type modal struct {
	title  string
	footer string

	termW, termH int
}

// size scales the terminal by fw and fh, keeps the minimums where the
// terminal allows it, and leaves a row above and below.
func (m modal) size(fw, fh float64, minW, minH int) (w, h int) {
	w = min(max(int(float64(m.termW)*fw), minW), m.termW)
	h = min(max(int(float64(m.termH)*fh), minH), max(m.termH-2, 1))
	return w, h
}

// innerWidth is the text width inside a box of outer width w.
func innerWidth(w int) int {
	return max(w-4, 1) // border and padding
}

func (m modal) render(w, h int, body ...string) string {
	inner := innerWidth(w)
	rows := []string{
		lipgloss.PlaceHorizontal(inner, lipgloss.Center, modalTitleStyle.Render(m.title)),
		"",
	}
	rows = append(rows, body...)
	rows = append(rows, lipgloss.PlaceHorizontal(inner, lipgloss.Center, modalFooterStyle.Render(m.footer)))

	box := modalBoxStyle(w, h).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.termW, m.termH, lipgloss.Center, lipgloss.Center, box)
}
