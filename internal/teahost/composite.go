package teahost

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/shhac/anchortea/internal/overlay"
)

// Composite paints panel over base with the panel's top-left cell at pos.
// Panel rows are padded to the panel's widest row so they cover the base
// underneath. Parts of the panel outside base are dropped.
func Composite(base, panel string, pos overlay.Position) string {
	if panel == "" {
		return base
	}
	baseLines := strings.Split(base, "\n")
	panelLines := strings.Split(panel, "\n")

	width := 0
	for _, l := range panelLines {
		width = max(width, ansi.StringWidth(l))
	}

	for i, line := range panelLines {
		row := pos.Top + i
		if row < 0 {
			continue
		}
		if row >= len(baseLines) {
			break
		}
		if n := ansi.StringWidth(line); n < width {
			line += strings.Repeat(" ", width-n)
		}
		left := pos.Left
		if left < 0 {
			line = ansi.TruncateLeft(line, -left, "")
			left = 0
		}
		baseLines[row] = splice(baseLines[row], line, left)
	}
	return strings.Join(baseLines, "\n")
}

// splice replaces the cells of bg starting at col with fg.
func splice(bg, fg string, col int) string {
	bgWidth := ansi.StringWidth(bg)
	if bgWidth < col {
		bg += strings.Repeat(" ", col-bgWidth)
		bgWidth = col
	}
	fgWidth := ansi.StringWidth(fg)
	prefix := ansi.Truncate(bg, col, "")
	suffix := ""
	if col+fgWidth < bgWidth {
		suffix = ansi.Cut(bg, col+fgWidth, bgWidth)
	}
	if strings.Contains(fg, "\x1b") {
		fg += resetStyle
	}
	return prefix + fg + suffix
}

// resetStyle stops panel styling from bleeding into the base.
const resetStyle = "\x1b[0m"
