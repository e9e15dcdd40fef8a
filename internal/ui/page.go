package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shhac/anchortea/internal/config"
	"github.com/shhac/anchortea/internal/overlay"
	"github.com/shhac/anchortea/internal/teahost"
)

// Trigger is a button on a page that anchors an overlay.
type Trigger struct {
	ID    string
	Label string
	Kind  string // one of the config.Kind* values
	Row   int    // content row
	Col   int    // content column; negative counts from the right edge

	Tip     string         // tooltip text
	Items   []MenuItem     // dropdown items
	Options []SelectOption // select options
	Multi   bool
}

// Page is one screen of the demo. Switching pages is a host navigation.
type Page struct {
	Name     string
	Intro    []string
	Height   int
	Triggers []Trigger
}

// column resolves a trigger column for a page width and button width.
func (t Trigger) column(pageWidth, buttonWidth int) int {
	if t.Col >= 0 {
		return t.Col
	}
	return max(pageWidth+t.Col-buttonWidth+1, 0)
}

// contentRect returns the trigger rect in page content coordinates.
func (t Trigger) contentRect(buttonWidth, pageWidth int) overlay.Rect {
	return overlay.Rect{X: t.column(pageWidth, buttonWidth), Y: t.Row, Width: buttonWidth, Height: 1}
}

// renderPage draws the page body and stamps each trigger button on it.
// buttons maps trigger ids to their rendered button.
func renderPage(p Page, width int, buttons map[string]string) string {
	rows := make([]string, p.Height)
	for i := range rows {
		switch {
		case i < len(p.Intro):
			rows[i] = pageBodyStyle.Render(p.Intro[i])
		case i%4 == 0:
			rows[i] = pageBodyStyle.Render(strings.Repeat("· ", max(width/2, 0)))
		}
	}
	body := strings.Join(rows, "\n")
	for _, t := range p.Triggers {
		btn, ok := buttons[t.ID]
		if !ok {
			continue
		}
		r := t.contentRect(lipgloss.Width(btn), width)
		body = teahost.Composite(body, btn, overlay.Position{Top: r.Y, Left: r.X})
	}
	return body
}

func demoPages() []Page {
	fileMenu := []MenuItem{
		{Label: "New", Hint: "ctrl+n"},
		{Label: "Open…", Hint: "ctrl+o"},
		{Label: "Open recent", Sub: []MenuItem{
			{Label: "notes.md"},
			{Label: "overlay.go"},
			{Label: "config.toml"},
		}},
		{Label: "Save", Hint: "ctrl+s"},
		{Label: "Export", Disabled: true},
		{Label: "Close"},
	}
	viewMenu := []MenuItem{
		{Label: "Zoom in"},
		{Label: "Zoom out"},
		{Label: "Theme", Sub: []MenuItem{
			{Label: "Light"},
			{Label: "Dark"},
			{Label: "System"},
		}},
		{Label: "Full screen"},
	}
	actions := []MenuItem{
		{Label: "Rename"},
		{Label: "Duplicate"},
		{Label: "Move to", Sub: []MenuItem{
			{Label: "Archive"},
			{Label: "Trash"},
		}},
		{Label: "Delete"},
	}
	languages := []SelectOption{
		{Label: "Go", Value: "go"},
		{Label: "Rust", Value: "rust"},
		{Label: "TypeScript", Value: "ts"},
		{Label: "Python", Value: "py"},
		{Label: "Haskell", Value: "hs"},
		{Label: "OCaml", Value: "ml"},
		{Label: "Zig", Value: "zig"},
		{Label: "Elixir", Value: "ex"},
		{Label: "Kotlin", Value: "kt"},
	}
	regions := []SelectOption{
		{Label: "Europe (Frankfurt)", Value: "eu-central"},
		{Label: "Europe (Dublin)", Value: "eu-west"},
		{Label: "US East (Virginia)", Value: "us-east"},
		{Label: "US West (Oregon)", Value: "us-west"},
		{Label: "Asia Pacific (Tokyo)", Value: "ap-northeast"},
	}

	return []Page{
		{
			Name: "home",
			Intro: []string{
				"Anchored overlays stay attached to their trigger while the page scrolls.",
				"Open a menu near the right or bottom edge to watch it get pushed back on screen.",
			},
			Height: 60,
			Triggers: []Trigger{
				{ID: "file", Label: "File", Kind: config.KindDropdown, Row: 3, Col: 2, Items: fileMenu},
				{ID: "view", Label: "View", Kind: config.KindDropdown, Row: 3, Col: 12, Items: viewMenu},
				{ID: "info", Label: "?", Kind: config.KindTooltip, Row: 3, Col: 22, Tip: "Tooltips open on hover or focus"},
				{ID: "edge", Label: "Actions", Kind: config.KindDropdown, Row: 8, Col: -2, Items: actions},
				{ID: "language", Label: "Language", Kind: config.KindSelect, Row: 14, Col: 2, Options: languages},
				{ID: "edge-tip", Label: "Right edge", Kind: config.KindTooltip, Row: 14, Col: -1, Tip: "This tooltip is clamped inside the screen"},
				{ID: "deep", Label: "Bottom actions", Kind: config.KindDropdown, Row: 40, Col: 30, Items: actions},
				{ID: "last", Label: "Last menu", Kind: config.KindDropdown, Row: 58, Col: 4, Items: viewMenu},
			},
		},
		{
			Name: "forms",
			Intro: []string{
				"Switching pages is a navigation: every open overlay closes.",
			},
			Height: 30,
			Triggers: []Trigger{
				{ID: "regions", Label: "Regions", Kind: config.KindSelect, Row: 3, Col: 2, Options: regions, Multi: true},
				{ID: "lang", Label: "Language", Kind: config.KindSelect, Row: 3, Col: -2, Options: languages},
				{ID: "help-tip", Label: "Why?", Kind: config.KindTooltip, Row: 9, Col: 2, Tip: "Multi-select keeps the list open"},
				{ID: "more", Label: "More", Kind: config.KindDropdown, Row: 28, Col: -2, Items: fileMenu},
			},
		},
	}
}
