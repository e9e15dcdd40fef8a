package teahost

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shhac/anchortea/internal/overlay"
)

// Panel pairs an overlay with its bubbletea host and knows how to draw it.
type Panel struct {
	host    *Host
	overlay *overlay.Overlay
	render  func() string

	// Last resolved origin. The engine freezes the position while closing
	// but stops reporting it, so the panel keeps its own copy for the fade.
	last    overlay.Position
	hasLast bool

	closing  lipgloss.Style
	onChange func(overlay.State)

	// Hidden panels keep their state and timers but are neither drawn nor
	// reachable by the pointer.
	hidden bool
}

// NewPanel creates a closed panel. render returns the panel content and is
// used both to measure and to draw it.
func NewPanel(name string, cfg overlay.Config, render func() string, opts ...overlay.Option) (*Panel, error) {
	p := &Panel{
		host:    NewHost(name, render),
		render:  render,
		closing: lipgloss.NewStyle().Faint(true),
	}
	opts = append(opts, overlay.WithOnChange(p.changed))
	o, err := overlay.New(cfg, p.host, opts...)
	if err != nil {
		return nil, err
	}
	p.overlay = o
	return p, nil
}

// Host returns the bubbletea host.
func (p *Panel) Host() *Host { return p.host }

// Overlay returns the engine instance.
func (p *Panel) Overlay() *overlay.Overlay { return p.overlay }

// Name returns the host name.
func (p *Panel) Name() string { return p.host.Name() }

// OnChange registers fn to run after every lifecycle change.
func (p *Panel) OnChange(fn func(overlay.State)) { p.onChange = fn }

// SetHidden hides or reveals the panel without changing its lifecycle.
func (p *Panel) SetHidden(hidden bool) { p.hidden = hidden }

// Hidden reports whether the panel is hidden.
func (p *Panel) Hidden() bool { return p.hidden }

// SetClosingStyle replaces the style applied while the panel fades out.
func (p *Panel) SetClosingStyle(s lipgloss.Style) { p.closing = s }

func (p *Panel) changed(s overlay.State) {
	switch {
	case s == overlay.Closed || s == overlay.Mounting:
		p.hasLast = false
	case p.overlay != nil:
		if pos := p.overlay.CurrentPosition(); pos != nil {
			p.last = *pos
			p.hasLast = true
		}
	}
	if p.onChange != nil {
		p.onChange(s)
	}
}

// Bounds returns the panel rect while it is drawn.
func (p *Panel) Bounds() (overlay.Rect, bool) {
	s := p.overlay.State()
	if p.hidden || !p.hasLast || (s != overlay.Visible && s != overlay.Closing) {
		return overlay.Rect{}, false
	}
	content := p.render()
	return overlay.Rect{
		X:      p.last.Left,
		Y:      p.last.Top,
		Width:  lipgloss.Width(content),
		Height: lipgloss.Height(content),
	}, true
}

// Contains reports whether the cell at x, y is covered by the drawn panel.
func (p *Panel) Contains(x, y int) bool {
	r, ok := p.Bounds()
	return ok && r.Contains(x, y)
}

// Layer draws the panel over base. Mounted panels stay invisible until they
// are Visible and render faint while Closing.
func (p *Panel) Layer(base string) string {
	if p.hidden || !p.hasLast {
		return base
	}
	switch p.overlay.State() {
	case overlay.Visible:
		return Composite(base, p.render(), p.last)
	case overlay.Closing:
		return Composite(base, p.closing.Render(p.render()), p.last)
	}
	return base
}
