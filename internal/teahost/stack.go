package teahost

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shhac/anchortea/internal/overlay"
)

// Stack holds the panels of one screen in paint order. The model forwards
// messages to the stack instead of to every panel.
type Stack struct {
	panels []*Panel
}

// NewStack creates a stack painting panels bottom to top.
func NewStack(panels ...*Panel) *Stack {
	return &Stack{panels: panels}
}

// Add appends p on top of the stack.
func (s *Stack) Add(p *Panel) { s.panels = append(s.panels, p) }

// Panels returns the panels in paint order.
func (s *Stack) Panels() []*Panel { return s.panels }

// Get returns the panel whose host is called name.
func (s *Stack) Get(name string) *Panel {
	for _, p := range s.panels {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// SetViewport sets the viewport on every host.
func (s *Stack) SetViewport(width, height int) {
	for _, p := range s.panels {
		p.host.SetViewport(width, height)
	}
}

// HandleMsg forwards msg to every host. Hidden panels do not see mouse
// messages. It reports whether one of them consumed it.
func (s *Stack) HandleMsg(msg tea.Msg) bool {
	_, pointer := msg.(tea.MouseMsg)
	handled := false
	for _, p := range s.panels {
		if pointer && p.hidden {
			continue
		}
		if p.host.HandleMsg(msg) {
			handled = true
		}
	}
	return handled
}

// Scrolled forwards a keyboard scroll to every shown host.
func (s *Stack) Scrolled() {
	for _, p := range s.panels {
		if !p.hidden {
			p.host.Scrolled()
		}
	}
}

// AfterUpdate lets every host notice panel size changes.
func (s *Stack) AfterUpdate() {
	for _, p := range s.panels {
		p.host.AfterUpdate()
	}
}

// Cmd batches the pending commands of every host.
func (s *Stack) Cmd() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range s.panels {
		if cmd := p.host.Cmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// Layer paints every drawn panel over base.
func (s *Stack) Layer(base string) string {
	for _, p := range s.panels {
		base = p.Layer(base)
	}
	return base
}

// At returns the highest drawn panel covering x, y, or nil.
func (s *Stack) At(x, y int) *Panel {
	for i := len(s.panels) - 1; i >= 0; i-- {
		if s.panels[i].Contains(x, y) {
			return s.panels[i]
		}
	}
	return nil
}

// CloseAll closes every open panel.
func (s *Stack) CloseAll() {
	for _, p := range s.panels {
		if p.overlay.State() != overlay.Closed && p.overlay.State() != overlay.Closing {
			p.overlay.Close()
		}
	}
}

// Destroy tears every panel down.
func (s *Stack) Destroy() {
	for _, p := range s.panels {
		p.overlay.Destroy()
	}
}
