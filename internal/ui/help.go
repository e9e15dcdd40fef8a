package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// HelpOverlayModel shows every key binding. The text is markdown built
// from the key maps, so it never drifts from the real bindings.
type HelpOverlayModel struct {
	frame    modal
	viewport viewport.Model
	markdown markdownView
	visible  bool
}

func NewHelpOverlayModel() HelpOverlayModel {
	return HelpOverlayModel{
		frame:    modal{title: "Keyboard Shortcuts", footer: " ? / Esc to close "},
		viewport: viewport.New(1, 1),
	}
}

// Show renders the bindings and makes the overlay visible.
func (m *HelpOverlayModel) Show() {
	m.visible = true
	m.refresh()
}

func (m *HelpOverlayModel) Hide() { m.visible = false }

func (m HelpOverlayModel) IsVisible() bool { return m.visible }

// SetSize fits the viewport to a terminal of the given size.
func (m *HelpOverlayModel) SetSize(termWidth, termHeight int) {
	m.frame.termW, m.frame.termH = termWidth, termHeight
	w, h := m.boxSize()
	// Border, then title, blank row, scroll line and footer.
	m.viewport.Width = innerWidth(w)
	m.viewport.Height = max(h-2-4, 1)
	m.refresh()
}

func (m HelpOverlayModel) boxSize() (int, int) {
	return m.frame.size(0.65, 0.75, 50, 15)
}

func (m HelpOverlayModel) Update(msg tea.Msg) (HelpOverlayModel, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(kmsg, GlobalKeys.Help) || kmsg.String() == "esc" || kmsg.String() == "q" {
		m.Hide()
		return m, func() tea.Msg { return HelpClosedMsg{} }
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(kmsg)
	return m, cmd
}

func (m HelpOverlayModel) View() string {
	if !m.visible {
		return ""
	}
	w, h := m.boxSize()
	return m.frame.render(w, h,
		m.viewport.View(),
		scrollIndicator(m.viewport, innerWidth(w)),
	)
}

func (m *HelpOverlayModel) refresh() {
	if !m.visible || m.frame.termW == 0 {
		return
	}
	m.viewport.SetContent(m.markdown.Render(helpMarkdown(), m.viewport.Width))
	m.viewport.GotoTop()
}

// helpMarkdown lists every key binding as markdown tables.
func helpMarkdown() string {
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Page", []key.Binding{
			GlobalKeys.NextTrigger, GlobalKeys.PrevTrigger, GlobalKeys.Activate,
			GlobalKeys.ScrollDown, GlobalKeys.ScrollUp, GlobalKeys.PageDown, GlobalKeys.PageUp,
			GlobalKeys.PrevPage, GlobalKeys.NextPage,
			GlobalKeys.Settings, GlobalKeys.Help, GlobalKeys.Quit,
		}},
		{"Dropdown", []key.Binding{
			MenuKeys.Down, MenuKeys.Up, MenuKeys.Select, MenuKeys.OpenSub, MenuKeys.BackSub, MenuKeys.Close,
		}},
		{"Select", []key.Binding{
			SelectKeys.Down, SelectKeys.Up, SelectKeys.Toggle, SelectKeys.Clear, SelectKeys.Close,
		}},
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n\n| Key | Action |\n| --- | --- |\n", s.title)
		for _, k := range s.bindings {
			h := k.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\nOverlays also follow the mouse: click a trigger to open it, " +
		"click outside to dismiss, hover `?` for a tooltip, scroll with the wheel.\n")
	return b.String()
}
