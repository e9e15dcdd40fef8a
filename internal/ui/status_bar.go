package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shhac/anchortea/internal/config"
)

// StatusBarModel renders the bottom status bar.
type StatusBarModel struct {
	width int
	focus *anchor

	// Temporary flash message (e.g. "home/file: Save")
	statusMessage string
	warning       bool
	// Monotonic counter: incremented on each flash message.
	// StatusBarClearMsg carries the seq at time of scheduling; if it doesn't
	// match current seq the clear is stale and ignored.
	messageSeq int
}

func NewStatusBarModel() StatusBarModel {
	return StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

// SetFocus sets the trigger whose overlay state is shown on the right.
func (m *StatusBarModel) SetFocus(a *anchor) {
	m.focus = a
}

// SetTemporaryMessage shows a flash message in the status bar.
// Returns a tea.Cmd that will send a StatusBarClearMsg after the given duration,
// which the caller must include in the returned command batch.
func (m *StatusBarModel) SetTemporaryMessage(msg string, duration time.Duration) tea.Cmd {
	m.warning = false
	return m.flash(msg, duration)
}

// SetWarning shows a flash message in the warning color.
func (m *StatusBarModel) SetWarning(msg string, duration time.Duration) tea.Cmd {
	m.warning = true
	return m.flash(msg, duration)
}

func (m *StatusBarModel) flash(msg string, duration time.Duration) tea.Cmd {
	m.messageSeq++
	m.statusMessage = msg
	seq := m.messageSeq
	return tea.Tick(duration, func(_ time.Time) tea.Msg {
		return StatusBarClearMsg{Seq: seq}
	})
}

// Message returns the current flash message.
func (m StatusBarModel) Message() string {
	return m.statusMessage
}

// ClearIfSeqMatch clears the message only if the given seq matches the current one.
// Returns true if the message was cleared.
func (m *StatusBarModel) ClearIfSeqMatch(seq int) bool {
	if seq == m.messageSeq {
		m.statusMessage = ""
		m.warning = false
		return true
	}
	return false
}

func (m StatusBarModel) View() string {
	var left string
	switch {
	case m.statusMessage != "" && m.warning:
		left = statusBarWarnStyle.Render(" ⚠ " + m.statusMessage)
	case m.statusMessage != "":
		left = statusBarAccentStyle.Render(" " + m.statusMessage)
	default:
		left = statusBarAccentStyle.Render(m.keyHints())
	}
	right := statusBarStyle.Render(m.contextInfo())
	// Hints give way to the overlay info on narrow terminals.
	if room := m.width - lipgloss.Width(right); lipgloss.Width(left) > room {
		left = ansi.Truncate(left, max(room, 0), "…")
	}

	padding := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + statusBarStyle.Render(strings.Repeat(" ", padding)) + right
	return statusBarStyle.Width(m.width).Render(bar)
}

func (m StatusBarModel) keyHints() string {
	if m.focus != nil && m.focus.open() {
		switch m.focus.trigger.Kind {
		case config.KindDropdown:
			return " [j/k]move [Enter]choose [l/h]sub-menu [Esc]close"
		case config.KindSelect:
			return " [type]search [↑/↓]move [Enter]choose [Ctrl+X]clear [Esc]close"
		}
	}
	return " [Tab]next [Enter]open [j/k]scroll [[/]]page [s]settings [?]help [q]quit"
}

// contextInfo describes the focused overlay, e.g. "dropdown visible 4,2".
func (m StatusBarModel) contextInfo() string {
	if m.focus == nil {
		return ""
	}
	o := m.focus.panel.Overlay()
	info := fmt.Sprintf(" %s %s", m.focus.trigger.Kind, o.State())
	if pos := o.CurrentPosition(); pos != nil {
		info += fmt.Sprintf(" %d,%d", pos.Top, pos.Left)
	}
	if o.State().Mounted() && o.Placement() != o.Config().Placement {
		info += " flipped " + o.Placement().String()
	}
	return info + " "
}
