package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// SelectOption is one choice of a select.
type SelectOption struct {
	Label string
	Value string
}

// selectResult tells the caller what a key did to the select.
type selectResult int

const (
	selectNone selectResult = iota
	selectChanged
	selectDone
	selectClosed
)

const defaultSelectRows = 6

// SelectModel is a searchable, optionally multi-valued option list. The
// search input narrows the options with fuzzy matching, which changes the
// panel height.
type SelectModel struct {
	options []SelectOption
	visible []int
	cursor  int
	offset  int
	maxRows int

	input    textinput.Model
	multi    bool
	chosen   map[string]bool
	minWidth int
}

// NewSelectModel creates a select over options.
func NewSelectModel(options []SelectOption, multi bool) *SelectModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search..."
	ti.CharLimit = 40
	m := &SelectModel{
		options: options,
		maxRows: defaultSelectRows,
		input:   ti,
		multi:   multi,
		chosen:  make(map[string]bool),
	}
	m.applyFilter()
	return m
}

// Multi reports whether several values can be chosen.
func (m *SelectModel) Multi() bool { return m.multi }

// SetMinWidth sets the minimum outer width, typically the trigger width.
func (m *SelectModel) SetMinWidth(w int) { m.minWidth = w }

// Open focuses the search input with an empty filter.
func (m *SelectModel) Open() tea.Cmd {
	m.ResetFilter()
	return m.input.Focus()
}

// ResetFilter empties the search text so every option is listed.
func (m *SelectModel) ResetFilter() {
	m.input.Reset()
	m.applyFilter()
}

// Blur stops the input from taking keys.
func (m *SelectModel) Blur() { m.input.Blur() }

// Filter returns the current search text.
func (m *SelectModel) Filter() string { return m.input.Value() }

// Visible returns the options matching the filter, best match first.
func (m *SelectModel) Visible() []SelectOption {
	out := make([]SelectOption, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.options[idx]
	}
	return out
}

// Values returns the chosen values in option order.
func (m *SelectModel) Values() []string {
	var out []string
	for _, o := range m.options {
		if m.chosen[o.Value] {
			out = append(out, o.Value)
		}
	}
	return out
}

// Labels returns the labels of the chosen values in option order.
func (m *SelectModel) Labels() []string {
	var out []string
	for _, o := range m.options {
		if m.chosen[o.Value] {
			out = append(out, o.Label)
		}
	}
	return out
}

// Clear drops every chosen value.
func (m *SelectModel) Clear() {
	clear(m.chosen)
}

// HandleKey applies a key press.
func (m *SelectModel) HandleKey(msg tea.KeyMsg) (selectResult, tea.Cmd) {
	switch {
	case key.Matches(msg, SelectKeys.Close):
		return selectClosed, nil
	case key.Matches(msg, SelectKeys.Up):
		m.move(-1)
		return selectNone, nil
	case key.Matches(msg, SelectKeys.Down):
		m.move(1)
		return selectNone, nil
	case key.Matches(msg, SelectKeys.Clear):
		if len(m.chosen) == 0 {
			return selectNone, nil
		}
		m.Clear()
		return selectChanged, nil
	case key.Matches(msg, SelectKeys.Toggle):
		return m.choose(m.cursor)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.applyFilter()
	}
	return selectNone, cmd
}

// Choose picks the visible option at index i, as a click would.
func (m *SelectModel) Choose(i int) (selectResult, tea.Cmd) {
	return m.choose(m.offset + i)
}

func (m *SelectModel) choose(i int) (selectResult, tea.Cmd) {
	if i < 0 || i >= len(m.visible) {
		return selectNone, nil
	}
	m.cursor = i
	v := m.options[m.visible[i]].Value
	if m.multi {
		if m.chosen[v] {
			delete(m.chosen, v)
		} else {
			m.chosen[v] = true
		}
		return selectChanged, nil
	}
	clear(m.chosen)
	m.chosen[v] = true
	return selectDone, nil
}

func (m *SelectModel) move(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxRows {
		m.offset = m.cursor - m.maxRows + 1
	}
}

func (m *SelectModel) applyFilter() {
	m.cursor = 0
	m.offset = 0
	filter := m.input.Value()
	if filter == "" {
		m.visible = make([]int, len(m.options))
		for i := range m.options {
			m.visible[i] = i
		}
		return
	}

	labels := make([]string, len(m.options))
	for i, o := range m.options {
		labels[i] = o.Label
	}
	matches := fuzzy.Find(filter, labels)
	m.visible = make([]int, len(matches))
	for i, match := range matches {
		m.visible[i] = match.Index
	}
}

// OptionAt maps a row inside the rendered panel to a visible option index.
// Rows 0 to 2 are the top border, the input and the divider.
func (m *SelectModel) OptionAt(row int) (int, bool) {
	i := row - 3
	if i < 0 || i >= min(m.maxRows, len(m.visible)-m.offset) {
		return 0, false
	}
	return i, true
}

func (m *SelectModel) View() string {
	inner := max(m.minWidth-2, 20)
	for _, o := range m.options {
		inner = max(inner, lipgloss.Width(o.Label)+4)
	}

	lines := []string{padRight(m.input.View(), inner), menuHintStyle.Render(strings.Repeat("─", inner))}
	if len(m.visible) == 0 {
		lines = append(lines, selectEmptyStyle.Render(padRight(" No results", inner)))
	}
	end := min(m.offset+m.maxRows, len(m.visible))
	for i := m.offset; i < end; i++ {
		o := m.options[m.visible[i]]
		mark := "  "
		if m.chosen[o.Value] {
			mark = selectCheckStyle.Render("✓ ")
		}
		label := padRight(o.Label, inner-2)
		if i == m.cursor {
			lines = append(lines, mark+menuCursorStyle.Render(label))
		} else {
			lines = append(lines, mark+menuItemStyle.Render(label))
		}
	}
	return menuBoxStyle.Render(strings.Join(lines, "\n"))
}
