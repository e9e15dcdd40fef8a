package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MenuItem is one row of a dropdown. Items with Sub open a sub-menu.
type MenuItem struct {
	Label    string
	Hint     string
	Disabled bool
	Sub      []MenuItem
}

// MenuModel is the content of a dropdown or sub-menu panel.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	minWidth int
}

// NewMenuModel creates a menu with the cursor on the first enabled item.
func NewMenuModel(items []MenuItem) *MenuModel {
	m := &MenuModel{}
	m.SetItems(items)
	return m
}

// SetItems replaces the items and resets the cursor.
func (m *MenuModel) SetItems(items []MenuItem) {
	m.items = items
	m.Reset()
}

// Items returns the menu items.
func (m *MenuModel) Items() []MenuItem { return m.items }

// Reset moves the cursor back to the first enabled item.
func (m *MenuModel) Reset() {
	m.cursor = 0
	if len(m.items) > 0 && m.items[0].Disabled {
		m.MoveDown()
	}
}

// Cursor returns the highlighted index.
func (m *MenuModel) Cursor() int { return m.cursor }

// Current returns the highlighted item.
func (m *MenuModel) Current() (MenuItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return MenuItem{}, false
	}
	return m.items[m.cursor], true
}

// MoveUp moves to the previous enabled item, if any.
func (m *MenuModel) MoveUp() {
	for i := m.cursor - 1; i >= 0; i-- {
		if !m.items[i].Disabled {
			m.cursor = i
			return
		}
	}
}

// MoveDown moves to the next enabled item, if any.
func (m *MenuModel) MoveDown() {
	for i := m.cursor + 1; i < len(m.items); i++ {
		if !m.items[i].Disabled {
			m.cursor = i
			return
		}
	}
}

// SetCursor highlights index i. It reports false for disabled or missing
// items.
func (m *MenuModel) SetCursor(i int) bool {
	if i < 0 || i >= len(m.items) || m.items[i].Disabled {
		return false
	}
	m.cursor = i
	return true
}

// SetMinWidth sets the minimum outer width, typically the trigger width.
func (m *MenuModel) SetMinWidth(w int) { m.minWidth = w }

// ItemAt maps a row inside the rendered panel to an item index. Row 0 is
// the top border.
func (m *MenuModel) ItemAt(row int) (int, bool) {
	i := row - 1
	if i < 0 || i >= len(m.items) {
		return 0, false
	}
	return i, true
}

// RowOf returns the panel row of item i.
func (m *MenuModel) RowOf(i int) int { return i + 1 }

func (m *MenuModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	inner := max(m.minWidth-2, 0)
	for _, it := range m.items {
		inner = max(inner, itemWidth(it))
	}

	lines := make([]string, len(m.items))
	for i, it := range m.items {
		left := " " + it.Label
		right := it.Hint
		if len(it.Sub) > 0 {
			right = strings.TrimSpace(right + " ▸")
		}
		gap := inner - lipgloss.Width(left) - lipgloss.Width(right) - 1
		row := left + strings.Repeat(" ", max(gap, 1)) + right + " "
		row = padRight(row, inner)

		switch {
		case it.Disabled:
			lines[i] = menuDisabledStyle.Render(row)
		case i == m.cursor:
			lines[i] = menuCursorStyle.Render(row)
		case right != "":
			lines[i] = menuItemStyle.Render(left) + menuHintStyle.Render(strings.TrimPrefix(row, left))
		default:
			lines[i] = menuItemStyle.Render(row)
		}
	}
	return menuBoxStyle.Render(strings.Join(lines, "\n"))
}

func itemWidth(it MenuItem) int {
	w := lipgloss.Width(it.Label) + 2
	hint := it.Hint
	if len(it.Sub) > 0 {
		hint = strings.TrimSpace(hint + " ▸")
	}
	if hint != "" {
		w += lipgloss.Width(hint) + 2
	}
	return w + 1
}
