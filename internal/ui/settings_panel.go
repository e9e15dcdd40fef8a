package ui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shhac/anchortea/internal/config"
)

// settingKind describes the type of a setting entry.
type settingKind int

const (
	settingToggle settingKind = iota
	settingNumber
	settingChoice
)

// settingItem describes a single configurable setting.
type settingItem struct {
	label   string
	desc    string
	kind    settingKind
	min     int      // for settingNumber
	max     int      // for settingNumber
	step    int      // for settingNumber
	unit    string   // for settingNumber
	choices []string // for settingChoice
}

var overlayKinds = []string{config.KindDropdown, config.KindTooltip, config.KindSelect, config.KindSubmenu}

var settingsSchema = []settingItem{
	{label: "Overlay", desc: "Which overlay kind the rows below edit", kind: settingChoice, choices: overlayKinds},
	{label: "Placement", desc: "Side of the trigger the panel opens on", kind: settingChoice, choices: []string{"bottom", "top", "left", "right"}},
	{label: "Alignment", desc: "Cross-axis alignment with the trigger", kind: settingChoice, choices: []string{"start", "center", "end"}},
	{label: "Offset", desc: "Gap between trigger and panel", kind: settingNumber, min: 0, max: 10, step: 1, unit: " cells"},
	{label: "Padding", desc: "Minimum distance from the screen edge", kind: settingNumber, min: 0, max: 10, step: 1, unit: " cells"},
	{label: "Animation", desc: "How long the panel fades before unmounting", kind: settingNumber, min: 0, max: 1000, step: 50, unit: "ms"},
	{label: "Outside Click", desc: "Close when clicking elsewhere", kind: settingToggle},
	{label: "Navigation", desc: "Close when switching pages", kind: settingToggle},
	{label: "Match Width", desc: "Panel at least as wide as its trigger", kind: settingToggle},
	{label: "Collision", desc: "Clamp into the screen, or flip sides first", kind: settingChoice, choices: []string{"clamp", "flip"}},
}

// SettingsModel manages the settings overlay.
type SettingsModel struct {
	cfg     *config.Config
	kind    string
	width   int
	height  int
	visible bool
	cursor  int
	dirty   bool // whether settings have been modified
}

// NewSettingsModel creates a settings model.
func NewSettingsModel() SettingsModel {
	return SettingsModel{kind: config.KindDropdown}
}

// Show makes the settings overlay visible with the given config.
func (m *SettingsModel) Show(cfg *config.Config) {
	m.visible = true
	m.cursor = 0
	m.dirty = false
	// Work on a copy so we can save atomically on close
	c := *cfg
	m.cfg = &c
}

// Hide dismisses the settings overlay.
func (m *SettingsModel) Hide() {
	m.visible = false
}

// IsVisible returns whether the settings overlay is currently shown.
func (m SettingsModel) IsVisible() bool {
	return m.visible
}

// SetSize updates the overlay dimensions.
func (m *SettingsModel) SetSize(termWidth, termHeight int) {
	m.width = termWidth
	m.height = termHeight
}

// Config returns the current (possibly modified) config.
func (m SettingsModel) Config() *config.Config {
	return m.cfg
}

// IsDirty returns whether settings have been modified.
func (m SettingsModel) IsDirty() bool {
	return m.dirty
}

// Update handles key events in the settings overlay.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case kmsg.String() == "esc" || kmsg.String() == "q" || key.Matches(kmsg, GlobalKeys.Settings):
		m.Hide()
		cmds := []tea.Cmd{func() tea.Msg { return SettingsClosedMsg{} }}
		if m.dirty {
			cmds = append(cmds, func() tea.Msg { return ConfigChangedMsg{} })
		}
		return m, tea.Batch(cmds...)

	case kmsg.String() == "j" || kmsg.String() == "down":
		if m.cursor < len(settingsSchema)-1 {
			m.cursor++
		}

	case kmsg.String() == "k" || kmsg.String() == "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case kmsg.String() == "enter" || kmsg.String() == " ":
		m.adjust(1)

	case kmsg.String() == "l" || kmsg.String() == "right" || kmsg.String() == "+":
		m.adjust(1)

	case kmsg.String() == "h" || kmsg.String() == "left" || kmsg.String() == "-":
		m.adjust(-1)
	}

	return m, nil
}

// adjust toggles, steps or cycles the focused setting in direction dir.
func (m *SettingsModel) adjust(dir int) {
	item := settingsSchema[m.cursor]
	switch item.kind {
	case settingToggle:
		m.setToggle(item.label, !m.getToggle(item.label))
	case settingNumber:
		val := min(max(m.getNumber(item.label)+dir*item.step, item.min), item.max)
		m.setNumber(item.label, val)
	case settingChoice:
		cur := slices.Index(item.choices, m.getChoice(item.label))
		next := (cur + dir + len(item.choices)) % len(item.choices)
		m.setChoice(item.label, item.choices[next])
	}
	if item.label != "Overlay" {
		m.dirty = true
	}
}

func (m SettingsModel) current() *config.OverlaySettings {
	s, err := m.cfg.Settings(m.kind)
	if err != nil {
		return &m.cfg.Dropdown
	}
	return s
}

func (m SettingsModel) getToggle(label string) bool {
	s := m.current()
	switch label {
	case "Outside Click":
		return s.CloseOnOutsideClick
	case "Navigation":
		return s.CloseOnNavigation
	case "Match Width":
		return s.MatchTriggerWidth
	}
	return false
}

func (m *SettingsModel) setToggle(label string, val bool) {
	s := m.current()
	switch label {
	case "Outside Click":
		s.CloseOnOutsideClick = val
	case "Navigation":
		s.CloseOnNavigation = val
	case "Match Width":
		s.MatchTriggerWidth = val
	}
}

func (m SettingsModel) getNumber(label string) int {
	s := m.current()
	switch label {
	case "Offset":
		return s.Offset
	case "Padding":
		return s.Padding
	case "Animation":
		return s.AnimationMs
	}
	return 0
}

func (m *SettingsModel) setNumber(label string, val int) {
	s := m.current()
	switch label {
	case "Offset":
		s.Offset = val
	case "Padding":
		s.Padding = val
	case "Animation":
		s.AnimationMs = val
	}
}

func (m SettingsModel) getChoice(label string) string {
	switch label {
	case "Overlay":
		return m.kind
	case "Placement":
		return m.current().Placement
	case "Alignment":
		return m.current().Alignment
	case "Collision":
		return m.cfg.Collision
	}
	return ""
}

func (m *SettingsModel) setChoice(label, val string) {
	switch label {
	case "Overlay":
		m.kind = val
	case "Placement":
		m.current().Placement = val
	case "Alignment":
		m.current().Alignment = val
	case "Collision":
		m.cfg.Collision = val
	}
}

// View renders the settings overlay.
func (m SettingsModel) View() string {
	if !m.visible {
		return ""
	}

	rows := make([]string, 0, len(settingsSchema)+3)
	for i, item := range settingsSchema {
		rows = append(rows, m.renderSettingRow(i, item))
	}
	if m.dirty {
		rows = append(rows, "", settingsDirtyStyle.Render("  Changes will be saved and applied on close"))
	}
	rows = append(rows, "")

	frame := modal{
		title:  "Settings",
		footer: " j/k navigate · Enter/Space change · h/l adjust · Esc close ",
		termW:  m.width,
		termH:  m.height,
	}
	// Rows plus border, title, blank rows, dirty note and footer.
	w, h := frame.size(0.7, 0, 76, len(settingsSchema)+10)
	return frame.render(w, h, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderSettingRow renders a single setting row.
func (m SettingsModel) renderSettingRow(idx int, item settingItem) string {
	isFocused := idx == m.cursor

	marker := "  "
	if isFocused {
		marker = settingsMarkerStyle.Render("▸ ")
	}

	labelStyle := settingsLabelStyle
	if isFocused {
		labelStyle = settingsLabelFocusedStyle
	}
	label := labelStyle.Render(padRight(item.label, 16))

	var value string
	switch item.kind {
	case settingToggle:
		if m.getToggle(item.label) {
			value = settingsOnStyle.Render("● ON ")
		} else {
			value = settingsOffStyle.Render("○ OFF")
		}
	case settingNumber:
		value = m.renderValue(fmt.Sprintf("%d%s", m.getNumber(item.label), item.unit), isFocused)
	case settingChoice:
		value = m.renderValue(m.getChoice(item.label), isFocused)
	}
	value = padRight(value, 14)

	return marker + label + value + "  " + settingsDescStyle.Render(item.desc)
}

func (m SettingsModel) renderValue(s string, focused bool) string {
	if focused {
		return settingsNumberFocusedStyle.Render(fmt.Sprintf("◂ %s ▸", s))
	}
	return settingsNumberStyle.Render(fmt.Sprintf("  %s  ", s))
}

// Settings overlay styles
var (
	settingsMarkerStyle = lipgloss.NewStyle().
				Foreground(okColor)

	settingsLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	settingsLabelFocusedStyle = lipgloss.NewStyle().
					Foreground(okColor).
					Bold(true)

	settingsOnStyle = lipgloss.NewStyle().
			Foreground(okColor).
			Bold(true)

	settingsOffStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	settingsNumberStyle = lipgloss.NewStyle().
				Foreground(warnColor)

	settingsNumberFocusedStyle = lipgloss.NewStyle().
					Foreground(warnColor).
					Bold(true)

	settingsDescStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244")).
				Italic(true)

	settingsDirtyStyle = lipgloss.NewStyle().
				Foreground(warnColor).
				Italic(true)
)
