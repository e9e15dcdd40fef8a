package ui

// TooltipModel is the content of a tooltip panel.
type TooltipModel struct {
	text string
}

func (m *TooltipModel) SetText(s string) { m.text = s }

func (m *TooltipModel) View() string {
	if m.text == "" {
		return ""
	}
	return tooltipStyle.Render(m.text)
}
