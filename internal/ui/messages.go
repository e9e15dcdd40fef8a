package ui

// StatusBarClearMsg is sent to clear a temporary status bar message.
// Seq must match the current message sequence or the clear is stale.
type StatusBarClearMsg struct {
	Seq int
}

// HelpClosedMsg is sent when the help overlay is dismissed.
type HelpClosedMsg struct{}

// SettingsClosedMsg is sent when the settings overlay is dismissed.
type SettingsClosedMsg struct{}

// ConfigChangedMsg is sent when settings were modified and must be saved
// and applied.
type ConfigChangedMsg struct{}

// MenuChosenMsg is sent when a dropdown or sub-menu item is chosen.
type MenuChosenMsg struct {
	Trigger string
	Path    []string // labels from the top-level item down
}

// SelectChangedMsg is sent when a select's chosen values change.
type SelectChangedMsg struct {
	Trigger string
	Values  []string
}
