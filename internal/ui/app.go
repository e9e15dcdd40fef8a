package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/shhac/anchortea/internal/config"
	"github.com/shhac/anchortea/internal/overlay"
	"github.com/shhac/anchortea/internal/teahost"
)

const (
	headerHeight    = 1
	statusBarHeight = 1
	flashDuration   = 3 * time.Second
)

// Options configures NewApp.
type Options struct {
	Config     *config.Config
	ConfigPath string
	Logger     *log.Logger

	// Assertions makes overlay logic errors panic. Meant for development.
	Assertions bool
}

// App is the root Bubbletea model for the overlay demo.
type App struct {
	cfg        *config.Config
	configPath string
	logger     *log.Logger
	assertions bool

	pages   []Page
	page    int
	focus   int    // trigger index on the current page
	hover   string // trigger id under the mouse
	anchors *anchors

	body          viewport.Model
	statusBar     StatusBarModel
	helpOverlay   HelpOverlayModel
	settingsPanel SettingsModel

	width  int
	height int
	ready  bool
}

// NewApp creates the demo model.
func NewApp(opts Options) (App, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return App{}, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	pages := demoPages()
	as, err := newAnchors(cfg, pages, logger, opts.Assertions)
	if err != nil {
		return App{}, fmt.Errorf("failed to create overlays: %w", err)
	}
	as.showPage(pages[0].Name)

	return App{
		cfg:           cfg,
		configPath:    opts.ConfigPath,
		logger:        logger,
		assertions:    opts.Assertions,
		pages:         pages,
		anchors:       as,
		statusBar:     NewStatusBarModel(),
		helpOverlay:   NewHelpOverlayModel(),
		settingsPanel: NewSettingsModel(),
	}, nil
}

func (m App) Init() tea.Cmd {
	return nil
}

// Update handles the message, then lets the overlay hosts see it. Trigger
// rects are refreshed first so recalculation measures the current layout.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	case teahost.NavigateMsg:
		m.logger.Debug("navigated", "from", msg.From, "to", msg.To)

	case StatusBarClearMsg:
		m.statusBar.ClearIfSeqMatch(msg.Seq)

	case HelpClosedMsg, SettingsClosedMsg:
		// nothing to restore

	case ConfigChangedMsg:
		cmds = append(cmds, m.applyConfig(m.settingsPanel.Config()))

	case MenuChosenMsg:
		cmds = append(cmds, m.statusBar.SetTemporaryMessage(
			fmt.Sprintf("%s: %s", msg.Trigger, strings.Join(msg.Path, " › ")), flashDuration))

	case SelectChangedMsg:
		values := "none"
		if len(msg.Values) > 0 {
			values = strings.Join(msg.Values, ", ")
		}
		cmds = append(cmds, m.statusBar.SetTemporaryMessage(
			fmt.Sprintf("%s: %s", msg.Trigger, values), flashDuration))

	default:
		// Cursor blinks for an open select's search input.
		if a := m.anchors.active(m.currentPage().Name); a != nil && a.sel != nil {
			var cmd tea.Cmd
			a.sel.input, cmd = a.sel.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.syncTooltips()
	m.refreshBody()
	m.syncTriggers()
	m.anchors.stack.HandleMsg(msg)
	m.syncTriggers()
	m.anchors.stack.AfterUpdate()

	cmds = append(cmds, m.anchors.stack.Cmd(), m.drainAnchors())
	return m, tea.Batch(cmds...)
}

func (m *App) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	bodyHeight := max(m.height-headerHeight-statusBarHeight, 1)
	if !m.ready {
		m.body = viewport.New(m.width, bodyHeight)
		m.ready = true
	} else {
		m.body.Width = m.width
		m.body.Height = bodyHeight
	}
	m.statusBar.SetWidth(m.width)
	m.helpOverlay.SetSize(m.width, m.height)
	m.settingsPanel.SetSize(m.width, m.height)
	// Hosts learn the new viewport from the same message in Update.
}

func (m *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.helpOverlay.IsVisible() {
		var cmd tea.Cmd
		m.helpOverlay, cmd = m.helpOverlay.Update(msg)
		return cmd
	}
	if m.settingsPanel.IsVisible() {
		var cmd tea.Cmd
		m.settingsPanel, cmd = m.settingsPanel.Update(msg)
		return cmd
	}

	if a := m.anchors.active(m.currentPage().Name); a != nil {
		if cmd, handled := m.handleOverlayKey(a, msg); handled {
			return cmd
		}
	}

	switch {
	case key.Matches(msg, GlobalKeys.Quit):
		m.anchors.stack.Destroy()
		return tea.Quit
	case key.Matches(msg, GlobalKeys.Help):
		m.anchors.stack.CloseAll()
		m.helpOverlay.Show()
	case key.Matches(msg, GlobalKeys.Settings):
		m.anchors.stack.CloseAll()
		m.settingsPanel.Show(m.cfg)
	case key.Matches(msg, GlobalKeys.NextTrigger):
		m.closeActive()
		m.moveFocus(1)
	case key.Matches(msg, GlobalKeys.PrevTrigger):
		m.closeActive()
		m.moveFocus(-1)
	case key.Matches(msg, GlobalKeys.Activate):
		return m.activate(m.focusedAnchor())
	case key.Matches(msg, GlobalKeys.PrevPage):
		return m.switchPage(-1)
	case key.Matches(msg, GlobalKeys.NextPage):
		return m.switchPage(1)
	case key.Matches(msg, GlobalKeys.ScrollUp):
		m.scrollKeys(-1)
	case key.Matches(msg, GlobalKeys.ScrollDown):
		m.scrollKeys(1)
	case key.Matches(msg, GlobalKeys.PageUp):
		m.scrollKeys(-m.body.Height / 2)
	case key.Matches(msg, GlobalKeys.PageDown):
		m.scrollKeys(m.body.Height / 2)
	}
	return nil
}

// handleOverlayKey routes keys to the open dropdown or select. It reports
// false for keys the overlay does not use.
func (m *App) handleOverlayKey(a *anchor, msg tea.KeyMsg) (tea.Cmd, bool) {
	if a.sel != nil {
		if msg.Type == tea.KeyCtrlC || key.Matches(msg, GlobalKeys.NextTrigger, GlobalKeys.PrevTrigger) {
			return nil, false
		}
		res, cmd := a.sel.HandleKey(msg)
		switch res {
		case selectClosed:
			a.panel.Overlay().Close()
		case selectDone:
			m.anchors.selectChanged(a)
			a.panel.Overlay().Close()
		case selectChanged:
			m.anchors.selectChanged(a)
		}
		return cmd, true
	}

	menu, panel := a.menu, a.panel
	if a.subOpen() {
		menu, panel = a.subMenu, a.sub
	}
	switch {
	case key.Matches(msg, MenuKeys.Close):
		panel.Overlay().Close()
	case key.Matches(msg, MenuKeys.Up):
		menu.MoveUp()
	case key.Matches(msg, MenuKeys.Down):
		menu.MoveDown()
	case key.Matches(msg, MenuKeys.BackSub):
		if a.subOpen() {
			a.sub.Overlay().Close()
		}
	case key.Matches(msg, MenuKeys.OpenSub):
		if !a.subOpen() {
			m.anchors.openSub(a)
		}
	case key.Matches(msg, MenuKeys.Select):
		m.chooseMenuItem(a)
	default:
		return nil, false
	}
	return nil, true
}

// chooseMenuItem picks the highlighted item of the innermost open menu.
func (m *App) chooseMenuItem(a *anchor) {
	if a.subOpen() {
		parent := a.menu.Items()[a.subParent]
		if item, ok := a.subMenu.Current(); ok {
			m.anchors.choose(a, parent.Label, item.Label)
			a.panel.Overlay().Close()
		}
		return
	}
	item, ok := a.menu.Current()
	if !ok {
		return
	}
	if len(item.Sub) > 0 {
		m.anchors.openSub(a)
		return
	}
	m.anchors.choose(a, item.Label)
	a.panel.Overlay().Close()
}

func (m *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.helpOverlay.IsVisible() || m.settingsPanel.IsVisible() {
		return nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(1)
	case msg.Action == tea.MouseActionMotion:
		m.hover = ""
		if a := m.triggerAt(msg.X, msg.Y); a != nil {
			m.hover = a.trigger.ID
		}
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.handlePress(msg.X, msg.Y)
	}
	return nil
}

func (m *App) handlePress(x, y int) tea.Cmd {
	if p := m.anchors.stack.At(x, y); p != nil {
		m.pressPanel(p, x, y)
		return nil
	}
	if a := m.triggerAt(x, y); a != nil {
		m.setFocus(a)
		if a.trigger.Kind != config.KindTooltip {
			return m.activate(a)
		}
	}
	return nil
}

// pressPanel picks the menu item or select option under the pointer.
func (m *App) pressPanel(p *teahost.Panel, x, y int) {
	r, _ := p.Bounds()
	row := y - r.Y
	for _, a := range m.anchors.all {
		switch {
		case a.panel == p && a.menu != nil:
			if i, ok := a.menu.ItemAt(row); ok && a.menu.SetCursor(i) {
				m.chooseMenuItem(a)
			}
		case a.sub == p:
			if i, ok := a.subMenu.ItemAt(row); ok && a.subMenu.SetCursor(i) {
				m.chooseMenuItem(a)
			}
		case a.panel == p && a.sel != nil:
			if i, ok := a.sel.OptionAt(row); ok {
				switch res, _ := a.sel.Choose(i); res {
				case selectDone:
					m.anchors.selectChanged(a)
					a.panel.Overlay().Close()
				case selectChanged:
					m.anchors.selectChanged(a)
				}
			}
		}
	}
}

// activate toggles the overlay of a clicked or focused trigger.
func (m *App) activate(a *anchor) tea.Cmd {
	if a == nil || a.trigger.Kind == config.KindTooltip {
		return nil
	}
	if other := m.anchors.active(a.page); other != nil && other != a {
		other.panel.Overlay().Close()
	}
	o := a.panel.Overlay()
	o.Toggle()
	if a.sel != nil && o.IsOpen() {
		return a.sel.Open()
	}
	return nil
}

func (m *App) closeActive() {
	if a := m.anchors.active(m.currentPage().Name); a != nil {
		a.panel.Overlay().Close()
	}
}

func (m *App) switchPage(delta int) tea.Cmd {
	from := m.currentPage().Name
	m.page = (m.page + delta + len(m.pages)) % len(m.pages)
	m.focus = 0
	m.hover = ""
	m.body.GotoTop()
	to := m.currentPage().Name
	m.anchors.showPage(to)
	// Panels left open on the page just shown follow its fresh layout.
	m.syncTriggers()
	m.anchors.stack.Scrolled()
	return func() tea.Msg { return teahost.NavigateMsg{From: from, To: to} }
}

// scrollBy moves the page and reports whether it moved.
func (m *App) scrollBy(n int) bool {
	if !m.ready || n == 0 {
		return false
	}
	before := m.body.YOffset
	m.body.SetYOffset(before + n)
	return m.body.YOffset != before
}

// scrollKeys scrolls from the keyboard. Mouse wheel events reach the hosts
// on their own, keyboard scrolling has to be reported.
func (m *App) scrollKeys(n int) {
	if m.scrollBy(n) {
		m.syncTriggers()
		m.anchors.stack.Scrolled()
	}
}

func (m *App) moveFocus(delta int) {
	n := len(m.currentPage().Triggers)
	if n == 0 {
		return
	}
	m.focus = (m.focus + delta + n) % n
	m.revealFocus()
}

func (m *App) setFocus(a *anchor) {
	for i, t := range m.currentPage().Triggers {
		if t.ID == a.trigger.ID {
			m.focus = i
		}
	}
}

// revealFocus scrolls so the focused trigger is on screen.
func (m *App) revealFocus() {
	if !m.ready {
		return
	}
	row := m.currentPage().Triggers[m.focus].Row
	switch {
	case row < m.body.YOffset:
		m.scrollKeys(row - m.body.YOffset)
	case row >= m.body.YOffset+m.body.Height:
		m.scrollKeys(row - m.body.YOffset - m.body.Height + 1)
	}
}

// syncTooltips opens the tooltip of the hovered or focused trigger and
// closes every other one, including those left on other pages.
func (m *App) syncTooltips() {
	page := m.currentPage().Name
	focused := m.focusedAnchor()
	for _, a := range m.anchors.all {
		if a.tip == nil {
			continue
		}
		want := a.page == page && (a.trigger.ID == m.hover || a == focused)
		if m.helpOverlay.IsVisible() || m.settingsPanel.IsVisible() {
			want = false
		}
		if want != a.open() {
			if want {
				a.panel.Overlay().Open()
			} else {
				a.panel.Overlay().Close()
			}
		}
	}
}

// syncTriggers tells every host on the current page where its trigger is
// on screen.
func (m *App) syncTriggers() {
	page := m.currentPage()
	for _, a := range m.anchors.all {
		if a.page != page.Name {
			continue
		}
		a.panel.Host().SetTrigger(m.screenRect(a))
		if a.subOpen() {
			m.anchors.placeSub(a)
		}
	}
}

func (m *App) screenRect(a *anchor) overlay.Rect {
	r := a.trigger.contentRect(lipgloss.Width(a.button()), m.width)
	r.Y += headerHeight - m.body.YOffset
	return r
}

func (m *App) triggerAt(x, y int) *anchor {
	page := m.currentPage().Name
	for _, a := range m.anchors.all {
		if a.page == page && m.screenRect(a).Contains(x, y) {
			return a
		}
	}
	return nil
}

func (m *App) focusedAnchor() *anchor {
	p := m.currentPage()
	if len(p.Triggers) == 0 {
		return nil
	}
	return m.anchors.get(p.Name, p.Triggers[m.focus].ID)
}

func (m *App) currentPage() Page { return m.pages[m.page] }

func (m *App) refreshBody() {
	if !m.ready {
		return
	}
	p := m.currentPage()
	focused := m.focusedAnchor()
	buttons := make(map[string]string, len(p.Triggers))
	for _, t := range p.Triggers {
		a := m.anchors.get(p.Name, t.ID)
		style := triggerStyle
		switch {
		case a.trigger.Kind != config.KindTooltip && a.open():
			style = triggerOpenStyle
		case a == focused:
			style = triggerFocusedStyle
		}
		buttons[t.ID] = style.Render(a.button())
	}
	m.body.SetContent(renderPage(p, m.width, buttons))
}

// drainAnchors turns warnings and choices gathered during the update into
// status bar messages.
func (m *App) drainAnchors() tea.Cmd {
	warnings, chosen := m.anchors.drain()
	var cmds []tea.Cmd
	for _, err := range warnings {
		m.logger.Warn("overlay warning", "err", err)
		cmds = append(cmds, m.statusBar.SetWarning(err.Error(), flashDuration))
	}
	for _, msg := range chosen {
		cmds = append(cmds, func() tea.Msg { return msg })
	}
	return tea.Batch(cmds...)
}

// applyConfig saves cfg and rebuilds every overlay from it. Overlay configs
// are fixed per instance, so the old instances are destroyed.
func (m *App) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}
	as, err := newAnchors(cfg, m.pages, m.logger, m.assertions)
	if err != nil {
		m.logger.Error("invalid settings", "err", err)
		return m.statusBar.SetWarning("Invalid settings: "+err.Error(), flashDuration)
	}
	as.showPage(m.currentPage().Name)
	m.anchors.stack.Destroy()
	m.anchors = as
	m.cfg = cfg
	if m.ready {
		m.anchors.stack.SetViewport(m.width, m.height)
	}
	if err := config.Save(cfg, m.configPath); err != nil {
		m.logger.Error("config save failed", "err", err)
		return m.statusBar.SetWarning("Settings applied but not saved: "+err.Error(), flashDuration)
	}
	return m.statusBar.SetTemporaryMessage("Settings saved", flashDuration)
}

func (m App) View() string {
	if !m.ready {
		return ""
	}
	if m.helpOverlay.IsVisible() {
		return m.helpOverlay.View()
	}
	if m.settingsPanel.IsVisible() {
		return m.settingsPanel.View()
	}

	m.statusBar.SetFocus(m.focusedAnchor())
	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.body.View(),
		m.statusBar.View(),
	)
	return m.anchors.stack.Layer(base)
}

func (m App) renderHeader() string {
	var tabs []string
	for i, p := range m.pages {
		label := " " + p.Name + " "
		if i == m.page {
			tabs = append(tabs, triggerFocusedStyle.Render(label))
		} else {
			tabs = append(tabs, headerStyle.Render(label))
		}
	}
	left := strings.Join(tabs, "")
	right := scrollIndicator(m.body, 12)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + headerStyle.Render(strings.Repeat(" ", gap)) + right
}
