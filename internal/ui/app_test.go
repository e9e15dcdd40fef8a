package ui

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/shhac/anchortea/internal/config"
	"github.com/shhac/anchortea/internal/overlay"
)

// cmdWait bounds how long runCmd waits for ticks. Frames and close timers
// fit inside it; status bar clears and cursor blinks do not.
const cmdWait = 300 * time.Millisecond

// runCmd executes cmd and any batch it returns, collecting the messages
// that arrive before cmdWait elapses.
func runCmd(cmd tea.Cmd) []tea.Msg {
	return collectMsgs(cmd, time.Now().Add(cmdWait))
}

func collectMsgs(cmd tea.Cmd, deadline time.Time) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		switch msg := msg.(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			results := make([][]tea.Msg, len(msg))
			var wg sync.WaitGroup
			for i, c := range msg {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results[i] = collectMsgs(c, deadline)
				}()
			}
			wg.Wait()
			var out []tea.Msg
			for _, r := range results {
				out = append(out, r...)
			}
			return out
		default:
			return []tea.Msg{msg}
		}
	case <-time.After(time.Until(deadline)):
		return nil
	}
}

func update(m App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(App), cmd
}

// settle feeds the messages produced by cmd back into the model until it
// goes quiet.
func settle(t *testing.T, m App, cmd tea.Cmd) App {
	t.Helper()
	for range 20 {
		msgs := runCmd(cmd)
		if len(msgs) == 0 {
			return m
		}
		var cmds []tea.Cmd
		for _, msg := range msgs {
			var c tea.Cmd
			m, c = update(m, msg)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)
	}
	t.Fatal("model did not settle")
	return m
}

func send(t *testing.T, m App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		var cmd tea.Cmd
		m, cmd = update(m, msg)
		m = settle(t, m, cmd)
	}
	return m
}

func keys(t *testing.T, m App, ks ...string) App {
	t.Helper()
	for _, k := range ks {
		m = send(t, m, keyMsg(k))
	}
	return m
}

func newTestApp(t *testing.T) App {
	t.Helper()
	return newTestAppWith(t, func(*config.Config) {})
}

// newTestAppWith runs tweak on the default config before building the app.
func newTestAppWith(t *testing.T, tweak func(*config.Config)) App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	tweak(cfg)
	app, err := NewApp(Options{Config: cfg, ConfigPath: path, Assertions: true})
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	m, _ := update(app, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func state(a *anchor) overlay.State { return a.panel.Overlay().State() }

func TestAppDropdownLifecycle(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")

	m, cmd := update(m, keyMsg("enter"))
	if state(a) != overlay.Mounting {
		t.Fatalf("after enter state = %s, want mounting", state(a))
	}
	if strings.Contains(ansi.Strip(m.View()), "Open recent") {
		t.Error("panel drawn before it was positioned")
	}

	m = settle(t, m, cmd)
	if state(a) != overlay.Visible {
		t.Fatalf("state = %s, want visible", state(a))
	}
	// Trigger " File ▾ " sits on content row 3, screen row 4, column 2.
	pos := a.panel.Overlay().CurrentPosition()
	if pos == nil || *pos != (overlay.Position{Top: 5, Left: 2}) {
		t.Fatalf("position = %v, want {5 2}", pos)
	}
	if !strings.Contains(ansi.Strip(m.View()), "Open recent") {
		t.Error("visible dropdown not drawn")
	}

	m, cmd = update(m, keyMsg("esc"))
	if state(a) != overlay.Closing {
		t.Fatalf("after esc state = %s, want closing", state(a))
	}
	m = settle(t, m, cmd)
	if state(a) != overlay.Closed {
		t.Fatalf("state = %s, want closed", state(a))
	}
	if a.panel.Overlay().CurrentPosition() != nil {
		t.Error("closed overlay still reports a position")
	}
	if strings.Contains(ansi.Strip(m.View()), "Open recent") {
		t.Error("closed dropdown still drawn")
	}
	if n := a.panel.Host().Subscriptions(); n != 0 {
		t.Errorf("closed overlay left %d subscriptions", n)
	}
}

func TestAppChooseMenuItem(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")

	m = keys(t, m, "enter", "j", "enter")
	if got := m.statusBar.Message(); got != "home/file: Open…" {
		t.Errorf("status = %q", got)
	}
	if state(a) != overlay.Closed {
		t.Errorf("state = %s, want closed after choosing", state(a))
	}
}

func TestAppSubMenu(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")

	m = keys(t, m, "enter", "j", "j", "l")
	if state(a) != overlay.Visible || a.sub.Overlay().State() != overlay.Visible {
		t.Fatalf("states = %s/%s, want both visible", state(a), a.sub.Overlay().State())
	}
	parent, _ := a.panel.Bounds()
	sub := a.sub.Overlay().CurrentPosition()
	want := overlay.Position{Top: parent.Y + a.menu.RowOf(2), Left: parent.X + parent.Width}
	if sub == nil || *sub != want {
		t.Fatalf("sub position = %v, want %+v", sub, want)
	}

	// A press inside the sub-menu is not outside the dropdown.
	m = send(t, m, click(want.Left+2, want.Top+2))
	if got := m.statusBar.Message(); got != "home/file: Open recent › overlay.go" {
		t.Errorf("status = %q", got)
	}
	if state(a) != overlay.Closed || a.sub.Overlay().State() != overlay.Closed {
		t.Errorf("states = %s/%s, want both closed", state(a), a.sub.Overlay().State())
	}
}

func TestAppSubMenuBack(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")

	m = keys(t, m, "enter", "j", "j", "l", "h")
	if a.sub.Overlay().State() != overlay.Closed {
		t.Errorf("sub state = %s, want closed", a.sub.Overlay().State())
	}
	if state(a) != overlay.Visible {
		t.Errorf("parent state = %s, want visible", state(a))
	}
}

func TestAppOutsideClickCloses(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")
	m = keys(t, m, "enter")

	m = send(t, m, click(70, 20))
	if state(a) != overlay.Closed {
		t.Errorf("state = %s, want closed after outside press", state(a))
	}
	if m.statusBar.Message() != "" {
		t.Errorf("outside press chose something: %q", m.statusBar.Message())
	}
}

func TestAppClickItem(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")
	m = keys(t, m, "enter")

	r, ok := a.panel.Bounds()
	if !ok {
		t.Fatal("visible panel has no bounds")
	}
	m = send(t, m, click(r.X+2, r.Y+a.menu.RowOf(0)))
	if got := m.statusBar.Message(); got != "home/file: New" {
		t.Errorf("status = %q", got)
	}
}

func TestAppClickTriggerToggles(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "view")
	r := m.screenRect(a)

	m = send(t, m, click(r.X+1, r.Y))
	if state(a) != overlay.Visible {
		t.Fatalf("state = %s, want visible", state(a))
	}
	m = send(t, m, click(r.X+1, r.Y))
	if state(a) != overlay.Closed {
		t.Errorf("second click: state = %s, want closed", state(a))
	}
}

func TestAppNavigationCloses(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")
	m = keys(t, m, "enter")

	m = keys(t, m, "]")
	if m.currentPage().Name != "forms" {
		t.Fatalf("page = %s, want forms", m.currentPage().Name)
	}
	if state(a) != overlay.Closed {
		t.Errorf("state = %s, want closed after navigation", state(a))
	}
}

func TestAppNavigationKeepsPanelWhenConfigured(t *testing.T) {
	m := newTestAppWith(t, func(cfg *config.Config) {
		cfg.Dropdown.CloseOnNavigation = false
		cfg.Tooltip.CloseOnNavigation = false
	})
	a := m.anchors.get("home", "file")
	tip := m.anchors.get("home", "info")
	m = keys(t, m, "enter")
	r := m.screenRect(tip)
	m = send(t, m, tea.MouseMsg{X: r.X + 1, Y: r.Y, Action: tea.MouseActionMotion})
	if state(a) != overlay.Visible || state(tip) != overlay.Visible {
		t.Fatalf("states = %s/%s, want both visible", state(a), state(tip))
	}

	m = keys(t, m, "]")
	if m.currentPage().Name != "forms" {
		t.Fatalf("page = %s, want forms", m.currentPage().Name)
	}
	if state(a) != overlay.Visible {
		t.Errorf("state = %s, want the dropdown kept open", state(a))
	}
	if tip.open() {
		t.Error("tooltip of the previous page still open")
	}
	if strings.Contains(ansi.Strip(m.View()), "Open recent") {
		t.Error("previous page's dropdown drawn over the new page")
	}
	if m.anchors.stack.At(3, 6) != nil {
		t.Error("previous page's dropdown still takes pointer hits")
	}
	m = send(t, m, click(70, 20))
	if state(a) != overlay.Visible {
		t.Errorf("press on another page closed the hidden dropdown: %s", state(a))
	}

	m = keys(t, m, "[")
	if !strings.Contains(ansi.Strip(m.View()), "Open recent") {
		t.Error("dropdown not drawn again on its own page")
	}
	pos := a.panel.Overlay().CurrentPosition()
	if pos == nil || *pos != (overlay.Position{Top: 5, Left: 2}) {
		t.Errorf("position = %v, want {5 2}", pos)
	}
	m = keys(t, m, "esc")
	if state(a) != overlay.Closed {
		t.Errorf("state = %s after esc, want closed", state(a))
	}
}

func TestAppEdgeClampAndResize(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "edge")
	m = keys(t, m, "tab", "tab", "tab", "enter")
	if state(a) != overlay.Visible {
		t.Fatalf("state = %s, want visible", state(a))
	}

	r, _ := a.panel.Bounds()
	if want := 80 - 1 - r.Width; r.X != want {
		t.Errorf("left = %d, want clamped to %d", r.X, want)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 24})
	r, _ = a.panel.Bounds()
	if want := 60 - 1 - r.Width; r.X != want {
		t.Errorf("after resize left = %d, want %d", r.X, want)
	}
}

func TestAppScrollMovesPanel(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")
	m = keys(t, m, "enter")

	m = send(t, m, tea.MouseMsg{X: 40, Y: 15, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if state(a) != overlay.Visible {
		t.Fatalf("wheel closed the dropdown: %s", state(a))
	}
	if pos := a.panel.Overlay().CurrentPosition(); pos == nil || pos.Top != 4 {
		t.Errorf("position after wheel = %v, want top 4", pos)
	}
}

func TestAppKeyboardScrollMovesPanel(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "file")
	m = keys(t, m, "enter")

	// The open dropdown takes j/k, so page with pgdown.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	want := 5 - m.body.Height/2
	if pos := a.panel.Overlay().CurrentPosition(); pos == nil || pos.Top != max(want, 1) {
		t.Errorf("position after pgdown = %v, want top %d", pos, max(want, 1))
	}
}

func TestAppTooltipHover(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "info")
	r := m.screenRect(a)

	m = send(t, m, tea.MouseMsg{X: r.X + 1, Y: r.Y, Action: tea.MouseActionMotion})
	if state(a) != overlay.Visible {
		t.Fatalf("hover: state = %s, want visible", state(a))
	}
	pos := a.panel.Overlay().CurrentPosition()
	if pos == nil || pos.Top != r.Y-1 {
		t.Errorf("tooltip position = %v, want the row above the trigger", pos)
	}

	m = send(t, m, tea.MouseMsg{X: 0, Y: 20, Action: tea.MouseActionMotion})
	if a.open() {
		t.Error("tooltip still open after the pointer left")
	}
}

func TestAppSelectSearch(t *testing.T) {
	m := newTestApp(t)
	a := m.anchors.get("home", "language")

	m = keys(t, m, "tab", "tab", "tab", "tab", "enter")
	if state(a) != overlay.Visible {
		t.Fatalf("state = %s, want visible", state(a))
	}
	before, _ := a.panel.Bounds()

	m = keys(t, m, "r", "u")
	if got := a.sel.Visible(); len(got) != 1 || got[0].Value != "rust" {
		t.Fatalf("visible = %+v, want rust", got)
	}
	after, _ := a.panel.Bounds()
	if after.Height >= before.Height {
		t.Errorf("filtering did not shrink the panel: %d -> %d", before.Height, after.Height)
	}

	m = keys(t, m, "enter")
	if got := m.statusBar.Message(); got != "home/language: rust" {
		t.Errorf("status = %q", got)
	}
	if state(a) != overlay.Closed {
		t.Errorf("state = %s, want closed", state(a))
	}
	if a.sel.Filter() != "" || len(a.sel.Visible()) != len(a.trigger.Options) {
		t.Errorf("filter %q left after close", a.sel.Filter())
	}
	if !strings.Contains(a.button(), "Language: Rust") {
		t.Errorf("button = %q", a.button())
	}
}

func TestAppMultiSelectStaysOpen(t *testing.T) {
	m := newTestApp(t)
	m = keys(t, m, "]")
	a := m.anchors.get("forms", "regions")

	m = keys(t, m, "enter", "enter", "down", "enter")
	if state(a) != overlay.Visible {
		t.Fatalf("state = %s, want multi select still open", state(a))
	}
	if got := strings.Join(a.sel.Values(), ","); got != "eu-central,eu-west" {
		t.Errorf("values = %s", got)
	}
	if got := m.statusBar.Message(); got != "forms/regions: eu-central, eu-west" {
		t.Errorf("status = %q", got)
	}
}

func TestAppSettingsRebuildOverlays(t *testing.T) {
	m := newTestApp(t)
	m = keys(t, m, "s")
	if !m.settingsPanel.IsVisible() {
		t.Fatal("settings not shown")
	}

	old := m.anchors
	m = keys(t, m, "j", "l", "esc")
	if m.settingsPanel.IsVisible() {
		t.Fatal("settings still shown")
	}
	if m.anchors == old {
		t.Fatal("overlays were not rebuilt")
	}
	if m.cfg.Dropdown.Placement != "top" {
		t.Errorf("placement = %q, want top", m.cfg.Dropdown.Placement)
	}
	a := m.anchors.get("home", "file")
	if got := a.panel.Overlay().Config().Placement; got != overlay.Top {
		t.Errorf("rebuilt overlay placement = %s, want top", got)
	}
	if _, err := os.Stat(m.configPath); err != nil {
		t.Errorf("settings not saved: %v", err)
	}
	if got := m.statusBar.Message(); got != "Settings saved" {
		t.Errorf("status = %q", got)
	}
}

func TestAppHelp(t *testing.T) {
	m := newTestApp(t)
	m = keys(t, m, "enter", "?")
	if !m.helpOverlay.IsVisible() {
		t.Fatal("help not shown")
	}
	if a := m.anchors.get("home", "file"); state(a) != overlay.Closed {
		t.Errorf("opening help left the dropdown %s", state(a))
	}
	if !strings.Contains(ansi.Strip(m.View()), "Keyboard Shortcuts") {
		t.Error("help view missing title")
	}
	m = keys(t, m, "esc")
	if m.helpOverlay.IsVisible() {
		t.Error("esc did not close help")
	}
}

func TestAppQuitDestroysOverlays(t *testing.T) {
	m := newTestApp(t)
	m = keys(t, m, "enter")
	a := m.anchors.get("home", "file")

	_, cmd := update(m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if state(a) != overlay.Closed {
		t.Errorf("state = %s, want closed after quit", state(a))
	}
	if n := a.panel.Host().Pending(); n != 0 {
		t.Errorf("%d callbacks still pending after quit", n)
	}
}

func TestAppAssertionsReachOverlays(t *testing.T) {
	m := newTestApp(t)
	m.applyConfig(m.cfg)
	for _, a := range m.anchors.all {
		if !a.panel.Overlay().Assertions() {
			t.Errorf("%s: assertions off after rebuild", a.name())
		}
		if a.sub != nil && !a.sub.Overlay().Assertions() {
			t.Errorf("%s sub-menu: assertions off", a.name())
		}
	}

	app, err := NewApp(Options{ConfigPath: filepath.Join(t.TempDir(), "config.json")})
	if err != nil {
		t.Fatal(err)
	}
	if app.anchors.all[0].panel.Overlay().Assertions() {
		t.Error("assertions on without being asked for")
	}
}
