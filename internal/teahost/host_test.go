package teahost

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shhac/anchortea/internal/overlay"
)

func testConfig() overlay.Config {
	cfg := overlay.DefaultConfig()
	cfg.Placement = overlay.Bottom
	cfg.Alignment = overlay.Start
	cfg.Offset = 0
	cfg.Padding = 0
	return cfg
}

// newTestPanel returns a panel whose trigger sits at (2,1) with width 6 on
// a 40x10 screen. content is read on every render.
func newTestPanel(t *testing.T, content *string) *Panel {
	t.Helper()
	p, err := NewPanel("menu", testConfig(), func() string { return *content }, overlay.WithAssertions(true))
	if err != nil {
		t.Fatalf("NewPanel: %v", err)
	}
	p.Host().SetTrigger(overlay.Rect{X: 2, Y: 1, Width: 6, Height: 1})
	p.Host().SetViewport(40, 10)
	return p
}

// flushFrames delivers every pending frame the way bubbletea would once
// the ticks fire.
func flushFrames(h *Host) {
	for _, id := range sortedKeys(h.frames) {
		h.HandleMsg(FrameMsg{Host: h.Name(), ID: id})
	}
}

func flushTimers(h *Host) {
	for _, id := range sortedKeys(h.timers) {
		h.HandleMsg(TimerMsg{Host: h.Name(), ID: id})
	}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func blank(width, height int) string {
	row := strings.Repeat(".", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}

func TestPanelLifecycle(t *testing.T) {
	content := "abc\ndef"
	p := newTestPanel(t, &content)
	o := p.Overlay()
	h := p.Host()

	o.Open()
	if o.State() != overlay.Mounting || !h.Mounted() {
		t.Fatalf("after Open: state %s mounted %v", o.State(), h.Mounted())
	}
	if h.Cmd() == nil {
		t.Fatal("Open should schedule a frame command")
	}
	if got := p.Layer("x"); got != "x" {
		t.Errorf("mounting panel drawn: %q", got)
	}

	flushFrames(h)
	if o.State() != overlay.Measuring {
		t.Fatalf("after first frame: %s", o.State())
	}
	pos := o.CurrentPosition()
	if pos == nil || *pos != (overlay.Position{Top: 2, Left: 2}) {
		t.Fatalf("position = %v, want {2 2}", pos)
	}

	flushFrames(h)
	if o.State() != overlay.Visible {
		t.Fatalf("after second frame: %s", o.State())
	}
	got := strings.Split(p.Layer(blank(10, 5)), "\n")
	if got[2] != "..abc....." || got[3] != "..def....." {
		t.Errorf("layer rows = %q, %q", got[2], got[3])
	}

	o.Close()
	if o.State() != overlay.Closing {
		t.Fatalf("after Close: %s", o.State())
	}
	if _, ok := p.Bounds(); !ok {
		t.Error("closing panel should still be drawn")
	}
	flushTimers(h)
	if o.State() != overlay.Closed || h.Mounted() {
		t.Fatalf("after timer: state %s mounted %v", o.State(), h.Mounted())
	}
	if h.Subscriptions() != 0 || h.Pending() != 0 {
		t.Errorf("leftovers: %d subscriptions, %d pending", h.Subscriptions(), h.Pending())
	}
	if got := p.Layer("x"); got != "x" {
		t.Errorf("closed panel drawn: %q", got)
	}
}

func TestHostCancelledFrameIgnored(t *testing.T) {
	content := "abc"
	p := newTestPanel(t, &content)
	h := p.Host()

	p.Overlay().Open()
	stale := sortedKeys(h.frames)
	p.Overlay().Close()
	if len(h.frames) != 0 {
		t.Fatalf("Close left %d frames pending", len(h.frames))
	}
	for _, id := range stale {
		if !h.HandleMsg(FrameMsg{Host: "menu", ID: id}) {
			t.Error("host should own its frame message even when cancelled")
		}
	}
	if p.Overlay().State() != overlay.Closing {
		t.Errorf("stale frame changed state to %s", p.Overlay().State())
	}
}

func TestHostIgnoresOtherHosts(t *testing.T) {
	h := NewHost("tooltip", func() string { return "" })
	ran := false
	h.NextFrame(func() { ran = true })
	if h.HandleMsg(FrameMsg{Host: "menu", ID: 1}) {
		t.Error("message for another host reported as handled")
	}
	if ran {
		t.Error("frame ran for another host")
	}
}

func TestHostCancel(t *testing.T) {
	h := NewHost("menu", nil)
	ran := 0
	cancel := h.AfterDelay(0, func() { ran++ })
	cancel()
	flushTimers(h)
	h.HandleMsg(TimerMsg{Host: "menu", ID: 1})
	if ran != 0 {
		t.Errorf("cancelled timer ran %d times", ran)
	}
}

func TestHostResizeRepositions(t *testing.T) {
	content := "abcdefghij"
	p := newTestPanel(t, &content)
	p.Host().SetTrigger(overlay.Rect{X: 30, Y: 1, Width: 6, Height: 1})
	o := p.Overlay()
	o.Open()
	flushFrames(p.Host())
	flushFrames(p.Host())
	if pos := o.CurrentPosition(); pos == nil || pos.Left != 30 {
		t.Fatalf("position = %v, want left 30", pos)
	}

	p.Host().HandleMsg(tea.WindowSizeMsg{Width: 35, Height: 10})
	if pos := o.CurrentPosition(); pos == nil || pos.Left != 25 {
		t.Errorf("after resize position = %v, want left 25", pos)
	}
}

func TestHostWheelScrolls(t *testing.T) {
	h := NewHost("menu", nil)
	scrolls := 0
	h.OnScroll(func() { scrolls++ }, true)
	h.HandleMsg(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	h.Scrolled()
	if scrolls != 2 {
		t.Errorf("scrolls = %d, want 2", scrolls)
	}
}

func TestHostOutsidePress(t *testing.T) {
	tests := []struct {
		name      string
		x, y      int
		wantClose bool
	}{
		{"on trigger", 3, 1, false},
		{"inside panel", 3, 3, false},
		{"outside", 20, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "abc\ndef"
			p := newTestPanel(t, &content)
			o := p.Overlay()
			o.Open()
			flushFrames(p.Host())
			flushFrames(p.Host())

			p.Host().HandleMsg(press(tt.x, tt.y))
			closing := o.State() == overlay.Closing
			if closing != tt.wantClose {
				t.Errorf("state = %s, wantClose %v", o.State(), tt.wantClose)
			}
		})
	}
}

func TestHostTreatAsInside(t *testing.T) {
	content := "abc"
	p := newTestPanel(t, &content)
	p.Host().TreatAsInside(func(x, y int) bool { return x >= 20 })
	o := p.Overlay()
	o.Open()
	flushFrames(p.Host())
	flushFrames(p.Host())

	p.Host().HandleMsg(press(25, 8))
	if o.State() != overlay.Visible {
		t.Fatalf("claimed press closed panel: %s", o.State())
	}
	p.Host().HandleMsg(press(15, 8))
	if o.State() != overlay.Closing {
		t.Errorf("outside press: %s", o.State())
	}
}

func TestHostNavigateCloses(t *testing.T) {
	content := "abc"
	p := newTestPanel(t, &content)
	p.Overlay().Open()
	flushFrames(p.Host())
	p.Host().HandleMsg(NavigateMsg{From: "home", To: "forms"})
	if p.Overlay().State() != overlay.Closing {
		t.Errorf("state = %s, want closing", p.Overlay().State())
	}
}

func TestHostAfterUpdateSizeChange(t *testing.T) {
	content := "abcdef\nghijkl"
	p := newTestPanel(t, &content)
	p.Host().SetTrigger(overlay.Rect{X: 30, Y: 1, Width: 6, Height: 1})
	p.Host().SetViewport(38, 10)
	o := p.Overlay()
	o.Open()
	flushFrames(p.Host())
	flushFrames(p.Host())
	p.Host().AfterUpdate()
	if pos := o.CurrentPosition(); pos == nil || pos.Left != 30 {
		t.Fatalf("position = %v, want left 30", pos)
	}

	content = "abcdefghijkl"
	p.Host().AfterUpdate()
	if pos := o.CurrentPosition(); pos == nil || pos.Left != 26 {
		t.Errorf("after growth position = %v, want left 26", pos)
	}
}

func TestHostPendingPositionResolves(t *testing.T) {
	content := ""
	var warned error
	panel, err := NewPanel("select", testConfig(), func() string { return content },
		overlay.WithOnWarning(func(err error) { warned = err }))
	if err != nil {
		t.Fatal(err)
	}
	panel.Host().SetTrigger(overlay.Rect{X: 2, Y: 1, Width: 6, Height: 1})
	panel.Host().SetViewport(40, 10)
	o := panel.Overlay()
	o.Open()
	for i := 0; i < overlay.DefaultMaxMeasureAttempts; i++ {
		flushFrames(panel.Host())
	}
	if o.State() != overlay.Measuring || o.CurrentPosition() != nil {
		t.Fatalf("state %s position %v", o.State(), o.CurrentPosition())
	}
	if !overlay.IsCode(warned, overlay.CodePositionPending) {
		t.Fatalf("warning = %v", warned)
	}

	content = "loaded"
	panel.Host().AfterUpdate()
	if o.CurrentPosition() == nil {
		t.Fatal("size change did not position the panel")
	}
	flushFrames(panel.Host())
	if o.State() != overlay.Visible {
		t.Errorf("state = %s, want visible", o.State())
	}
}
