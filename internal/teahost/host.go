// Package teahost binds the overlay engine to a bubbletea program.
//
// A Host implements overlay.Host for one panel. Frame and timer callbacks
// become tea.Tick commands that come back as FrameMsg and TimerMsg;
// window size, mouse and navigation messages become overlay signals. The
// model forwards every message to HandleMsg, calls AfterUpdate once its
// own state has settled, and returns Cmd with its other commands.
package teahost

import (
	"maps"
	"slices"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shhac/anchortea/internal/overlay"
)

// DefaultFrameInterval approximates one paint at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// FrameMsg delivers a NextFrame callback.
type FrameMsg struct {
	Host string
	ID   int
}

// TimerMsg delivers an AfterDelay callback.
type TimerMsg struct {
	Host string
	ID   int
}

// NavigateMsg tells every host that the app navigated to another page.
type NavigateMsg struct {
	From string
	To   string
}

// Host is the bubbletea side of one overlay.
type Host struct {
	name          string
	frameInterval time.Duration
	render        func() string

	trigger  overlay.Rect
	viewport overlay.Rect
	mounted  bool
	lastSize overlay.Rect

	frames map[int]func()
	timers map[int]func()
	cmds   []tea.Cmd

	sizeSubs    map[int]func()
	scrollSubs  map[int]func()
	resizeSubs  map[int]func()
	pointerSubs map[int]func(x, y int)
	navSubs     map[int]func()

	// inside reports points that belong to this panel even though they
	// fall outside its rect, such as a child sub-menu.
	inside []func(x, y int) bool
}

// NewHost creates a host named name. render returns the panel's current
// content and is used to measure it.
func NewHost(name string, render func() string) *Host {
	return &Host{
		name:          name,
		frameInterval: DefaultFrameInterval,
		render:        render,
		frames:        make(map[int]func()),
		timers:        make(map[int]func()),
		sizeSubs:      make(map[int]func()),
		scrollSubs:    make(map[int]func()),
		resizeSubs:    make(map[int]func()),
		pointerSubs:   make(map[int]func(x, y int)),
		navSubs:       make(map[int]func()),
	}
}

// Name returns the host name carried by its messages.
func (h *Host) Name() string { return h.name }

// SetFrameInterval changes the delay used for NextFrame.
func (h *Host) SetFrameInterval(d time.Duration) {
	if d > 0 {
		h.frameInterval = d
	}
}

// SetTrigger records where the trigger currently is on screen.
func (h *Host) SetTrigger(r overlay.Rect) { h.trigger = r }

// SetViewport records the visible area. HandleMsg keeps it in sync with
// tea.WindowSizeMsg; call this for the initial size.
func (h *Host) SetViewport(width, height int) {
	h.viewport = overlay.Rect{Width: width, Height: height}
}

// Mounted reports whether the panel is in the render tree.
func (h *Host) Mounted() bool { return h.mounted }

func (h *Host) Mount() {
	h.mounted = true
	h.lastSize = overlay.Rect{}
}

func (h *Host) Unmount() {
	h.mounted = false
	h.lastSize = overlay.Rect{}
}

// Measure returns the trigger rect, or the rendered panel size. An
// unmounted or empty panel measures zero.
func (h *Host) Measure(el overlay.Element) overlay.Rect {
	if el == overlay.Trigger {
		return h.trigger
	}
	if !h.mounted || h.render == nil {
		return overlay.Rect{}
	}
	content := h.render()
	if content == "" {
		return overlay.Rect{}
	}
	return overlay.Rect{Width: lipgloss.Width(content), Height: lipgloss.Height(content)}
}

func (h *Host) Viewport() overlay.Rect { return h.viewport }

// lastID numbers callbacks and subscriptions across all hosts, so a tick
// still in flight for a destroyed host never matches one of a new host
// with the same name.
var lastID atomic.Int64

func (h *Host) id() int {
	return int(lastID.Add(1))
}

func (h *Host) ObserveSizeChange(_ overlay.Element, fn func()) func() {
	id := h.id()
	h.sizeSubs[id] = fn
	return func() { delete(h.sizeSubs, id) }
}

// OnScroll subscribes to scrolling. Terminal scroll events are not
// bubbled, so capture is accepted and every scroll is delivered.
func (h *Host) OnScroll(fn func(), _ bool) func() {
	id := h.id()
	h.scrollSubs[id] = fn
	return func() { delete(h.scrollSubs, id) }
}

func (h *Host) OnWindowResize(fn func()) func() {
	id := h.id()
	h.resizeSubs[id] = fn
	return func() { delete(h.resizeSubs, id) }
}

func (h *Host) OnOutsidePointerDown(fn func(x, y int)) func() {
	id := h.id()
	h.pointerSubs[id] = fn
	return func() { delete(h.pointerSubs, id) }
}

func (h *Host) OnNavigate(fn func()) func() {
	id := h.id()
	h.navSubs[id] = fn
	return func() { delete(h.navSubs, id) }
}

// NextFrame schedules fn one frame interval from now.
func (h *Host) NextFrame(fn func()) func() {
	id := h.id()
	h.frames[id] = fn
	name := h.name
	h.cmds = append(h.cmds, tea.Tick(h.frameInterval, func(time.Time) tea.Msg {
		return FrameMsg{Host: name, ID: id}
	}))
	return func() { delete(h.frames, id) }
}

// AfterDelay schedules fn after d.
func (h *Host) AfterDelay(d time.Duration, fn func()) func() {
	id := h.id()
	h.timers[id] = fn
	name := h.name
	h.cmds = append(h.cmds, tea.Tick(d, func(time.Time) tea.Msg {
		return TimerMsg{Host: name, ID: id}
	}))
	return func() { delete(h.timers, id) }
}

// Cmd drains the commands scheduled since the last call.
func (h *Host) Cmd() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	cmds := h.cmds
	h.cmds = nil
	return tea.Batch(cmds...)
}

// Pending reports how many frame and timer callbacks are waiting.
func (h *Host) Pending() int {
	return len(h.frames) + len(h.timers)
}

// Subscriptions reports how many signal subscriptions are live.
func (h *Host) Subscriptions() int {
	return len(h.sizeSubs) + len(h.scrollSubs) + len(h.resizeSubs) + len(h.pointerSubs) + len(h.navSubs)
}

// HandleMsg turns a bubbletea message into overlay callbacks and signals.
// It reports whether the message belonged to this host.
func (h *Host) HandleMsg(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case FrameMsg:
		if msg.Host != h.name {
			return false
		}
		if fn, ok := h.frames[msg.ID]; ok {
			delete(h.frames, msg.ID)
			fn()
		}
		return true
	case TimerMsg:
		if msg.Host != h.name {
			return false
		}
		if fn, ok := h.timers[msg.ID]; ok {
			delete(h.timers, msg.ID)
			fn()
		}
		return true
	case tea.WindowSizeMsg:
		h.SetViewport(msg.Width, msg.Height)
		fire(h.resizeSubs)
	case tea.MouseMsg:
		if isWheel(msg.Button) {
			fire(h.scrollSubs)
			return false
		}
		if msg.Action == tea.MouseActionPress && !h.claims(msg.X, msg.Y) {
			for _, id := range sortedKeys(h.pointerSubs) {
				if fn, ok := h.pointerSubs[id]; ok {
					fn(msg.X, msg.Y)
				}
			}
		}
	case NavigateMsg:
		fire(h.navSubs)
	}
	return false
}

// TreatAsInside makes pointer presses for which fn returns true count as
// inside the panel, so they never dismiss it.
func (h *Host) TreatAsInside(fn func(x, y int) bool) {
	h.inside = append(h.inside, fn)
}

func (h *Host) claims(x, y int) bool {
	for _, fn := range h.inside {
		if fn(x, y) {
			return true
		}
	}
	return false
}

// Scrolled reports a scroll that did not come from the mouse, such as
// keyboard paging.
func (h *Host) Scrolled() {
	fire(h.scrollSubs)
}

// AfterUpdate compares the rendered panel size with the last one and
// notifies size-change observers when it differs.
func (h *Host) AfterUpdate() {
	if !h.mounted {
		return
	}
	size := h.Measure(overlay.Panel)
	if size == h.lastSize {
		return
	}
	h.lastSize = size
	fire(h.sizeSubs)
}

// fire calls every subscriber in subscription order. Subscribers may
// unsubscribe while it runs.
func fire(subs map[int]func()) {
	for _, id := range sortedKeys(subs) {
		if fn, ok := subs[id]; ok {
			fn()
		}
	}
}

func sortedKeys[V any](m map[int]V) []int {
	return slices.Sorted(maps.Keys(m))
}

func isWheel(b tea.MouseButton) bool {
	switch b {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown,
		tea.MouseButtonWheelLeft, tea.MouseButtonWheelRight:
		return true
	}
	return false
}
