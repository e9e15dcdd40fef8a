package overlay

import (
	"time"
)

// fakeHost is a deterministic Host. Frames and timers only run when the
// test flushes them.
type fakeHost struct {
	trigger  Rect
	panel    Rect
	viewport Rect

	mounts   int
	unmounts int

	attaches map[string]int
	detaches map[string]int

	sizeFns   map[int]func()
	scrollFns map[int]func()
	resizeFns map[int]func()
	pointFns  map[int]func(x, y int)
	navFns    map[int]func()
	nextSub   int

	frames []*scheduled
	timers []*scheduled
}

type scheduled struct {
	fn        func()
	delay     time.Duration
	cancelled bool
	ran       bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		trigger:   Rect{X: 100, Y: 50, Width: 80, Height: 20},
		panel:     Rect{Width: 160, Height: 40},
		viewport:  Rect{Width: 1000, Height: 800},
		attaches:  map[string]int{},
		detaches:  map[string]int{},
		sizeFns:   map[int]func(){},
		scrollFns: map[int]func(){},
		resizeFns: map[int]func(){},
		pointFns:  map[int]func(x, y int){},
		navFns:    map[int]func(){},
	}
}

func (h *fakeHost) Mount()   { h.mounts++ }
func (h *fakeHost) Unmount() { h.unmounts++ }

func (h *fakeHost) Measure(el Element) Rect {
	if el == Panel {
		return h.panel
	}
	return h.trigger
}

func (h *fakeHost) Viewport() Rect { return h.viewport }

func subscribe[F any](h *fakeHost, name string, set map[int]F, fn F) func() {
	h.nextSub++
	id := h.nextSub
	set[id] = fn
	h.attaches[name]++
	return func() {
		if _, ok := set[id]; ok {
			delete(set, id)
			h.detaches[name]++
		}
	}
}

func (h *fakeHost) ObserveSizeChange(_ Element, fn func()) func() {
	return subscribe(h, SourceSizeChange, h.sizeFns, fn)
}

func (h *fakeHost) OnScroll(fn func(), _ bool) func() {
	return subscribe(h, SourceScroll, h.scrollFns, fn)
}

func (h *fakeHost) OnWindowResize(fn func()) func() {
	return subscribe(h, SourceResize, h.resizeFns, fn)
}

func (h *fakeHost) OnOutsidePointerDown(fn func(x, y int)) func() {
	return subscribe(h, "pointer", h.pointFns, fn)
}

func (h *fakeHost) OnNavigate(fn func()) func() {
	return subscribe(h, "navigate", h.navFns, fn)
}

func (h *fakeHost) NextFrame(fn func()) func() {
	s := &scheduled{fn: fn}
	h.frames = append(h.frames, s)
	return func() { s.cancelled = true }
}

func (h *fakeHost) AfterDelay(d time.Duration, fn func()) func() {
	s := &scheduled{fn: fn, delay: d}
	h.timers = append(h.timers, s)
	return func() { s.cancelled = true }
}

// frame runs every frame callback queued before the call.
func (h *fakeHost) frame() {
	pending := h.frames
	h.frames = nil
	for _, s := range pending {
		if !s.cancelled {
			s.ran = true
			s.fn()
		}
	}
}

// frames runs n frame passes.
func (h *fakeHost) framesN(n int) {
	for i := 0; i < n; i++ {
		h.frame()
	}
}

// elapse fires every queued timer.
func (h *fakeHost) elapse() {
	pending := h.timers
	h.timers = nil
	for _, s := range pending {
		if !s.cancelled {
			s.ran = true
			s.fn()
		}
	}
}

func (h *fakeHost) scroll() {
	for _, fn := range h.scrollFns {
		fn()
	}
}

func (h *fakeHost) resize() {
	for _, fn := range h.resizeFns {
		fn()
	}
}

func (h *fakeHost) sizeChange() {
	for _, fn := range h.sizeFns {
		fn()
	}
}

func (h *fakeHost) press(x, y int) {
	for _, fn := range h.pointFns {
		fn(x, y)
	}
}

func (h *fakeHost) navigate() {
	for _, fn := range h.navFns {
		fn()
	}
}

func (h *fakeHost) live() int {
	return len(h.sizeFns) + len(h.scrollFns) + len(h.resizeFns) + len(h.pointFns) + len(h.navFns)
}
