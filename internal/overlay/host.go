package overlay

import "time"

// Element names one of the two elements an overlay measures.
type Element int

const (
	Trigger Element = iota
	Panel
)

func (e Element) String() string {
	if e == Panel {
		return "panel"
	}
	return "trigger"
}

// Renderer inserts and removes the panel from the host's render tree.
type Renderer interface {
	Mount()
	Unmount()
}

// Measurer reports current geometry. Calls are synchronous.
type Measurer interface {
	Measure(el Element) Rect
	Viewport() Rect
}

// Signals delivers host events. Every subscription returns the function
// that removes it.
type Signals interface {
	ObserveSizeChange(el Element, fn func()) (unsubscribe func())
	OnScroll(fn func(), capture bool) (unsubscribe func())
	OnWindowResize(fn func()) (unsubscribe func())
	// OnOutsidePointerDown reports every pointer press with its
	// coordinates. The overlay does its own hit-testing.
	OnOutsidePointerDown(fn func(x, y int)) (unsubscribe func())
	OnNavigate(fn func()) (unsubscribe func())
}

// Scheduler runs callbacks later on the host event loop. The returned
// cancel func drops a callback that has not run yet.
type Scheduler interface {
	NextFrame(fn func()) (cancel func())
	AfterDelay(d time.Duration, fn func()) (cancel func())
}

// Host bundles everything an overlay instance needs from its environment.
type Host interface {
	Renderer
	Measurer
	Signals
	Scheduler
}
