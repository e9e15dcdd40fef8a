package overlay

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Overlay is one anchored panel and its lifecycle:
//
//	Closed -> Mounting -> Measuring -> Visible -> Closing -> Closed
//
// Every method must be called from the host event loop. Callbacks scheduled
// on the host carry the generation they were scheduled in and do nothing
// once the overlay has moved on.
type Overlay struct {
	id         string
	cfg        Config
	host       Host
	logger     *log.Logger
	assertions bool
	own        StateOwnership

	state     State
	gen       uint64
	destroyed bool

	// Geometry of the current open cycle. Reset on every Mounting.
	pos          Position
	hasPos       bool
	placement    Placement
	panelSize    Rect
	triggerWidth int
	attempts     int

	cancelFrame func()
	cancelTimer func()

	recalc  *recalculator
	dismiss *dismisser

	onChange  func(State)
	onWarning func(error)
	onClosed  func()
}

// New creates a closed overlay bound to host.
func New(cfg Config, host Host, opts ...Option) (*Overlay, error) {
	if host == nil {
		return nil, newError(CodeInvalidConfig, "host is required", nil)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxMeasureAttempts == 0 {
		cfg.MaxMeasureAttempts = DefaultMaxMeasureAttempts
	}

	o := &Overlay{
		id:        uuid.NewString(),
		cfg:       cfg,
		host:      host,
		logger:    log.New(io.Discard),
		own:       Internal(false),
		placement: cfg.Placement,
	}
	for _, opt := range opts {
		opt(o)
	}
	if err := validOwnership(o.own); err != nil {
		return nil, err
	}
	o.logger = o.logger.With("overlay", o.id)
	o.recalc = newRecalculator(host, o.recalculate)
	o.dismiss = newDismisser(host, cfg, o.panelRect, o.dismissed)
	return o, nil
}

// Assertions reports whether logic errors panic instead of being logged.
func (o *Overlay) Assertions() bool { return o.assertions }

// ID returns the instance id used in logs.
func (o *Overlay) ID() string { return o.id }

// Config returns the immutable configuration.
func (o *Overlay) Config() Config { return o.cfg }

// State returns the current lifecycle phase.
func (o *Overlay) State() State { return o.state }

// IsOpen reports the requested open flag, which may run ahead of State.
func (o *Overlay) IsOpen() bool { return o.own.isOpen() }

// Placement returns the side the panel was last placed on. It differs from
// the configured placement only when the flip policy moved the panel.
func (o *Overlay) Placement() Placement { return o.placement }

// CurrentPosition returns the resolved panel origin, or nil outside
// Measuring and Visible or before the first successful measurement.
func (o *Overlay) CurrentPosition() *Position {
	if !o.hasPos || (o.state != Measuring && o.state != Visible) {
		return nil
	}
	p := o.pos
	return &p
}

// TriggerWidth returns the last measured trigger width when the config asks
// panels to be at least as wide as their trigger, and 0 otherwise.
func (o *Overlay) TriggerWidth() int {
	if !o.cfg.MatchTriggerWidth {
		return 0
	}
	return o.triggerWidth
}

// Open requests the panel to open. Open, Close and Toggle do nothing once
// the overlay is destroyed.
func (o *Overlay) Open() {
	if o.destroyed {
		return
	}
	o.own.setOpen(true)
	o.Sync()
}

// Close requests the panel to close. The panel still fades out for
// AnimationDuration before it is unmounted.
func (o *Overlay) Close() {
	if o.destroyed {
		return
	}
	o.own.setOpen(false)
	o.Sync()
}

// Toggle flips the requested open flag.
func (o *Overlay) Toggle() {
	if o.destroyed {
		return
	}
	o.own.setOpen(!o.own.isOpen())
	o.Sync()
}

// Sync drives the lifecycle toward the open flag held by the ownership
// adapter. Controlled callers call it after changing their own state.
func (o *Overlay) Sync() {
	if o.destroyed {
		return
	}
	open := o.own.isOpen()
	switch {
	case open && (o.state == Closed || o.state == Closing):
		o.beginOpen()
	case !open && (o.state == Mounting || o.state == Measuring || o.state == Visible):
		o.beginClose()
	}
}

// Destroy tears the overlay down immediately from any state. It is used
// when the component owning the overlay goes away; later calls are no-ops.
func (o *Overlay) Destroy() {
	if o.destroyed {
		return
	}
	wasMounted := o.state.Mounted()
	o.teardown()
	if !IsExternal(o.own) {
		o.own.setOpen(false)
	}
	o.destroyed = true
	if wasMounted {
		o.changed()
	}
}

func (o *Overlay) beginOpen() {
	if o.state == Closing {
		o.logger.Debug("reopened while closing")
		o.teardown()
	}
	o.gen++
	o.resetGeometry()
	o.state = Mounting
	o.host.Mount()
	if err := o.dismiss.attach(); err != nil {
		o.leak(err)
	}
	o.logger.Debug("mounting", "placement", o.cfg.Placement, "align", o.cfg.Alignment)
	o.scheduleFrame(o.measureFrame)
	o.changed()
}

// measureFrame runs on the frame after mounting and keeps retrying until
// both trigger and panel have a size.
func (o *Overlay) measureFrame() {
	if o.state != Mounting {
		return
	}
	trigger := o.host.Measure(Trigger)
	panel := o.host.Measure(Panel)
	if trigger.Empty() || panel.Empty() {
		o.attempts++
		o.logger.Debug("unmeasurable", "code", CodeUnmeasurable, "attempt", o.attempts,
			"trigger", trigger, "panel", panel)
		if o.attempts < o.cfg.MaxMeasureAttempts {
			o.scheduleFrame(o.measureFrame)
			return
		}
		o.enterMeasuring()
		o.warn(newError(CodePositionPending,
			fmt.Sprintf("no measurable geometry after %d frames", o.attempts), nil))
		o.changed()
		return
	}

	o.enterMeasuring()
	o.apply(trigger, panel, o.host.Viewport())
	o.scheduleFrame(o.reveal)
	o.changed()
}

func (o *Overlay) enterMeasuring() {
	o.state = Measuring
	if err := o.recalc.attach(); err != nil {
		o.leak(err)
	}
}

// reveal flips the panel visible one frame after it was positioned so the
// fade-in starts from a painted, invisible panel.
func (o *Overlay) reveal() {
	if o.state != Measuring || !o.hasPos {
		return
	}
	o.state = Visible
	o.logger.Debug("visible", "top", o.pos.Top, "left", o.pos.Left)
	o.changed()
}

// recalculate handles scroll, resize and size-change signals.
func (o *Overlay) recalculate(source string) {
	if o.state != Measuring && o.state != Visible {
		return
	}
	trigger := o.host.Measure(Trigger)
	panel := o.host.Measure(Panel)
	if trigger.Empty() || panel.Empty() {
		o.logger.Debug("recalculation skipped", "code", CodeUnmeasurable, "source", source)
		return
	}
	moved := o.apply(trigger, panel, o.host.Viewport())
	if o.state == Measuring && o.cancelFrame == nil {
		o.scheduleFrame(o.reveal)
	}
	if moved {
		o.logger.Debug("repositioned", "source", source, "top", o.pos.Top, "left", o.pos.Left)
		o.changed()
	}
}

// apply computes and stores the position. It reports whether anything
// visible changed.
func (o *Overlay) apply(trigger, panel, viewport Rect) bool {
	pos, used := Compute(trigger, panel, viewport, o.cfg)
	if Overflows(panel, viewport, o.cfg.Padding) {
		o.logger.Debug("panel larger than viewport", "code", CodeViewportOverflow,
			"panel", panel, "viewport", viewport)
	}
	moved := !o.hasPos || pos != o.pos || used != o.placement ||
		panel.Width != o.panelSize.Width || panel.Height != o.panelSize.Height ||
		trigger.Width != o.triggerWidth
	o.pos = pos
	o.hasPos = true
	o.placement = used
	o.panelSize = panel
	o.triggerWidth = trigger.Width
	return moved
}

func (o *Overlay) beginClose() {
	o.cancelPendingFrame()
	o.gen++
	o.state = Closing
	gen := o.gen
	o.cancelTimer = o.host.AfterDelay(o.cfg.AnimationDuration, func() {
		if gen != o.gen {
			o.logger.Debug("stale close timer", "code", CodeStaleCallback)
			return
		}
		o.cancelTimer = nil
		o.finishClose()
	})
	o.logger.Debug("closing", "after", o.cfg.AnimationDuration)
	o.changed()
}

func (o *Overlay) finishClose() {
	o.teardown()
	o.logger.Debug("closed")
	o.changed()
	if o.onClosed != nil {
		o.onClosed()
	}
}

// teardown cancels pending callbacks, releases every subscription and
// unmounts the panel. It leaves the overlay Closed.
func (o *Overlay) teardown() {
	o.gen++
	o.cancelPendingFrame()
	if o.cancelTimer != nil {
		o.cancelTimer()
		o.cancelTimer = nil
	}
	o.recalc.detach()
	o.dismiss.detach()
	if o.state.Mounted() {
		o.host.Unmount()
	}
	o.state = Closed
	o.resetGeometry()
}

func (o *Overlay) resetGeometry() {
	o.pos = Position{}
	o.hasPos = false
	o.placement = o.cfg.Placement
	o.panelSize = Rect{}
	o.triggerWidth = 0
	o.attempts = 0
}

func (o *Overlay) scheduleFrame(fn func()) {
	o.cancelPendingFrame()
	gen := o.gen
	o.cancelFrame = o.host.NextFrame(func() {
		if gen != o.gen {
			o.logger.Debug("stale frame callback", "code", CodeStaleCallback)
			return
		}
		o.cancelFrame = nil
		fn()
	})
}

func (o *Overlay) cancelPendingFrame() {
	if o.cancelFrame != nil {
		o.cancelFrame()
		o.cancelFrame = nil
	}
}

func (o *Overlay) panelRect() (Rect, bool) {
	if !o.hasPos {
		return Rect{}, false
	}
	return Rect{X: o.pos.Left, Y: o.pos.Top, Width: o.panelSize.Width, Height: o.panelSize.Height}, true
}

func (o *Overlay) dismissed(reason string) {
	if o.state != Mounting && o.state != Measuring && o.state != Visible {
		return
	}
	o.logger.Debug("dismissed", "reason", reason)
	o.Close()
}

func (o *Overlay) leak(err error) {
	if o.assertions {
		panic(err)
	}
	o.logger.Error("subscription refused", "err", err)
}

func (o *Overlay) warn(err error) {
	o.logger.Warn("position pending", "err", err)
	if o.onWarning != nil {
		o.onWarning(err)
	}
}

func (o *Overlay) changed() {
	if o.onChange != nil {
		o.onChange(o.state)
	}
}
