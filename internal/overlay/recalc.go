package overlay

// Signal sources that trigger a recalculation.
const (
	SourceSizeChange = "size"
	SourceScroll     = "scroll"
	SourceResize     = "resize"
)

// recalculator keeps the panel attached to its trigger while it is open by
// listening to panel size changes, scrolling (capture phase, so nested
// scroll containers count) and window resizes.
type recalculator struct {
	signals  Signals
	handles  handleSet
	onSignal func(source string)
}

func newRecalculator(signals Signals, onSignal func(source string)) *recalculator {
	return &recalculator{
		signals:  signals,
		handles:  newHandleSet("recalculation"),
		onSignal: onSignal,
	}
}

func (r *recalculator) attach() error {
	if err := r.handles.begin(); err != nil {
		return err
	}
	r.handles.add(SourceSizeChange, r.signals.ObserveSizeChange(Panel, func() {
		r.onSignal(SourceSizeChange)
	}))
	r.handles.add(SourceScroll, r.signals.OnScroll(func() {
		r.onSignal(SourceScroll)
	}, true))
	r.handles.add(SourceResize, r.signals.OnWindowResize(func() {
		r.onSignal(SourceResize)
	}))
	return nil
}

func (r *recalculator) detach() {
	r.handles.release()
}

func (r *recalculator) attached() bool {
	return r.handles.attached
}
