package overlay

// dismisser closes the overlay on a pointer press outside both trigger and
// panel, and on host navigation. Hit-testing uses current geometry because
// a panel drawn in a separate layer is not a child of its trigger.
type dismisser struct {
	host    Host
	cfg     Config
	handles handleSet

	// panelRect returns the panel's on-screen rect, or false while the
	// panel has no position yet.
	panelRect func() (Rect, bool)
	close     func(reason string)
}

func newDismisser(host Host, cfg Config, panelRect func() (Rect, bool), close func(reason string)) *dismisser {
	return &dismisser{
		host:      host,
		cfg:       cfg,
		handles:   newHandleSet("dismissal"),
		panelRect: panelRect,
		close:     close,
	}
}

func (d *dismisser) attach() error {
	if err := d.handles.begin(); err != nil {
		return err
	}
	if d.cfg.CloseOnOutsideClick {
		d.handles.add("pointer", d.host.OnOutsidePointerDown(d.pointerDown))
	}
	if d.cfg.CloseOnHostNavigation {
		d.handles.add("navigate", d.host.OnNavigate(func() {
			d.close("navigation")
		}))
	}
	return nil
}

func (d *dismisser) detach() {
	d.handles.release()
}

func (d *dismisser) pointerDown(x, y int) {
	if d.inside(x, y) {
		return
	}
	d.close("outside pointer")
}

// inside reports whether (x, y) hits the trigger or the positioned panel.
func (d *dismisser) inside(x, y int) bool {
	if d.host.Measure(Trigger).Contains(x, y) {
		return true
	}
	if r, ok := d.panelRect(); ok && r.Contains(x, y) {
		return true
	}
	return false
}
