// Package overlay positions floating panels (menus, tooltips, select lists,
// sub-menus) next to the element that triggered them.
//
// The package has three layers:
//   - Calculate and Resolve are pure geometry: where the panel goes for a
//     placement and alignment, and how it is clamped into the viewport.
//   - Overlay is a per-instance state machine that sequences mount,
//     measurement, reveal and the timed fade-out before unmount.
//   - While open, an Overlay subscribes to scroll, resize and panel
//     size-change signals and to outside pointer presses and navigation,
//     and releases every subscription when it returns to Closed.
//
// Everything environment-specific comes in through Host, so the same engine
// runs under a terminal UI, a test fake, or any other event loop.
//
// # Usage
//
//	o, err := overlay.New(overlay.DefaultConfig(), host,
//	    overlay.WithOnChange(func(overlay.State) { requestRender() }))
//	if err != nil {
//	    return err
//	}
//	o.Toggle()
//	if pos := o.CurrentPosition(); pos != nil && o.State() == overlay.Visible {
//	    draw(panel, pos.Top, pos.Left)
//	}
package overlay
