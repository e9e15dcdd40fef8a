package overlay

// Calculate returns the raw panel origin for placement p and alignment a,
// before any viewport collision handling.
//
// The main axis (set by p) projects the panel away from the trigger by
// offset; the cross axis (set by a) lines the panel up with the trigger's
// start edge, end edge or center. The function is pure.
func Calculate(trigger, panel Rect, p Placement, a Alignment, offset int) Position {
	var pos Position

	switch p {
	case Top:
		pos.Top = trigger.Y - panel.Height - offset
	case Left:
		pos.Left = trigger.X - panel.Width - offset
	case Right:
		pos.Left = trigger.Right() + offset
	default:
		pos.Top = trigger.Bottom() + offset
	}

	if p.Vertical() {
		pos.Left = crossAxis(trigger.X, trigger.Width, panel.Width, a)
	} else {
		pos.Top = crossAxis(trigger.Y, trigger.Height, panel.Height, a)
	}
	return pos
}

// crossAxis aligns a panel span of size panelSize against a trigger span
// [start, start+size).
func crossAxis(start, size, panelSize int, a Alignment) int {
	switch a {
	case Start:
		return start
	case End:
		return start + size - panelSize
	default:
		return start + (size-panelSize)/2
	}
}
