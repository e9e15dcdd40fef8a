package overlay

// CollisionPolicy selects how a raw position is kept inside the viewport.
type CollisionPolicy int

const (
	// CollisionClamp clamps each axis independently into the padded
	// viewport. The panel never changes sides.
	CollisionClamp CollisionPolicy = iota

	// CollisionFlip first moves the panel to the opposite side of the
	// trigger when its side overflows and the other side has more room,
	// then clamps like CollisionClamp.
	CollisionFlip
)

func (c CollisionPolicy) String() string {
	if c == CollisionFlip {
		return "flip"
	}
	return "clamp"
}

// ParseCollisionPolicy converts "clamp" or "flip" to a CollisionPolicy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "clamp", "":
		return CollisionClamp, nil
	case "flip":
		return CollisionFlip, nil
	}
	return CollisionClamp, newError(CodeInvalidConfig, "unknown collision policy "+s, nil)
}

// Resolve clamps raw so the panel keeps padding distance from every
// viewport edge. An axis on which the panel does not fit is pinned to the
// padding, so the result is never pushed off the leading edge.
func Resolve(raw Position, panel, viewport Rect, padding int) Position {
	return Position{
		Top:  clampAxis(raw.Top, viewport.Y, viewport.Height, panel.Height, padding),
		Left: clampAxis(raw.Left, viewport.X, viewport.Width, panel.Width, padding),
	}
}

func clampAxis(v, origin, viewportSize, panelSize, padding int) int {
	lo := origin + padding
	hi := origin + viewportSize - panelSize - padding
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}

// Overflows reports whether panel cannot fit inside viewport minus padding
// on at least one axis.
func Overflows(panel, viewport Rect, padding int) bool {
	return panel.Width > viewport.Width-2*padding || panel.Height > viewport.Height-2*padding
}

// Flip moves raw to the opposite side of the trigger when the panel
// overflows the padded viewport on its own side and the opposite side
// offers more space. It returns the possibly flipped position and the
// placement actually used. Only the main axis changes.
func Flip(raw Position, trigger, panel, viewport Rect, p Placement, offset, padding int) (Position, Placement) {
	requested, opposite := mainAxisSpace(trigger, viewport, p)

	overflow := false
	switch p {
	case Top:
		overflow = raw.Top < viewport.Y+padding
	case Bottom:
		overflow = raw.Top+panel.Height > viewport.Bottom()-padding
	case Left:
		overflow = raw.Left < viewport.X+padding
	case Right:
		overflow = raw.Left+panel.Width > viewport.Right()-padding
	}
	if !overflow {
		return raw, p
	}

	if opposite <= requested {
		return raw, p
	}

	flipped := p.Opposite()
	main := Calculate(trigger, panel, flipped, Start, offset)
	if flipped.Vertical() {
		raw.Top = main.Top
	} else {
		raw.Left = main.Left
	}
	return raw, flipped
}

// mainAxisSpace returns the free space on the requested side of the trigger
// and on the opposite side.
func mainAxisSpace(trigger, viewport Rect, p Placement) (requested, opposite int) {
	above := trigger.Y - viewport.Y
	below := viewport.Bottom() - trigger.Bottom()
	leftOf := trigger.X - viewport.X
	rightOf := viewport.Right() - trigger.Right()

	switch p {
	case Top:
		return above, below
	case Left:
		return leftOf, rightOf
	case Right:
		return rightOf, leftOf
	default:
		return below, above
	}
}

// Compute runs placement and collision handling for cfg and returns the
// final panel origin together with the placement that was applied.
func Compute(trigger, panel, viewport Rect, cfg Config) (Position, Placement) {
	raw := Calculate(trigger, panel, cfg.Placement, cfg.Alignment, cfg.Offset)
	used := cfg.Placement
	if cfg.Collision == CollisionFlip {
		raw, used = Flip(raw, trigger, panel, viewport, cfg.Placement, cfg.Offset, cfg.Padding)
	}
	return Resolve(raw, panel, viewport, cfg.Padding), used
}
