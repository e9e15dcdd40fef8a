package overlay

import (
	"fmt"
	"strings"
	"time"
)

// Rect is an axis-aligned box in viewport coordinates.
// A zero-size rect means the element could not be measured yet.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the x-coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y-coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Empty reports whether the rect has no measurable area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Placement is the side of the trigger the panel is projected onto.
type Placement int

const (
	Bottom Placement = iota
	Top
	Left
	Right
)

func (p Placement) String() string {
	switch p {
	case Top:
		return "top"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "bottom"
	}
}

// Opposite returns the placement on the other side of the trigger.
func (p Placement) Opposite() Placement {
	switch p {
	case Top:
		return Bottom
	case Left:
		return Right
	case Right:
		return Left
	default:
		return Top
	}
}

// Vertical reports whether the main axis of p runs top to bottom.
func (p Placement) Vertical() bool {
	return p == Top || p == Bottom
}

// ParsePlacement converts "top", "bottom", "left" or "right" to a Placement.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bottom", "":
		return Bottom, nil
	case "top":
		return Top, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Bottom, newError(CodeInvalidConfig, fmt.Sprintf("unknown placement %q", s), nil)
}

// Alignment positions the panel along the cross axis.
type Alignment int

const (
	Center Alignment = iota
	Start
	End
)

func (a Alignment) String() string {
	switch a {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return "center"
	}
}

// ParseAlignment converts "start", "center" or "end" to an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "":
		return Center, nil
	case "start":
		return Start, nil
	case "end":
		return End, nil
	}
	return Center, newError(CodeInvalidConfig, fmt.Sprintf("unknown alignment %q", s), nil)
}

// Position is a resolved panel origin.
type Position struct {
	Top  int
	Left int
}

// State is the lifecycle phase of one overlay instance.
type State int

const (
	Closed State = iota
	Mounting
	Measuring
	Visible
	Closing
)

func (s State) String() string {
	switch s {
	case Mounting:
		return "mounting"
	case Measuring:
		return "measuring"
	case Visible:
		return "visible"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

// Mounted reports whether the panel is part of the render tree in state s.
func (s State) Mounted() bool {
	return s != Closed
}

// Config is the per-instance overlay configuration. It is copied into the
// overlay on construction and never changes afterwards.
type Config struct {
	Placement Placement
	Alignment Alignment
	Offset    int
	Padding   int

	// AnimationDuration must match the host's real fade transition.
	// Too short pops, too long flashes a stale position.
	AnimationDuration time.Duration

	CloseOnOutsideClick   bool
	CloseOnHostNavigation bool

	Collision          CollisionPolicy
	MaxMeasureAttempts int
	MatchTriggerWidth  bool
}

// Defaults
const (
	DefaultOffset             = 4
	DefaultPadding            = 8
	DefaultAnimationDuration  = 100 * time.Millisecond
	DefaultMaxMeasureAttempts = 10
)

// DefaultConfig returns the dropdown defaults: bottom/center, 4 offset,
// 8 padding, 100ms fade, closing on outside click and navigation.
func DefaultConfig() Config {
	return Config{
		Placement:             Bottom,
		Alignment:             Center,
		Offset:                DefaultOffset,
		Padding:               DefaultPadding,
		AnimationDuration:     DefaultAnimationDuration,
		CloseOnOutsideClick:   true,
		CloseOnHostNavigation: true,
		Collision:             CollisionClamp,
		MaxMeasureAttempts:    DefaultMaxMeasureAttempts,
		MatchTriggerWidth:     true,
	}
}

// Validate rejects configs the engine cannot honor.
func (c Config) Validate() error {
	switch {
	case c.Placement < Bottom || c.Placement > Right:
		return newError(CodeInvalidConfig, fmt.Sprintf("placement %d out of range", c.Placement), nil)
	case c.Alignment < Center || c.Alignment > End:
		return newError(CodeInvalidConfig, fmt.Sprintf("alignment %d out of range", c.Alignment), nil)
	case c.Collision != CollisionClamp && c.Collision != CollisionFlip:
		return newError(CodeInvalidConfig, fmt.Sprintf("collision policy %d out of range", c.Collision), nil)
	case c.Offset < 0:
		return newError(CodeInvalidConfig, "offset must not be negative", nil)
	case c.Padding < 0:
		return newError(CodeInvalidConfig, "padding must not be negative", nil)
	case c.AnimationDuration < 0:
		return newError(CodeInvalidConfig, "animation duration must not be negative", nil)
	case c.MaxMeasureAttempts < 0:
		return newError(CodeInvalidConfig, "max measure attempts must not be negative", nil)
	}
	return nil
}
