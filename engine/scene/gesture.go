package scene

import (
	"math"
	"time"

	"github.com/hubastard/isomap/engine/iso"
)

// GestureConfig holds the thresholds that separate a click from a drag.
type GestureConfig struct {
	DragDelay     time.Duration // minimum press time before a drag may start
	DragDistance  float64       // minimum accumulated movement before a drag may start
	ClickDistance float64       // a release counts as a click only below this movement
}

type GesturePhase int

const (
	GestureIdle GesturePhase = iota
	GestureDown
	GestureDragging
)

func (p GesturePhase) String() string {
	switch p {
	case GestureIdle:
		return "idle"
	case GestureDown:
		return "down"
	case GestureDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Motion is the outcome of one pointer move.
type Motion struct {
	DX, DY   float64 // raw delta since the previous event, only set while dragging
	Dragging bool
	Started  bool // this move promoted the gesture to a drag
}

// GestureTracker is the per-pointer click/drag state machine:
// Idle -> Down -> (Dragging | click on release) -> Idle.
// Thresholds are checked lazily on the next input event; there are no timers.
type GestureTracker struct {
	Config GestureConfig
	Now    func() time.Time

	phase    GesturePhase
	start    iso.Point
	last     iso.Point
	downTime time.Time
	moved    float64
}

func NewGestureTracker(cfg GestureConfig) *GestureTracker {
	return &GestureTracker{Config: cfg, Now: time.Now}
}

func (g *GestureTracker) Phase() GesturePhase { return g.phase }

// Start is where the current press began.
func (g *GestureTracker) Start() iso.Point { return g.start }

// Moved is the total path length travelled since the press.
func (g *GestureTracker) Moved() float64 { return g.moved }

func (g *GestureTracker) Down(x, y float64) {
	g.phase = GestureDown
	g.start = iso.Point{X: x, Y: y}
	g.last = g.start
	g.downTime = g.now()
	g.moved = 0
}

func (g *GestureTracker) Move(x, y float64) Motion {
	if g.phase == GestureIdle {
		return Motion{}
	}
	dx, dy := x-g.last.X, y-g.last.Y
	g.last = iso.Point{X: x, Y: y}
	g.moved += math.Hypot(dx, dy)

	var m Motion
	if g.phase == GestureDown {
		if g.now().Sub(g.downTime) < g.Config.DragDelay || g.moved < g.Config.DragDistance {
			return m
		}
		g.phase = GestureDragging
		m.Started = true
	}
	m.Dragging = true
	m.DX, m.DY = dx, dy
	return m
}

// Up ends the gesture and reports whether it resolved to a click. A release with
// no matching press is treated as already idle.
func (g *GestureTracker) Up(x, y float64) bool {
	if g.phase == GestureIdle {
		return false
	}
	if x != g.last.X || y != g.last.Y {
		g.moved += math.Hypot(x-g.last.X, y-g.last.Y)
	}
	click := g.phase == GestureDown && g.moved < g.Config.ClickDistance
	g.reset()
	return click
}

// Cancel drops the gesture without a click, e.g. on pointer leave.
func (g *GestureTracker) Cancel() { g.reset() }

func (g *GestureTracker) reset() {
	g.phase = GestureIdle
	g.moved = 0
}

func (g *GestureTracker) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// WheelFactor picks the zoom multiplier from the sign of a wheel delta.
func WheelFactor(delta, zoomIn, zoomOut float64) float64 {
	switch {
	case delta > 0:
		return zoomIn
	case delta < 0:
		return zoomOut
	default:
		return 1
	}
}
