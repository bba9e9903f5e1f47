package scene

import (
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/world"
)

// ControllerConfig tunes the primary view's pointer, wheel and keyboard handling.
type ControllerConfig struct {
	Gesture       GestureConfig
	ZoomIn        float64 // wheel multiplier when scrolling up
	ZoomOut       float64 // wheel multiplier when scrolling down
	WheelAtCenter bool    // anchor wheel zoom at the viewport centre instead of the pointer
	KeyPanSpeed   float64 // pixels per second for WASD/arrow panning
	KeyZoomStep   float64 // multiplier per +/- press
}

// PointerController turns raw window events into camera moves and selections:
// left-drag pans, left-click selects, wheel zooms, WASD pans, +/- zoom.
type PointerController struct {
	Camera   *Camera
	World    *world.World
	Selector *Selector
	Config   ControllerConfig
	Tracker  *GestureTracker

	hoverX, hoverY float64
	hovering       bool
}

func NewPointerController(cam *Camera, w *world.World, sel *Selector, cfg ControllerConfig) *PointerController {
	return &PointerController{
		Camera:   cam,
		World:    w,
		Selector: sel,
		Config:   cfg,
		Tracker:  NewGestureTracker(cfg.Gesture),
	}
}

// Hover returns the tile under the cursor, if the cursor is over the grid.
func (pc *PointerController) Hover() (int, int, bool) {
	if !pc.hovering {
		return 0, 0, false
	}
	i, j := iso.Tile(pc.Camera.ScreenToWorld(pc.hoverX, pc.hoverY))
	return i, j, pc.World.InBounds(i, j)
}

// HandleEvent returns true when the event was consumed.
func (pc *PointerController) HandleEvent(ev core.Event) bool {
	switch e := ev.(type) {
	case core.EventMouseButton:
		if e.Button != core.MouseLeft {
			return false
		}
		pc.hoverX, pc.hoverY, pc.hovering = e.X, e.Y, true
		if e.Down {
			pc.Tracker.Down(e.X, e.Y)
			return true
		}
		if pc.Tracker.Up(e.X, e.Y) {
			pc.Select(e.X, e.Y)
		}
		return true
	case core.EventMouseMove:
		pc.hoverX, pc.hoverY, pc.hovering = e.X, e.Y, true
		if m := pc.Tracker.Move(e.X, e.Y); m.Dragging {
			pc.Camera.PanBy(m.DX, m.DY)
			return true
		}
		return false
	case core.EventScroll:
		pc.Wheel(e.Yoff, e.X, e.Y)
		return true
	case core.EventCursorEnter:
		if !e.Entered {
			pc.hovering = false
			pc.Tracker.Cancel()
		}
		return false
	case core.EventFocus:
		if !e.Focused {
			pc.Tracker.Cancel()
		}
		return false
	case core.EventKey:
		if !e.Down {
			return false
		}
		v := pc.Camera.Snapshot()
		switch e.Key {
		case core.KeyEqual:
			pc.Camera.ZoomBy(v.Width/2, v.Height/2, pc.Config.KeyZoomStep)
			return true
		case core.KeyMinus:
			pc.Camera.ZoomBy(v.Width/2, v.Height/2, 1/pc.Config.KeyZoomStep)
			return true
		case core.KeyEscape:
			if _, ok := pc.Selector.Current(); ok {
				pc.Selector.Clear()
				return true
			}
		}
	}
	return false
}

// Wheel zooms by the configured multiplier, anchored at (fx, fy) or at the
// viewport centre when WheelAtCenter is set.
func (pc *PointerController) Wheel(delta, fx, fy float64) {
	f := WheelFactor(delta, pc.Config.ZoomIn, pc.Config.ZoomOut)
	if f == 1 {
		return
	}
	if pc.Config.WheelAtCenter {
		v := pc.Camera.Snapshot()
		fx, fy = v.Width/2, v.Height/2
	}
	pc.Camera.ZoomBy(fx, fy, f)
}

// Select resolves a click at screen point (sx, sy). A structure on the tile wins
// over the bare tile; clicks off the grid select nothing.
func (pc *PointerController) Select(sx, sy float64) {
	i, j := iso.Tile(pc.Camera.ScreenToWorld(sx, sy))
	if !pc.World.InBounds(i, j) {
		return
	}
	if hit, ok := pc.World.StructureAt(i, j); ok {
		pc.Selector.Set(hit)
		return
	}
	pc.Selector.Set(world.TileSelection{X: i, Y: j})
}

// Update applies held keys; dt is in seconds.
func (pc *PointerController) Update(in *core.Input, dt float64) {
	step := pc.Config.KeyPanSpeed * dt
	var dx, dy float64
	if in.IsKeyDown(core.KeyW) || in.IsKeyDown(core.KeyUp) {
		dy += step
	}
	if in.IsKeyDown(core.KeyS) || in.IsKeyDown(core.KeyDown) {
		dy -= step
	}
	if in.IsKeyDown(core.KeyA) || in.IsKeyDown(core.KeyLeft) {
		dx += step
	}
	if in.IsKeyDown(core.KeyD) || in.IsKeyDown(core.KeyRight) {
		dx -= step
	}
	if dx != 0 || dy != 0 {
		pc.Camera.PanBy(dx, dy)
	}
}
