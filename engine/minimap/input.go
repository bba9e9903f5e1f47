package minimap

import (
	"image"

	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
)

type pointer struct {
	tracker  *scene.GestureTracker
	origin   image.Point
	captured bool
}

// SetOrigin places the canvas' top-left corner in window pixels.
func (m *Minimap) SetOrigin(p image.Point) { m.input.origin = p }

// Rect is the window area covered by the canvas.
func (m *Minimap) Rect() image.Rectangle {
	return image.Rectangle{Min: m.input.origin, Max: m.input.origin.Add(image.Pt(m.cfg.Width, m.cfg.Height))}
}

// Tracker exposes the gesture state machine, mainly so tests can swap its clock.
func (m *Minimap) Tracker() *scene.GestureTracker { return m.input.tracker }

func (m *Minimap) contains(x, y float64) bool {
	r := m.Rect()
	return x >= float64(r.Min.X) && y >= float64(r.Min.Y) && x < float64(r.Max.X) && y < float64(r.Max.Y)
}

func (m *Minimap) local(x, y float64) (float64, float64) {
	return x - float64(m.input.origin.X), y - float64(m.input.origin.Y)
}

// HandleEvent consumes presses and scrolls over the canvas, and every pointer
// event while a press that started on it is held. Hover moves pass through so
// layers below keep tracking the cursor.
func (m *Minimap) HandleEvent(ev core.Event) bool {
	in := &m.input
	switch e := ev.(type) {
	case core.EventMouseButton:
		if e.Button != core.MouseLeft {
			return in.captured || m.contains(e.X, e.Y)
		}
		x, y := m.local(e.X, e.Y)
		if e.Down {
			if !m.contains(e.X, e.Y) {
				return false
			}
			in.captured = true
			in.tracker.Down(x, y)
			return true
		}
		if !in.captured {
			return false
		}
		in.captured = false
		if in.tracker.Up(x, y) {
			m.Click(x, y)
		}
		return true
	case core.EventMouseMove:
		if !in.captured {
			return false
		}
		x, y := m.local(e.X, e.Y)
		if mv := in.tracker.Move(x, y); mv.Dragging {
			m.Drag(x-mv.DX, y-mv.DY, x, y)
		}
		return true
	case core.EventScroll:
		if !m.contains(e.X, e.Y) {
			return false
		}
		m.Wheel(e.Yoff)
		return true
	case core.EventCursorEnter:
		if !e.Entered {
			m.cancel()
		}
	case core.EventFocus:
		if !e.Focused {
			m.cancel()
		}
	}
	return false
}

func (m *Minimap) cancel() {
	m.input.captured = false
	m.input.tracker.Cancel()
}

// Click centres the primary view on the tile under canvas point (x, y).
func (m *Minimap) Click(x, y float64) {
	i, j := iso.Tile(m.ScreenToWorld(x, y))
	if !m.world.InBounds(i, j) {
		return
	}
	m.primary.FocusOn(float64(i), float64(j))
}

// Drag moves the primary view so the world point under canvas point (x0, y0)
// follows the pointer to (x1, y1), scaled by the follow factor.
func (m *Minimap) Drag(x0, y0, x1, y1 float64) {
	w0x, w0y := m.ScreenToWorld(x0, y0)
	w1x, w1y := m.ScreenToWorld(x1, y1)
	f := m.cfg.FollowFactor
	dx, dy := m.primary.Projection().WorldToScreen(f*(w0x-w1x), f*(w0y-w1y))
	s := m.primary.Snapshot().Scale
	m.primary.PanBy(-dx*s, -dy*s)
}

// Wheel zooms the primary view about its own centre.
func (m *Minimap) Wheel(delta float64) {
	f := scene.WheelFactor(delta, m.cfg.ZoomIn, m.cfg.ZoomOut)
	if f == 1 {
		return
	}
	v := m.primary.Snapshot()
	m.primary.ZoomBy(v.Width/2, v.Height/2, f)
}
