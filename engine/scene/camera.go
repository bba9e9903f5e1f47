package scene

import (
	"fmt"

	"github.com/hubastard/isomap/engine/iso"
)

// View is a consistent snapshot of the camera and the surface it projects onto.
type View struct {
	iso.Camera
	Width, Height float64
}

// Camera owns the primary view transform. Every mutation replaces the whole
// iso.Camera value at once, so a snapshot never mixes a new pan with an old scale.
type Camera struct {
	proj     iso.Projection
	cam      iso.Camera
	minScale float64
	maxScale float64
	width    float64
	height   float64
	changed  observers[View]
}

// NewCamera builds a camera with the zoom band [minScale, maxScale].
func NewCamera(proj iso.Projection, minScale, maxScale, scale float64) (*Camera, error) {
	if minScale <= 0 || maxScale < minScale {
		return nil, fmt.Errorf("camera: invalid scale band [%v, %v]", minScale, maxScale)
	}
	c := &Camera{proj: proj, minScale: minScale, maxScale: maxScale}
	c.cam.Scale = c.clamp(scale)
	return c, nil
}

func (c *Camera) Projection() iso.Projection { return c.proj }

// SetProjection swaps the tile geometry, e.g. after the world is reloaded.
func (c *Camera) SetProjection(p iso.Projection) {
	c.proj = p
	c.emit()
}

// Band returns the configured zoom band.
func (c *Camera) Band() (min, max float64) { return c.minScale, c.maxScale }

func (c *Camera) Snapshot() View {
	return View{Camera: c.cam, Width: c.width, Height: c.height}
}

// SetViewport records the current surface size in pixels.
func (c *Camera) SetViewport(w, h float64) {
	c.width, c.height = w, h
	c.emit()
}

func (c *Camera) PanBy(dx, dy float64) {
	next := c.cam
	next.X += dx
	next.Y += dy
	c.set(next)
}

func (c *Camera) PanTo(x, y float64) {
	next := c.cam
	next.X, next.Y = x, y
	c.set(next)
}

// SetScale changes the zoom without touching the pan offset.
func (c *Camera) SetScale(s float64) {
	next := c.cam
	next.Scale = c.clamp(s)
	c.set(next)
}

// ZoomTo replaces pan and scale together. The scale is clamped to the band.
func (c *Camera) ZoomTo(next iso.Camera) {
	next.Scale = c.clamp(next.Scale)
	c.set(next)
}

// ZoomAt zooms to scale while the world point under (fx, fy) stays put.
func (c *Camera) ZoomAt(fx, fy, scale float64) {
	c.ZoomTo(c.proj.ZoomAnchored(c.cam, fx, fy, c.clamp(scale)))
}

// ZoomBy multiplies the scale by factor, anchored at (fx, fy).
func (c *Camera) ZoomBy(fx, fy, factor float64) {
	c.ZoomAt(fx, fy, c.cam.Scale*factor)
}

type focusOptions struct {
	scale    float64
	hasScale bool
}

type FocusOption func(*focusOptions)

// WithScale focuses at the given scale instead of the current one.
func WithScale(s float64) FocusOption {
	return func(o *focusOptions) { o.scale, o.hasScale = s, true }
}

// FocusOn centres world point (wx, wy) in the viewport.
func (c *Camera) FocusOn(wx, wy float64, opts ...FocusOption) {
	o := focusOptions{scale: c.cam.Scale}
	for _, opt := range opts {
		opt(&o)
	}
	scale := c.cam.Scale
	if o.hasScale {
		scale = c.clamp(o.scale)
	}
	c.set(c.proj.Centered(wx, wy, scale, c.width, c.height))
}

// ScreenToWorld inverse-projects a screen point through the current camera.
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return c.proj.ScreenToWorld(sx, sy, c.cam)
}

// CenterWorld is the world point at the centre of the viewport.
func (c *Camera) CenterWorld() (float64, float64) {
	return c.proj.ScreenToWorld(c.width/2, c.height/2, c.cam)
}

// ViewportCorners returns the world positions of the viewport's top-left,
// top-right, bottom-right and bottom-left corners.
func (c *Camera) ViewportCorners() [4]iso.Point {
	return Corners(c.proj, c.Snapshot())
}

// Corners is ViewportCorners for an arbitrary snapshot.
func Corners(p iso.Projection, v View) [4]iso.Point {
	screen := [4]iso.Point{{X: 0, Y: 0}, {X: v.Width, Y: 0}, {X: v.Width, Y: v.Height}, {X: 0, Y: v.Height}}
	var out [4]iso.Point
	for i, s := range screen {
		out[i].X, out[i].Y = p.ScreenToWorld(s.X, s.Y, v.Camera)
	}
	return out
}

// Subscribe registers fn to run after every camera change. Call the returned
// func to unsubscribe.
func (c *Camera) Subscribe(fn func(View)) func() { return c.changed.add(fn) }

func (c *Camera) set(next iso.Camera) {
	if next == c.cam {
		return
	}
	c.cam = next
	c.emit()
}

func (c *Camera) emit() { c.changed.notify(c.Snapshot()) }

func (c *Camera) clamp(s float64) float64 {
	if s < c.minScale {
		return c.minScale
	}
	if s > c.maxScale {
		return c.maxScale
	}
	return s
}
