// Package iso holds the isometric diamond projection shared by every view of the map.
//
// World coordinates address the N×N grid; tile (i, j) is centred on the integer
// point (i, j). Screen coordinates are pixels with the origin top-left and y down.
package iso

import "math"

// Camera is the primary view transform: a screen-space pan offset and a zoom scale.
// It is a plain value; the owning scene.Camera hands out copies.
type Camera struct {
	X, Y  float64
	Scale float64
}

// Projection maps world grid coordinates onto the isometric plane, in half-tile units.
type Projection struct {
	HalfW, HalfH float64
}

func NewProjection(tileW, tileH float64) Projection {
	return Projection{HalfW: tileW / 2, HalfH: tileH / 2}
}

// TileW is the full on-screen width of a tile at scale 1.
func (p Projection) TileW() float64 { return p.HalfW * 2 }

// TileH is the full on-screen height of a tile at scale 1.
func (p Projection) TileH() float64 { return p.HalfH * 2 }

// WorldToScreen projects a world point onto the unscaled, unpanned isometric plane.
func (p Projection) WorldToScreen(x, y float64) (sx, sy float64) {
	return (x - y) * p.HalfW, (x + y) * p.HalfH
}

// Project is WorldToScreen followed by the camera's zoom and pan.
func (p Projection) Project(x, y float64, cam Camera) (sx, sy float64) {
	px, py := p.WorldToScreen(x, y)
	return px*cam.Scale + cam.X, py*cam.Scale + cam.Y
}

// ScreenToWorld undoes the camera and then the projection. cam.Scale must be positive.
func (p Projection) ScreenToWorld(sx, sy float64, cam Camera) (wx, wy float64) {
	lx := (sx - cam.X) / cam.Scale
	ly := (sy - cam.Y) / cam.Scale
	u := lx / p.HalfW
	v := ly / p.HalfH
	return (u + v) / 2, (v - u) / 2
}

// ZoomAnchored returns the camera at newScale that keeps the world point currently
// under screen point (fx, fy) at that same screen point.
func (p Projection) ZoomAnchored(cam Camera, fx, fy, newScale float64) Camera {
	wx, wy := p.ScreenToWorld(fx, fy, cam)
	px, py := p.WorldToScreen(wx, wy)
	return Camera{
		X:     fx - px*newScale,
		Y:     fy - py*newScale,
		Scale: newScale,
	}
}

// Centered returns the camera at scale that puts world point (wx, wy) at the
// centre of a viewport of size w×h.
func (p Projection) Centered(wx, wy, scale, w, h float64) Camera {
	px, py := p.WorldToScreen(wx, wy)
	return Camera{
		X:     w/2 - px*scale,
		Y:     h/2 - py*scale,
		Scale: scale,
	}
}

// Tile resolves a world point to the tile containing it.
func Tile(wx, wy float64) (int, int) {
	return int(math.Floor(wx + 0.5)), int(math.Floor(wy + 0.5))
}

// InGrid reports whether tile (i, j) lies on an n×n grid.
func InGrid(i, j, n int) bool {
	return i >= 0 && j >= 0 && i < n && j < n
}

// Point is a screen or world position.
type Point struct{ X, Y float64 }

// Footprint returns the projected diamond of the world rectangle covering tiles
// x..x+w-1, y..y+h-1, in drawing order top, right, bottom, left.
func (p Projection) Footprint(x, y, w, h float64, cam Camera) [4]Point {
	x0, y0 := x-0.5, y-0.5
	x1, y1 := x+w-0.5, y+h-0.5
	var out [4]Point
	out[0].X, out[0].Y = p.Project(x0, y0, cam)
	out[1].X, out[1].Y = p.Project(x1, y0, cam)
	out[2].X, out[2].Y = p.Project(x1, y1, cam)
	out[3].X, out[3].Y = p.Project(x0, y1, cam)
	return out
}
