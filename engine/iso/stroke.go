package iso

import "math"

// SegmentQuad widens the segment a->b by hw on each side and returns the quad in
// winding order. Every quad winds the same way, so overlapping joints add up
// instead of cancelling in a non-zero fill. ok is false for a degenerate segment.
func SegmentQuad(a, b Point, hw float64) (q [4]Point, ok bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return q, false
	}
	nx, ny := -dy/l*hw, dx/l*hw
	q[0] = Point{X: a.X + nx, Y: a.Y + ny}
	q[1] = Point{X: b.X + nx, Y: b.Y + ny}
	q[2] = Point{X: b.X - nx, Y: b.Y - ny}
	q[3] = Point{X: a.X - nx, Y: a.Y - ny}
	return q, true
}

// Edges returns the closing edge list of a polygon.
func Edges(poly []Point) [][2]Point {
	out := make([][2]Point, len(poly))
	for i := range poly {
		out[i] = [2]Point{poly[i], poly[(i+1)%len(poly)]}
	}
	return out
}
