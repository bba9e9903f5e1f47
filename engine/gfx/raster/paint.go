package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/hubastard/isomap/engine/iso"
)

// Painter fills and strokes screen-space polygons onto an RGBA surface with
// anti-aliased coverage. Each call rasterises into a buffer sized to the clipped
// bounding box of its shapes, so shapes may extend past the surface.
type Painter struct {
	Dst *image.RGBA
	z   vector.Rasterizer
}

// Fill paints every polygon in polys with c in one pass.
func (p *Painter) Fill(c color.RGBA, polys ...[]iso.Point) {
	if c.A == 0 {
		return
	}
	r, ok := p.clip(0, polys)
	if !ok {
		return
	}
	p.z.Reset(r.Dx(), r.Dy())
	for _, poly := range polys {
		p.path(poly, r.Min)
	}
	p.z.Draw(p.Dst, r, image.NewUniform(c), image.Point{})
}

// Stroke outlines each closed polygon with a line of the given pixel width.
func (p *Painter) Stroke(c color.RGBA, width float64, polys ...[]iso.Point) {
	var segs [][2]iso.Point
	for _, poly := range polys {
		segs = append(segs, iso.Edges(poly)...)
	}
	p.Lines(c, width, segs...)
}

// Lines draws each segment as a quad of the given pixel width.
func (p *Painter) Lines(c color.RGBA, width float64, segs ...[2]iso.Point) {
	if c.A == 0 || width <= 0 || len(segs) == 0 {
		return
	}
	quads := make([][]iso.Point, 0, len(segs))
	for _, s := range segs {
		if q, ok := iso.SegmentQuad(s[0], s[1], width/2); ok {
			quads = append(quads, q[:])
		}
	}
	p.Fill(c, quads...)
}

func (p *Painter) path(poly []iso.Point, origin image.Point) {
	if len(poly) < 3 {
		return
	}
	ox, oy := float64(origin.X), float64(origin.Y)
	p.z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
	for _, pt := range poly[1:] {
		p.z.LineTo(float32(pt.X-ox), float32(pt.Y-oy))
	}
	p.z.ClosePath()
}

// clip returns the pixel bounds of polys grown by pad, intersected with Dst.
func (p *Painter) clip(pad float64, polys [][]iso.Point) (image.Rectangle, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, pt := range poly {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}
	if minX > maxX {
		return image.Rectangle{}, false
	}
	b := p.Dst.Bounds()
	r := image.Rect(
		clampInt(math.Floor(minX-pad), b.Min.X, b.Max.X),
		clampInt(math.Floor(minY-pad), b.Min.Y, b.Max.Y),
		clampInt(math.Ceil(maxX+pad), b.Min.X, b.Max.X),
		clampInt(math.Ceil(maxY+pad), b.Min.Y, b.Max.Y),
	)
	if r.Empty() {
		return image.Rectangle{}, false
	}
	return r, true
}

func clampInt(v float64, lo, hi int) int {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}
