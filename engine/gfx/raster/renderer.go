// Package raster is the immediate-mode map backend. It repaints the whole view
// into an *image.RGBA every frame with the golang.org/x/image rasteriser.
package raster

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/gfx/frame"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

// Stats describes the last frame.
type Stats struct {
	Tiles      int
	Structures []string // ids in draw order
	Outlined   bool
}

type Options struct {
	SelectionColor colors.Color
	SelectionWidth float64 // pixels
	BorderWidth    float64 // pixels, for structures with a border colour
	GridWidth      float64 // pixels, 0 disables the grid
}

var DefaultOptions = Options{
	SelectionColor: colors.Yellow,
	SelectionWidth: 2,
	BorderWidth:    1,
	GridWidth:      1,
}

type Renderer struct {
	Camera   *scene.Camera
	World    *world.World
	Selector *scene.Selector
	Options  Options

	paint Painter
	frame frame.Frame
	stats Stats
	runs  map[int][][]iso.Point
}

// New draws into target. The camera viewport is not touched; callers keep it in
// step with the target size.
func New(target *image.RGBA, cam *scene.Camera, w *world.World, sel *scene.Selector) *Renderer {
	return &Renderer{
		Camera:   cam,
		World:    w,
		Selector: sel,
		Options:  DefaultOptions,
		paint:    Painter{Dst: target},
		runs:     make(map[int][][]iso.Point),
	}
}

func (r *Renderer) Target() *image.RGBA { return r.paint.Dst }

// SetTarget swaps the surface, e.g. after a resize.
func (r *Renderer) SetTarget(dst *image.RGBA) { r.paint.Dst = dst }

func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Structures = append([]string(nil), s.Structures...)
	return s
}

func (r *Renderer) Frame() *frame.Frame { return &r.frame }

func (r *Renderer) RenderFrame() {
	r.frame.Update(r.Camera, r.World, r.Selector)
	f := &r.frame
	r.stats = Stats{Structures: r.stats.Structures[:0]}

	dst := r.paint.Dst
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.World.Background.RGBA()), image.Point{}, draw.Src)
	if f.Bounds.Empty() {
		return
	}

	r.drawGround(f)
	r.drawGrid(f)
	for _, it := range f.Structures {
		r.drawStructure(f, it.Structure)
		r.stats.Structures = append(r.stats.Structures, it.Structure.ID)
	}
	if rect, ok := f.Outline(); ok {
		d := footprint(f, rect)
		r.paint.Stroke(r.Options.SelectionColor.RGBA(), r.Options.SelectionWidth, d[:])
		r.stats.Outlined = true
	}
}

// drawGround paints the visible tiles. Horizontal runs of one biome along a row
// collapse into a single parallelogram, then each biome is filled in one pass.
func (r *Renderer) drawGround(f *frame.Frame) {
	for k := range r.runs {
		r.runs[k] = r.runs[k][:0]
	}
	b := f.Bounds
	for j := b.MinY; j <= b.MaxY; j++ {
		start := b.MinX
		cur := r.World.BiomeIndex(start, j)
		for i := b.MinX + 1; i <= b.MaxX+1; i++ {
			next := -2
			if i <= b.MaxX {
				next = r.World.BiomeIndex(i, j)
			}
			if next == cur {
				continue
			}
			d := f.Proj.Footprint(float64(start), float64(j), float64(i-start), 1, f.View.Camera)
			r.runs[cur] = append(r.runs[cur], d[:])
			start, cur = i, next
		}
	}
	r.stats.Tiles = b.Tiles()

	r.paint.Fill(r.World.Default.Color.RGBA(), r.runs[-1]...)
	for k, reg := range r.World.Biomes {
		r.paint.Fill(reg.Color.RGBA(), r.runs[k]...)
	}
}

func (r *Renderer) drawGrid(f *frame.Frame) {
	c := r.World.Grid.RGBA()
	if c.A == 0 || r.Options.GridWidth <= 0 {
		return
	}
	b := f.Bounds
	cam := f.View.Camera
	x0, x1 := float64(b.MinX)-0.5, float64(b.MaxX)+0.5
	y0, y1 := float64(b.MinY)-0.5, float64(b.MaxY)+0.5
	segs := make([][2]iso.Point, 0, b.MaxX-b.MinX+b.MaxY-b.MinY+4)
	for i := b.MinX; i <= b.MaxX+1; i++ {
		x := float64(i) - 0.5
		segs = append(segs, [2]iso.Point{point(f, x, y0, cam), point(f, x, y1, cam)})
	}
	for j := b.MinY; j <= b.MaxY+1; j++ {
		y := float64(j) - 0.5
		segs = append(segs, [2]iso.Point{point(f, x0, y, cam), point(f, x1, y, cam)})
	}
	r.paint.Lines(c, r.Options.GridWidth, segs...)
}

func (r *Renderer) drawStructure(f *frame.Frame, s world.Structure) {
	d := footprint(f, s.Rect)
	r.paint.Fill(s.Color.RGBA(), d[:])
	if s.HasBorder() {
		r.paint.Stroke(s.Border.RGBA(), r.Options.BorderWidth, d[:])
	}
}

func footprint(f *frame.Frame, rect world.Rect) [4]iso.Point {
	return f.Proj.Footprint(float64(rect.X), float64(rect.Y), float64(rect.W), float64(rect.H), f.View.Camera)
}

func point(f *frame.Frame, x, y float64, cam iso.Camera) iso.Point {
	sx, sy := f.Proj.Project(x, y, cam)
	return iso.Point{X: sx, Y: sy}
}

// At reads back a pixel of the surface.
func (r *Renderer) At(x, y int) color.RGBA { return r.paint.Dst.RGBAAt(x, y) }
