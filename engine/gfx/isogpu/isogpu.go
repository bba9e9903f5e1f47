// Package isogpu is the shader map backend. One program draws the whole map: a
// single quad shaded per fragment by biome and grid, one flat quad per visible
// structure, then screen-space outlines.
package isogpu

import (
	"fmt"

	"github.com/hubastard/isomap/engine/assets"
	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/gfx/frame"
	"github.com/hubastard/isomap/engine/gfx/renderer2d"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

// Shader modes, matching the MODE_* defines in iso.frag.
const (
	ModeMap int32 = iota
	ModeObject
	ModeTextured
)

type Options struct {
	SelectionColor colors.Color
	SelectionWidth float64 // pixels
	BorderWidth    float64 // pixels
	GridWidth      float64 // pixels, 0 disables the grid
	// Derivatives takes the screen gradient of the world position from
	// dFdx/dFdy. Without it the gradient is read from the screen-to-world
	// matrix, which is exact for this affine view.
	Derivatives bool
}

var DefaultOptions = Options{
	SelectionColor: colors.Yellow,
	SelectionWidth: 2,
	BorderWidth:    1,
	GridWidth:      1,
	Derivatives:    true,
}

type Renderer struct {
	Camera   *scene.Camera
	World    *world.World
	Selector *scene.Selector
	Options  Options

	gpu       core.Renderer
	r2d       *renderer2d.Renderer2D
	frame     frame.Frame
	submitted []string
	stats     renderer2d.Statistics

	regionRects  core.Vec4Array
	regionColors core.Vec4Array
}

// New compiles the map program. A compile or link failure is returned here so
// the caller can fall back to another backend before the first frame.
func New(gpu core.Renderer, cam *scene.Camera, w *world.World, sel *scene.Selector) (*Renderer, error) {
	vs, fs, err := assets.LoadProgram("iso")
	if err != nil {
		return nil, fmt.Errorf("isogpu: %w", err)
	}
	r2d, err := renderer2d.New(gpu, vs, fs, 4096)
	if err != nil {
		return nil, fmt.Errorf("isogpu: build map program: %w", err)
	}
	return &Renderer{
		Camera:       cam,
		World:        w,
		Selector:     sel,
		Options:      DefaultOptions,
		gpu:          gpu,
		r2d:          r2d,
		regionRects:  make(core.Vec4Array, world.MaxBiomeRegions),
		regionColors: make(core.Vec4Array, world.MaxBiomeRegions),
	}, nil
}

// Submitted lists the structure ids sent to the GPU last frame, in draw order.
func (g *Renderer) Submitted() []string { return append([]string(nil), g.submitted...) }

func (g *Renderer) Stats() renderer2d.Statistics { return g.stats }

func (g *Renderer) Frame() *frame.Frame { return &g.frame }

func (g *Renderer) RenderFrame() {
	g.frame.Update(g.Camera, g.World, g.Selector)
	f := &g.frame
	v := f.View
	g.submitted = g.submitted[:0]

	bg := g.World.Background
	g.gpu.Clear(bg[0], bg[1], bg[2], bg[3])

	screenToClip := iso.ScreenToClip(v.Width, v.Height)
	worldToClip := iso.Mul(screenToClip, f.Proj.WorldToScreenMatrix(v.Camera))

	rd := g.r2d
	rd.BeginScene()
	g.setMapUniforms(f)
	rd.SetUniform("uToClip", worldToClip.Float32())

	// Pass 1: the visible part of the grid as one quad.
	rd.SetUniform("uMode", ModeMap)
	if !f.Bounds.Empty() {
		b := f.Bounds
		rd.DrawRect(float32(b.MinX)-0.5, float32(b.MinY)-0.5, float32(b.MaxX)+0.5, float32(b.MaxY)+0.5, colors.White)
	}
	rd.Flush()

	// Pass 2: structures in world space.
	rd.SetUniform("uMode", ModeObject)
	for _, it := range f.Structures {
		s := it.Structure
		rd.DrawRect(float32(s.X)-0.5, float32(s.Y)-0.5, float32(s.X+s.W)-0.5, float32(s.Y+s.H)-0.5, s.Color)
		g.submitted = append(g.submitted, s.ID)
	}
	rd.Flush()

	// Pass 3: borders and the selection outline in screen pixels.
	rd.SetUniform("uToClip", screenToClip.Float32())
	for _, it := range f.Structures {
		if it.Structure.HasBorder() {
			g.outline(f, it.Structure.Rect, it.Structure.Border, g.Options.BorderWidth)
		}
	}
	if r, ok := f.Outline(); ok {
		g.outline(f, r, g.Options.SelectionColor, g.Options.SelectionWidth)
	}
	rd.EndScene()
	g.stats = rd.Stats()
}

func (g *Renderer) setMapUniforms(f *frame.Frame) {
	w := g.World
	n := min(len(w.Biomes), world.MaxBiomeRegions)
	for k := range g.regionRects {
		g.regionRects[k] = [4]float32{}
		g.regionColors[k] = [4]float32{}
	}
	for k := 0; k < n; k++ {
		a := w.Biomes[k].Area
		g.regionRects[k] = [4]float32{float32(a.X), float32(a.Y), float32(a.W), float32(a.H)}
		g.regionColors[k] = w.Biomes[k].Color
	}
	rd := g.r2d
	rd.SetUniform("uRegionRects", g.regionRects)
	rd.SetUniform("uRegionColors", g.regionColors)
	rd.SetUniform("uRegionCount", int32(n))
	rd.SetUniform("uDefaultColor", [4]float32(w.Default.Color))
	rd.SetUniform("uGridColor", [4]float32(w.Grid))
	rd.SetUniform("uGridSize", int32(w.Size))
	rd.SetUniform("uViewport", [2]float32{float32(f.View.Width), float32(f.View.Height)})
	rd.SetUniform("uScreenToWorld", f.Proj.ScreenToWorldMatrix(f.View.Camera).Float32())
	deriv := int32(0)
	if g.Options.Derivatives {
		deriv = 1
	}
	rd.SetUniform("uDerivatives", deriv)
	rd.SetUniform("uGridHalfWidth", float32(max(g.Options.GridWidth, 0)/2))
}

func (g *Renderer) outline(f *frame.Frame, r world.Rect, c colors.Color, width float64) {
	if width <= 0 || c.IsZero() {
		return
	}
	d := f.Proj.Footprint(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), f.View.Camera)
	for _, e := range iso.Edges(d[:]) {
		q, ok := iso.SegmentQuad(e[0], e[1], width/2)
		if !ok {
			continue
		}
		var p [4][2]float32
		for i, pt := range q {
			p[i] = [2]float32{float32(pt.X), float32(pt.Y)}
		}
		g.r2d.DrawPolygon4(p, c)
	}
}
