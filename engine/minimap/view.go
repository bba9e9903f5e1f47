package minimap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/hubastard/isomap/engine/gfx/raster"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

// layerKey identifies the content of the cached base layer.
type layerKey struct {
	proj     Projection
	revision uint64
	layers   Layers
}

// Minimap owns the overview canvas and its gesture state.
type Minimap struct {
	cfg     Config
	primary *scene.Camera
	world   *world.World

	canvas *image.RGBA // final composite, Width×Height
	base   *image.RGBA // biomes and markers at canvas resolution
	super  *image.RGBA // supersampled biome buffer
	paint  raster.Painter

	key       layerKey
	haveBase  bool
	overlayOK bool
	unsub     func()

	rasters  int
	overlays int

	input pointer
}

// New builds a minimap that follows primary. Call Close to stop observing it.
func New(cfg Config, primary *scene.Camera, w *world.World) (*Minimap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Minimap{
		cfg:     cfg,
		primary: primary,
		world:   w,
		canvas:  image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		base:    image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		super:   image.NewRGBA(image.Rect(0, 0, cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample)),
	}
	m.input.tracker = scene.NewGestureTracker(cfg.Gesture)
	m.unsub = primary.Subscribe(func(scene.View) { m.overlayOK = false })
	return m, nil
}

func (m *Minimap) Close() {
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

func (m *Minimap) Config() Config { return m.cfg }

// SetLayers changes which layers are painted.
func (m *Minimap) SetLayers(l Layers) {
	m.cfg.Layers = l
	m.overlayOK = false
}

// Projection derives the current transform from the primary camera.
func (m *Minimap) Projection() Projection {
	lo, hi := m.primary.Band()
	return Compute(m.primary.Projection(), m.world.Size, m.primary.Snapshot(), lo, hi, m.cfg)
}

// ScreenToWorld maps a canvas-local point to world coordinates.
func (m *Minimap) ScreenToWorld(x, y float64) (float64, float64) {
	return m.primary.Projection().ScreenToWorld(x, y, m.Projection().Camera())
}

// Indicator returns the primary viewport outline in canvas coordinates, in the
// order top-left, top-right, bottom-right, bottom-left of the primary screen.
func (m *Minimap) Indicator() [4]iso.Point {
	tiles := m.primary.Projection()
	cam := m.Projection().Camera()
	var out [4]iso.Point
	for i, c := range m.primary.ViewportCorners() {
		out[i].X, out[i].Y = tiles.Project(c.X, c.Y, cam)
	}
	return out
}

// Stats reports how often the base layer and the overlay were redrawn.
func (m *Minimap) Stats() (rasters, overlays int) { return m.rasters, m.overlays }

// Render brings the canvas up to date and returns it. The base layer is only
// re-rasterised when the projection, the world revision or the layers change;
// the viewport overlay is recomposed after any camera change.
func (m *Minimap) Render() *image.RGBA {
	key := layerKey{proj: m.Projection(), revision: m.world.Revision(), layers: m.cfg.Layers}
	if !m.haveBase || key != m.key {
		m.drawBase(key.proj)
		m.key, m.haveBase = key, true
		m.overlayOK = false
	}
	if !m.overlayOK {
		m.drawOverlay()
		m.overlayOK = true
	}
	return m.canvas
}

func (m *Minimap) drawBase(p Projection) {
	m.rasters++
	draw.Draw(m.base, m.base.Bounds(), image.NewUniform(m.cfg.Background.RGBA()), image.Point{}, draw.Src)

	if m.cfg.Layers.Biomes {
		m.rasterBiomes(p)
		downsample(m.base, m.super)
	}

	m.paint.Dst = m.base
	tiles := m.primary.Projection()
	cam := p.Camera()
	if m.cfg.Layers.Territory {
		step := max(m.cfg.TerritoryStep, 1)
		for _, g := range m.world.Groups {
			var marks [][]iso.Point
			for k := 0; k < len(g.Territory); k += step {
				t := g.Territory[k]
				x, y := tiles.Project(float64(t.X), float64(t.Y), cam)
				marks = append(marks, square(x, y, m.cfg.MarkerSize/2))
			}
			m.paint.Fill(g.Color.WithAlpha(0.7).RGBA(), marks...)
		}
	}
	if m.cfg.Layers.Structures {
		m.markStructures(tiles, cam, m.world.Structures)
		for _, g := range m.world.Groups {
			m.markStructures(tiles, cam, g.Structures)
		}
	}
}

// rasterBiomes classifies every supersampled pixel by inverse projection.
// Pixels off the grid stay transparent.
func (m *Minimap) rasterBiomes(p Projection) {
	ss := float64(m.cfg.Supersample)
	cam := p.Camera()
	cam.X *= ss
	cam.Y *= ss
	cam.Scale *= ss
	tiles := m.primary.Projection()
	w := m.world

	palette := make([]color.RGBA, len(w.Biomes)+1)
	palette[0] = w.Default.Color.RGBA()
	for k, b := range w.Biomes {
		palette[k+1] = b.Color.RGBA()
	}

	b := m.super.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py++ {
		row := m.super.Pix[m.super.PixOffset(b.Min.X, py):]
		for px := b.Min.X; px < b.Max.X; px++ {
			c := color.RGBA{}
			i, j := iso.Tile(tiles.ScreenToWorld(float64(px)+0.5, float64(py)+0.5, cam))
			if w.InBounds(i, j) {
				c = palette[w.BiomeIndex(i, j)+1]
			}
			o := (px - b.Min.X) * 4
			row[o], row[o+1], row[o+2], row[o+3] = c.R, c.G, c.B, c.A
		}
	}
}

func (m *Minimap) markStructures(tiles iso.Projection, cam iso.Camera, list []world.Structure) {
	for _, s := range list {
		d := tiles.Footprint(float64(s.X), float64(s.Y), float64(s.W), float64(s.H), cam)
		c := s.Color.RGBA()
		// Too small to see as a diamond: draw a fixed-size dot instead.
		if d[1].X-d[3].X < m.cfg.MarkerSize {
			x, y := (d[1].X+d[3].X)/2, (d[0].Y+d[2].Y)/2
			m.paint.Fill(c, square(x, y, m.cfg.MarkerSize/2))
			continue
		}
		m.paint.Fill(c, d[:])
	}
}

func (m *Minimap) drawOverlay() {
	m.overlays++
	draw.Draw(m.canvas, m.canvas.Bounds(), m.base, image.Point{}, draw.Src)
	m.paint.Dst = m.canvas
	ind := m.Indicator()
	m.paint.Fill(m.cfg.ViewportFill.RGBA(), ind[:])
	m.paint.Stroke(m.cfg.ViewportStroke.RGBA(), 1, ind[:])

	b := m.canvas.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	frame := []iso.Point{{X: 0.5, Y: 0.5}, {X: w - 0.5, Y: 0.5}, {X: w - 0.5, Y: h - 0.5}, {X: 0.5, Y: h - 0.5}}
	m.paint.Stroke(m.cfg.Frame.RGBA(), 1, frame)
}

func square(x, y, r float64) []iso.Point {
	return []iso.Point{{X: x - r, Y: y - r}, {X: x + r, Y: y - r}, {X: x + r, Y: y + r}, {X: x - r, Y: y + r}}
}

// downsample composites src over dst, resampled to dst's size. BiLinear widens
// its kernel when shrinking, so every supersample contributes to the result.
func downsample(dst, src *image.RGBA) {
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
}
