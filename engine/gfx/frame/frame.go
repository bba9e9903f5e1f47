// Package frame builds the per-frame snapshot both map backends draw from: one
// consistent camera value, the visible tile range and the structures inside it.
package frame

import (
	"math"

	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

// Renderer is implemented by every map backend.
type Renderer interface {
	RenderFrame()
}

// Bounds is an inclusive tile range. It is empty when Max < Min on either axis.
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

func (b Bounds) Empty() bool { return b.MaxX < b.MinX || b.MaxY < b.MinY }

// Rect converts the range to a world.Rect, or a zero Rect when empty.
func (b Bounds) Rect() world.Rect {
	if b.Empty() {
		return world.Rect{}
	}
	return world.Rect{X: b.MinX, Y: b.MinY, W: b.MaxX - b.MinX + 1, H: b.MaxY - b.MinY + 1}
}

// Tiles is the number of tiles in the range.
func (b Bounds) Tiles() int {
	if b.Empty() {
		return 0
	}
	return (b.MaxX - b.MinX + 1) * (b.MaxY - b.MinY + 1)
}

// Item is one structure to draw this frame.
type Item struct {
	Variant   world.StructureVariant
	Group     string
	Structure world.Structure
}

type Frame struct {
	World      *world.World
	Proj       iso.Projection
	View       scene.View
	Bounds     Bounds
	Structures []Item
	Selection  world.Selection // nil when nothing is selected
}

// Build takes a snapshot of the camera, world and selection.
func Build(cam *scene.Camera, w *world.World, sel *scene.Selector) Frame {
	var f Frame
	f.Update(cam, w, sel)
	return f
}

// Update refreshes f in place, reusing its structure buffer.
func (f *Frame) Update(cam *scene.Camera, w *world.World, sel *scene.Selector) {
	f.World = w
	f.Proj = cam.Projection()
	f.View = cam.Snapshot()
	f.Bounds = VisibleBounds(f.Proj, f.View, w.Size)
	f.Structures = Cull(f.Structures[:0], w, f.Bounds)
	f.Selection = nil
	if sel != nil {
		if s, ok := sel.Current(); ok {
			f.Selection = s
		}
	}
}

// VisibleBounds returns the tiles that can touch the viewport: the axis-aligned
// hull of the four inverse-projected viewport corners, grown by one tile and
// clipped to an n×n grid.
func VisibleBounds(p iso.Projection, v scene.View, n int) Bounds {
	c := scene.Corners(p, v)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pt := range c {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	i0, j0 := iso.Tile(minX, minY)
	i1, j1 := iso.Tile(maxX, maxY)
	return Bounds{
		MinX: max(i0-1, 0),
		MinY: max(j0-1, 0),
		MaxX: min(i1+1, n-1),
		MaxY: min(j1+1, n-1),
	}
}

// Cull appends to dst every structure whose footprint intersects b: fixed
// structures first, then each group's placed structures in group order.
func Cull(dst []Item, w *world.World, b Bounds) []Item {
	if b.Empty() {
		return dst
	}
	r := b.Rect()
	for _, s := range w.Structures {
		if s.Rect.Intersects(r) {
			dst = append(dst, Item{Variant: world.Fixed, Structure: s})
		}
	}
	for _, g := range w.Groups {
		for _, s := range g.Structures {
			if s.Rect.Intersects(r) {
				dst = append(dst, Item{Variant: world.Placed, Group: g.Name, Structure: s})
			}
		}
	}
	return dst
}

// IDs lists the structure ids of the frame in draw order.
func (f *Frame) IDs() []string {
	ids := make([]string, len(f.Structures))
	for i, it := range f.Structures {
		ids[i] = it.Structure.ID
	}
	return ids
}

// Outline returns the tile rectangle to outline for the selection, if any.
func (f *Frame) Outline() (world.Rect, bool) {
	if f.Selection == nil {
		return world.Rect{}, false
	}
	return world.Footprint(f.Selection), true
}
