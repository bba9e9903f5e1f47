package raster

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

func setup(t *testing.T) *Renderer {
	t.Helper()
	w, err := world.LoadFile("../../world/testdata/small.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cam, err := scene.NewCamera(w.Projection(), 0.1, 32, 1)
	if err != nil {
		t.Fatal(err)
	}
	cam.SetViewport(400, 300)
	cam.FocusOn(20, 20)
	return New(image.NewRGBA(image.Rect(0, 0, 400, 300)), cam, w, &scene.Selector{})
}

func near8(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -2 && d <= 2
}

func approx(a, b color.RGBA) bool {
	return near8(a.R, b.R) && near8(a.G, b.G) && near8(a.B, b.B) && near8(a.A, b.A)
}

// tileCentre is the pixel under the centre of tile (i, j).
func tileCentre(r *Renderer, i, j int) (int, int) {
	sx, sy := r.Camera.Projection().Project(float64(i), float64(j), r.Camera.Snapshot().Camera)
	return int(sx), int(sy)
}

func TestRenderFrame_GroundAndBackground(t *testing.T) {
	r := setup(t)
	r.RenderFrame()

	cases := []struct {
		name string
		i, j int
		want color.RGBA
	}{
		{"fertile", 12, 12, color.RGBA{34, 139, 34, 255}},
		{"plains", 6, 6, color.RGBA{154, 205, 50, 255}},
		{"default", 30, 38, color.RGBA{210, 180, 140, 255}},
	}
	for _, c := range cases {
		x, y := tileCentre(r, c.i, c.j)
		if got := r.At(x, y); !approx(got, c.want) {
			t.Errorf("%s tile %d,%d at (%d,%d) = %v, want %v", c.name, c.i, c.j, x, y, got, c.want)
		}
	}
	if got, want := r.At(5, 5), (color.RGBA{0x10, 0x14, 0x18, 255}); got != want {
		t.Fatalf("background = %v, want %v", got, want)
	}
	if got := r.Stats().Tiles; got != 40*40 {
		t.Fatalf("tiles painted %d, want 1600", got)
	}
}

func TestRenderFrame_StructuresInOrder(t *testing.T) {
	r := setup(t)
	r.RenderFrame()

	if got, want := r.Stats().Structures, []string{"castle", "tower", "red-hq"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("drawn %v, want %v", got, want)
	}
	checks := []struct {
		i, j int
		want color.RGBA
	}{
		{18, 21, color.RGBA{0x80, 0x80, 0x80, 255}}, // castle
		{19, 19, color.RGBA{0xaa, 0x22, 0x22, 255}}, // red-hq over the castle
		{2, 30, color.RGBA{255, 215, 0, 255}},       // tower
	}
	for _, c := range checks {
		x, y := tileCentre(r, c.i, c.j)
		if got := r.At(x, y); !approx(got, c.want) {
			t.Errorf("tile %d,%d = %v, want %v", c.i, c.j, got, c.want)
		}
	}
}

func TestRenderFrame_SelectionOutline(t *testing.T) {
	r := setup(t)
	cam := r.Camera.Snapshot().Camera
	p := r.Camera.Projection()
	// Midpoint of the tile's upper-right edge.
	ax, ay := p.Project(11.5, 11.5, cam)
	bx, by := p.Project(12.5, 11.5, cam)
	x, y := int((ax+bx)/2), int((ay+by)/2)
	yellow := color.RGBA{255, 255, 0, 255}

	r.RenderFrame()
	if r.Stats().Outlined || approx(r.At(x, y), yellow) {
		t.Fatal("outline drawn without a selection")
	}

	r.Selector.Set(world.TileSelection{X: 12, Y: 12})
	r.RenderFrame()
	if !r.Stats().Outlined {
		t.Fatal("selection not outlined")
	}
	if got := r.At(x, y); !approx(got, yellow) {
		t.Fatalf("edge pixel (%d,%d) = %v, want %v", x, y, got, yellow)
	}
	cx, cy := tileCentre(r, 12, 12)
	if got := r.At(cx, cy); approx(got, yellow) {
		t.Fatal("outline filled the tile")
	}
}

func TestRenderFrame_ZoomedInPastSurface(t *testing.T) {
	r := setup(t)
	r.Camera.FocusOn(19.5, 19.5, scene.WithScale(32))
	r.Selector.Set(world.StructureSelection{Variant: world.Fixed, Structure: r.World.Structures[0]})
	r.RenderFrame()

	s := r.Stats()
	if got, want := s.Structures, []string{"castle", "red-hq"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("drawn %v, want %v", got, want)
	}
	if got, want := r.At(200, 150), (color.RGBA{0xaa, 0x22, 0x22, 255}); !approx(got, want) {
		t.Fatalf("centre pixel %v, want %v", got, want)
	}
}

func TestRenderFrame_OffMapIsBackgroundOnly(t *testing.T) {
	r := setup(t)
	r.Camera.FocusOn(-500, 900)
	r.RenderFrame()
	s := r.Stats()
	if s.Tiles != 0 || len(s.Structures) != 0 {
		t.Fatalf("stats %+v for an off-map view", s)
	}
	bg := color.RGBA{0x10, 0x14, 0x18, 255}
	for _, pt := range []image.Point{{0, 0}, {200, 150}, {399, 299}} {
		if got := r.At(pt.X, pt.Y); got != bg {
			t.Fatalf("pixel %v = %v", pt, got)
		}
	}
}

func TestPainter_ClipsShapesOutsideSurface(t *testing.T) {
	p := Painter{Dst: image.NewRGBA(image.Rect(0, 0, 16, 16))}
	red := color.RGBA{255, 0, 0, 255}
	p.Fill(red, []iso.Point{{X: -100, Y: -100}, {X: 200, Y: -100}, {X: 200, Y: 200}, {X: -100, Y: 200}})
	if got := p.Dst.RGBAAt(8, 8); !approx(got, red) {
		t.Fatalf("covering quad left %v", got)
	}
	p.Fill(color.RGBA{0, 0, 255, 255}, []iso.Point{{X: 50, Y: 50}, {X: 60, Y: 50}, {X: 60, Y: 60}})
	if got := p.Dst.RGBAAt(15, 15); !approx(got, red) {
		t.Fatalf("off-surface triangle painted %v", got)
	}
}
