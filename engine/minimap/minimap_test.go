package minimap

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-6*math.Max(1, math.Abs(b)) }

var origin = image.Pt(500, 400)

func setup(t *testing.T) (*Minimap, *scene.Camera, *world.World) {
	t.Helper()
	return setupWith(t, nil)
}

// setupWith is setup with a hook to adjust the minimap config before New.
func setupWith(t *testing.T, adjust func(*Config)) (*Minimap, *scene.Camera, *world.World) {
	t.Helper()
	w, err := world.LoadFile("../world/testdata/small.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cam, err := scene.NewCamera(w.Projection(), 0.25, 8, 1)
	if err != nil {
		t.Fatal(err)
	}
	cam.SetViewport(800, 600)
	cam.FocusOn(20, 20)

	cfg := DefaultConfig
	cfg.ViewportFill = colors.Color{}
	cfg.Gesture = scene.GestureConfig{DragDistance: 2, ClickDistance: 4}
	if adjust != nil {
		adjust(&cfg)
	}
	m, err := New(cfg, cam, w)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	m.SetOrigin(origin)
	clk := time.Unix(0, 0)
	m.Tracker().Now = func() time.Time { return clk }
	return m, cam, w
}

// window converts a canvas point to window coordinates.
func window(x, y float64) (float64, float64) {
	return x + float64(origin.X), y + float64(origin.Y)
}

func canvasOf(m *Minimap, wx, wy float64) (float64, float64) {
	return m.primary.Projection().Project(wx, wy, m.Projection().Camera())
}

func TestEasings_FixEndpoints(t *testing.T) {
	for name, e := range map[string]Easing{
		"linear": Linear, "outquad": EaseOutQuad, "inoutcubic": EaseInOutCubic,
		"log": Log(9), "pow": Pow(3),
	} {
		if !near(e(0), 0) || !near(e(1), 1) {
			t.Errorf("%s: e(0)=%v e(1)=%v", name, e(0), e(1))
		}
		prev := e(0)
		for k := 1; k <= 10; k++ {
			v := e(float64(k) / 10)
			if v < prev {
				t.Errorf("%s not monotonic at %v", name, float64(k)/10)
			}
			prev = v
		}
	}
}

func TestParseEasing(t *testing.T) {
	e, err := ParseEasing("Ease-Out-Quad", 0)
	if err != nil || !near(e(0.5), 0.75) {
		t.Fatalf("ease-out-quad: %v %v", err, e)
	}
	if e, _ := ParseEasing("pow", 3); !near(e(0.5), 0.125) {
		t.Fatalf("pow 3 at 0.5 = %v", e(0.5))
	}
	if _, err := ParseEasing("bounce", 0); err == nil {
		t.Fatal("unknown easing accepted")
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cam, _ := scene.NewCamera(iso.NewProjection(10, 10), 1, 2, 1)
	cfg := DefaultConfig
	cfg.MaxWorldFraction = 0
	if _, err := New(cfg, cam, &world.World{Size: 4}); !errors.Is(err, ErrConfig) {
		t.Fatalf("err = %v", err)
	}
}

func TestCompute_ScaleFollowsPrimaryBand(t *testing.T) {
	tiles := iso.NewProjection(10, 10)
	cfg := DefaultConfig
	view := func(s float64) scene.View {
		return scene.View{Camera: iso.Camera{Scale: s}, Width: 800, Height: 600}
	}

	lo := Compute(tiles, 40, view(0.25), 0.25, 8, cfg)
	if !near(lo.Base, 0.45) || !near(lo.Max, 4.5) {
		t.Fatalf("base %v max %v", lo.Base, lo.Max)
	}
	if !near(lo.Dynamic, lo.Base) {
		t.Fatalf("at min zoom dynamic = %v, want base", lo.Dynamic)
	}
	if hi := Compute(tiles, 40, view(8), 0.25, 8, cfg); !near(hi.Dynamic, hi.Max) {
		t.Fatalf("at max zoom dynamic = %v, want %v", hi.Dynamic, hi.Max)
	}
	if out := Compute(tiles, 40, view(50), 0.25, 8, cfg); !near(out.Dynamic, out.Max) {
		t.Fatalf("scale above band not clamped: %v", out.Dynamic)
	}

	mid := Compute(tiles, 40, view(4.125), 0.25, 8, cfg)
	if want := 0.45 + 0.75*4.05; !near(mid.Dynamic, want) {
		t.Fatalf("mid dynamic %v, want %v", mid.Dynamic, want)
	}
	if a, b := Compute(tiles, 40, view(3), 0.25, 8, cfg), Compute(tiles, 40, view(3), 0.25, 8, cfg); a != b {
		t.Fatal("projection not deterministic")
	}
}

func TestMinimap_CentredOnPrimary(t *testing.T) {
	m, cam, _ := setup(t)
	for _, f := range [][2]float64{{20, 20}, {3.5, 31}, {-10, 60}} {
		cam.FocusOn(f[0], f[1])
		wx, wy := m.ScreenToWorld(120, 90)
		cx, cy := cam.CenterWorld()
		if !near(wx, cx) || !near(wy, cy) {
			t.Fatalf("canvas centre shows (%v,%v), primary centre (%v,%v)", wx, wy, cx, cy)
		}
	}
}

func TestMinimap_IndicatorMatchesPrimaryViewport(t *testing.T) {
	m, cam, _ := setup(t)
	cam.ZoomBy(100, 100, 3)
	ind := m.Indicator()
	for i, c := range cam.ViewportCorners() {
		x, y := canvasOf(m, c.X, c.Y)
		if !near(ind[i].X, x) || !near(ind[i].Y, y) {
			t.Fatalf("corner %d at %+v, want (%v,%v)", i, ind[i], x, y)
		}
	}
	// The indicator is centred on the canvas because the canvas is centred on the view.
	mx := (ind[0].X + ind[1].X + ind[2].X + ind[3].X) / 4
	my := (ind[0].Y + ind[1].Y + ind[2].Y + ind[3].Y) / 4
	if !near(mx, 120) || !near(my, 90) {
		t.Fatalf("indicator centre (%v,%v)", mx, my)
	}
}

func TestMinimap_ClickFocusesTile(t *testing.T) {
	m, cam, _ := setup(t)
	x, y := window(canvasOf(m, 15.2, 16.9))
	if !m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: true, X: x, Y: y}) {
		t.Fatal("press on minimap not consumed")
	}
	if !m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: false, X: x, Y: y}) {
		t.Fatal("release not consumed")
	}
	if cx, cy := cam.CenterWorld(); !near(cx, 15) || !near(cy, 17) {
		t.Fatalf("primary centre (%v,%v), want tile 15,17", cx, cy)
	}
}

func TestMinimap_ClickOffGridIgnored(t *testing.T) {
	m, cam, _ := setup(t)
	cam.SetScale(0.25)
	cam.FocusOn(20, 20)
	before := cam.Snapshot()
	x, y := window(3, 3)
	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: true, X: x, Y: y})
	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: false, X: x, Y: y})
	if cam.Snapshot() != before {
		t.Fatal("off-grid click moved the camera")
	}
}

func TestMinimap_DragKeepsGrabbedPointUnderPointer(t *testing.T) {
	m, cam, _ := setup(t)
	ax, ay := 100.0, 80.0
	gx, gy := m.ScreenToWorld(ax, ay)

	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: true, X: ax + 500, Y: ay + 400})
	bx, by := 130.0, 60.0
	for _, p := range [][2]float64{{110, 75}, {120, 66}, {bx, by}} {
		x, y := window(p[0], p[1])
		if !m.HandleEvent(core.EventMouseMove{X: x, Y: y}) {
			t.Fatal("captured move not consumed")
		}
	}
	wx, wy := m.ScreenToWorld(bx, by)
	if !near(wx, gx) || !near(wy, gy) {
		t.Fatalf("grabbed (%v,%v), under pointer now (%v,%v)", gx, gy, wx, wy)
	}

	after := cam.Snapshot()
	x, y := window(bx, by)
	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: false, X: x, Y: y})
	if cam.Snapshot() != after {
		t.Fatal("release after drag acted as a click")
	}
}

func TestMinimap_DragFollowFactorScalesPan(t *testing.T) {
	m, _, _ := setupWith(t, func(c *Config) { c.FollowFactor = 0.5 })
	ax, ay := 100.0, 80.0
	bx, by := 130.0, 60.0
	gx, gy := m.ScreenToWorld(ax, ay)
	ux, uy := m.ScreenToWorld(bx, by)

	x, y := window(ax, ay)
	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: true, X: x, Y: y})
	x, y = window(bx, by)
	m.HandleEvent(core.EventMouseMove{X: x, Y: y})

	// Half follow: the point under the pointer ends halfway between the
	// grabbed point and the one that was under the pointer before the move.
	wx, wy := m.ScreenToWorld(bx, by)
	if wantX, wantY := (gx+ux)/2, (gy+uy)/2; !near(wx, wantX) || !near(wy, wantY) {
		t.Fatalf("under pointer (%v,%v), want (%v,%v)", wx, wy, wantX, wantY)
	}
}

func TestMinimap_DragCapturesOutsideRect(t *testing.T) {
	m, cam, _ := setup(t)
	x, y := window(120, 90)
	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: true, X: x, Y: y})
	before := cam.Snapshot()
	if !m.HandleEvent(core.EventMouseMove{X: x - 300, Y: y}) {
		t.Fatal("move outside the rect lost capture")
	}
	if cam.Snapshot() == before {
		t.Fatal("drag outside the rect did not pan")
	}
	m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: false, X: x - 300, Y: y})
	if m.HandleEvent(core.EventMouseMove{X: x - 300, Y: y}) {
		t.Fatal("move consumed after release")
	}
}

func TestMinimap_IgnoresEventsOutside(t *testing.T) {
	m, cam, _ := setup(t)
	before := cam.Snapshot()
	if m.HandleEvent(core.EventMouseButton{Button: core.MouseLeft, Down: true, X: 10, Y: 10}) {
		t.Fatal("press outside consumed")
	}
	if m.HandleEvent(core.EventMouseMove{X: 20, Y: 20}) {
		t.Fatal("move outside consumed")
	}
	if x, y := window(120, 90); m.HandleEvent(core.EventMouseMove{X: x, Y: y}) {
		t.Fatal("hover move over the canvas consumed")
	}
	if m.HandleEvent(core.EventScroll{Yoff: 1, X: 20, Y: 20}) {
		t.Fatal("scroll outside consumed")
	}
	if cam.Snapshot() != before {
		t.Fatal("camera changed")
	}
}

func TestMinimap_WheelZoomsPrimaryAtCentre(t *testing.T) {
	m, cam, _ := setup(t)
	cx, cy := cam.CenterWorld()
	x, y := window(10, 170)
	if !m.HandleEvent(core.EventScroll{Yoff: 1, X: x, Y: y}) {
		t.Fatal("scroll not consumed")
	}
	if s := cam.Snapshot().Scale; !near(s, 1.1) {
		t.Fatalf("scale %v", s)
	}
	if gx, gy := cam.CenterWorld(); !near(gx, cx) || !near(gy, cy) {
		t.Fatalf("centre moved to (%v,%v)", gx, gy)
	}
}

func TestMinimap_RenderCachesBaseLayer(t *testing.T) {
	m, cam, w := setup(t)
	m.Render()
	m.Render()
	if r, o := m.Stats(); r != 1 || o != 1 {
		t.Fatalf("rasters %d overlays %d after idle frame", r, o)
	}

	// A bigger viewport with the same centre leaves the minimap transform alone.
	cam.SetViewport(1000, 700)
	cam.PanBy(100, 50)
	m.Render()
	if r, o := m.Stats(); r != 1 || o != 2 {
		t.Fatalf("rasters %d overlays %d after overlay-only change", r, o)
	}

	if err := w.Place("red", world.Structure{ID: "farm", Rect: world.Rect{X: 1, Y: 1, W: 1, H: 1}}); err != nil {
		t.Fatal(err)
	}
	m.Render()
	if r, _ := m.Stats(); r != 2 {
		t.Fatalf("rasters %d after world edit", r)
	}

	cam.ZoomBy(500, 350, 2)
	m.Render()
	m.SetLayers(Layers{Biomes: true})
	m.Render()
	if r, _ := m.Stats(); r != 4 {
		t.Fatalf("rasters %d after zoom and layer change", r)
	}
}

func TestMinimap_RenderPixels(t *testing.T) {
	m, cam, _ := setup(t)
	img := m.Render()
	if b := img.Bounds(); b.Dx() != 240 || b.Dy() != 180 {
		t.Fatalf("canvas %v", b)
	}

	x, y := canvasOf(m, 25, 15)
	if got, want := img.RGBAAt(int(x), int(y)), (color.RGBA{154, 205, 50, 255}); !approx(got, want) {
		t.Fatalf("plains pixel = %v, want %v", got, want)
	}

	cam.SetScale(0.25)
	cam.FocusOn(20, 20)
	img = m.Render()
	if got, want := img.RGBAAt(3, 3), colors.Black.WithAlpha(0.6).RGBA(); !approx(got, want) {
		t.Fatalf("off-grid pixel = %v, want background %v", got, want)
	}
}

func TestMinimap_SupersampledBiomeEdgesBlend(t *testing.T) {
	m, cam, _ := setupWith(t, func(c *Config) {
		c.Supersample = 4
		c.Layers = Layers{Biomes: true}
	})
	cam.FocusOn(12, 15)
	img := m.Render()

	// Fertile starts at tile x 10, plains covers the tiles before it.
	fertile := color.RGBA{34, 139, 34, 255}
	plains := color.RGBA{154, 205, 50, 255}
	if x, y := canvasOf(m, 11, 15); !approx(img.RGBAAt(int(x), int(y)), fertile) {
		t.Fatalf("fertile pixel = %v", img.RGBAAt(int(x), int(y)))
	}
	if x, y := canvasOf(m, 8, 15); !approx(img.RGBAAt(int(x), int(y)), plains) {
		t.Fatalf("plains pixel = %v", img.RGBAAt(int(x), int(y)))
	}

	sx, sy := canvasOf(m, 9.5, 15)
	row := int(sy)
	blended := false
	for px := int(sx) - 8; px <= int(sx)+8; px++ {
		c := img.RGBAAt(px, row)
		if c.R > fertile.R+10 && c.R < plains.R-10 && c.G > fertile.G+10 && c.G < plains.G-10 {
			blended = true
			break
		}
	}
	if !blended {
		t.Fatalf("no blended pixel on the fertile/plains edge in row %d around x %v", row, sx)
	}
}

func TestDownsample_AveragesSubpixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x < 2 {
				c = color.RGBA{255, 255, 255, 255}
			}
			src.SetRGBA(x, y, c)
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, 1, 1))
	downsample(dst, src)
	if got := dst.RGBAAt(0, 0); got.R < 64 || got.R > 192 || got.A != 255 {
		t.Fatalf("half white, half black 4x4 block -> %v, want mid grey", got)
	}
}

func approx(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return int(x)-int(y) <= 2 && int(y)-int(x) <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}
