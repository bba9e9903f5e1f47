package scene

import (
	"math"
	"testing"

	"github.com/hubastard/isomap/engine/iso"
)

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b)) }

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	cam, err := NewCamera(iso.NewProjection(10, 10), 0.1, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	cam.SetViewport(800, 600)
	return cam
}

func TestNewCamera_RejectsBadBand(t *testing.T) {
	p := iso.NewProjection(10, 10)
	if _, err := NewCamera(p, 0, 4, 1); err == nil {
		t.Fatal("zero min scale accepted")
	}
	if _, err := NewCamera(p, 2, 1, 1); err == nil {
		t.Fatal("inverted band accepted")
	}
	cam, err := NewCamera(p, 0.5, 4, 100)
	if err != nil {
		t.Fatal(err)
	}
	if s := cam.Snapshot().Scale; s != 4 {
		t.Fatalf("initial scale %v not clamped to 4", s)
	}
}

func TestCamera_PanAndScale(t *testing.T) {
	cam := newTestCamera(t)
	cam.PanTo(100, 50)
	cam.PanBy(-30, 20)
	v := cam.Snapshot()
	if v.X != 70 || v.Y != 70 || v.Scale != 2 {
		t.Fatalf("snapshot %+v", v)
	}

	cam.SetScale(100)
	if s := cam.Snapshot().Scale; s != 8 {
		t.Fatalf("scale %v, want clamp to 8", s)
	}
	cam.SetScale(-1)
	if s := cam.Snapshot().Scale; s != 0.1 {
		t.Fatalf("scale %v, want clamp to 0.1", s)
	}
	if v := cam.Snapshot(); v.X != 70 || v.Y != 70 {
		t.Fatalf("SetScale moved the pan: %+v", v)
	}
}

func TestCamera_ZoomToIsAtomic(t *testing.T) {
	cam := newTestCamera(t)
	var seen []View
	unsub := cam.Subscribe(func(v View) { seen = append(seen, v) })

	cam.ZoomTo(iso.Camera{X: 5, Y: 6, Scale: 3})
	if len(seen) != 1 {
		t.Fatalf("ZoomTo notified %d times, want 1", len(seen))
	}
	if got := seen[0].Camera; got != (iso.Camera{X: 5, Y: 6, Scale: 3}) {
		t.Fatalf("observer saw %+v", got)
	}

	unsub()
	cam.PanBy(1, 1)
	if len(seen) != 1 {
		t.Fatal("observer still called after unsubscribe")
	}
}

func TestCamera_ZoomAtKeepsFocalWorldPoint(t *testing.T) {
	cam := newTestCamera(t)
	cam.PanTo(-1234, 87)
	fx, fy := 310.0, 455.0
	wx, wy := cam.ScreenToWorld(fx, fy)

	cam.ZoomAt(fx, fy, 5.5)
	gx, gy := cam.ScreenToWorld(fx, fy)
	if !near(gx, wx) || !near(gy, wy) {
		t.Fatalf("focal world moved from (%v,%v) to (%v,%v)", wx, wy, gx, gy)
	}

	// Zooming past the band clamps but still anchors.
	cam.ZoomAt(fx, fy, 1000)
	if s := cam.Snapshot().Scale; s != 8 {
		t.Fatalf("scale %v", s)
	}
	gx, gy = cam.ScreenToWorld(fx, fy)
	if !near(gx, wx) || !near(gy, wy) {
		t.Fatalf("clamped zoom lost anchor: (%v,%v)", gx, gy)
	}
}

func TestCamera_WheelZoomAtCentreScenario(t *testing.T) {
	cam := newTestCamera(t)
	cam.FocusOn(600, 600)
	cx, cy := cam.CenterWorld()

	cam.ZoomBy(400, 300, 1.1)
	if s := cam.Snapshot().Scale; !near(s, 2.2) {
		t.Fatalf("scale %v, want 2.2", s)
	}
	gx, gy := cam.CenterWorld()
	if !near(gx, cx) || !near(gy, cy) {
		t.Fatalf("centre world moved from (%v,%v) to (%v,%v)", cx, cy, gx, gy)
	}
}

func TestCamera_FocusOn(t *testing.T) {
	cam := newTestCamera(t)
	cam.FocusOn(42, 17)
	if x, y := cam.CenterWorld(); !near(x, 42) || !near(y, 17) {
		t.Fatalf("centre (%v,%v)", x, y)
	}
	cam.FocusOn(10, 900, WithScale(0.5))
	v := cam.Snapshot()
	if v.Scale != 0.5 {
		t.Fatalf("scale %v", v.Scale)
	}
	if x, y := cam.CenterWorld(); !near(x, 10) || !near(y, 900) {
		t.Fatalf("centre (%v,%v)", x, y)
	}
	cam.FocusOn(0, 0, WithScale(99))
	if s := cam.Snapshot().Scale; s != 8 {
		t.Fatalf("override scale not clamped: %v", s)
	}
}

func TestCamera_ViewportCornersMatchInverseProjection(t *testing.T) {
	cam := newTestCamera(t)
	cam.ZoomTo(iso.Camera{X: 321, Y: -50, Scale: 1.25})
	corners := cam.ViewportCorners()
	screen := [4]iso.Point{{X: 0, Y: 0}, {X: 800, Y: 0}, {X: 800, Y: 600}, {X: 0, Y: 600}}
	for i, s := range screen {
		wx, wy := cam.ScreenToWorld(s.X, s.Y)
		if !near(corners[i].X, wx) || !near(corners[i].Y, wy) {
			t.Fatalf("corner %d = %+v, want (%v,%v)", i, corners[i], wx, wy)
		}
	}
}

func TestCamera_NoNotifyWithoutChange(t *testing.T) {
	cam := newTestCamera(t)
	n := 0
	cam.Subscribe(func(View) { n++ })
	cam.PanBy(0, 0)
	cam.SetScale(2)
	if n != 0 {
		t.Fatalf("%d notifications for no-op changes", n)
	}
}
