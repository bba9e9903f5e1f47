package iso

import "testing"

func TestMatrices_AgreeWithScalarTransforms(t *testing.T) {
	p := NewProjection(16, 8)
	cam := Camera{X: -320.5, Y: 77, Scale: 1.75}
	fwd := p.WorldToScreenMatrix(cam)
	inv := p.ScreenToWorldMatrix(cam)

	for _, w := range []Point{{0, 0}, {12.5, -3}, {1199, 1199}, {-40, 600}} {
		sx, sy := p.Project(w.X, w.Y, cam)
		mx, my := fwd.Apply(w.X, w.Y)
		if !near(sx, mx, eps) || !near(sy, my, eps) {
			t.Fatalf("forward %+v: scalar (%v,%v) matrix (%v,%v)", w, sx, sy, mx, my)
		}
		wx, wy := inv.Apply(sx, sy)
		if !near(wx, w.X, eps) || !near(wy, w.Y, eps) {
			t.Fatalf("inverse %+v: got (%v,%v)", w, wx, wy)
		}
	}
}

func TestMul_ComposesRightToLeft(t *testing.T) {
	p := NewProjection(10, 10)
	cam := Camera{X: 5, Y: 9, Scale: 3}
	roundTrip := Mul(p.ScreenToWorldMatrix(cam), p.WorldToScreenMatrix(cam))
	id := Identity()
	for i := range roundTrip {
		if !near(roundTrip[i], id[i], eps) {
			t.Fatalf("inverse·forward = %v, want identity", roundTrip)
		}
	}

	clip := Mul(ScreenToClip(800, 600), p.WorldToScreenMatrix(cam))
	sx, sy := p.Project(2, 7, cam)
	cx, cy := clip.Apply(2, 7)
	if !near(cx, 2*sx/800-1, eps) || !near(cy, 1-2*sy/600, eps) {
		t.Fatalf("clip (%v,%v) for screen (%v,%v)", cx, cy, sx, sy)
	}
}

func TestScreenToClip_Corners(t *testing.T) {
	m := ScreenToClip(200, 100)
	if x, y := m.Apply(0, 0); x != -1 || y != 1 {
		t.Fatalf("top-left -> (%v,%v)", x, y)
	}
	if x, y := m.Apply(200, 100); x != 1 || y != -1 {
		t.Fatalf("bottom-right -> (%v,%v)", x, y)
	}
}
