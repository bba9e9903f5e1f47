package renderer2d

import (
	"errors"
	"testing"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/gfx/gfxtest"
)

func newTest(t *testing.T, maxQuads int) (*Renderer2D, *gfxtest.Recorder) {
	t.Helper()
	rec := &gfxtest.Recorder{}
	rd, err := New(rec, "vs", "fs", maxQuads)
	if err != nil {
		t.Fatal(err)
	}
	return rd, rec
}

func TestNew_PipelineErrorIsReturned(t *testing.T) {
	boom := errors.New("shader compile error: 0:3 syntax error")
	_, err := New(&gfxtest.Recorder{PipelineErr: boom}, "vs", "fs", 0)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestBatch_OneDrawPerScene(t *testing.T) {
	rd, rec := newTest(t, 100)
	rd.SetUniform("uMode", int32(1))
	rd.BeginScene()
	rd.DrawRect(0, 0, 10, 20, colors.Red)
	rd.DrawQuad(5, 5, 2, 2, colors.Blue, 0)
	rd.EndScene()

	if len(rec.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(rec.Draws))
	}
	d := rec.Draws[0]
	if d.Quads() != 2 || len(d.Vertices) != 2*vertsPerQuad*vStride {
		t.Fatalf("quads %d, floats %d", d.Quads(), len(d.Vertices))
	}
	if d.Uniforms["uMode"] != int32(1) {
		t.Fatalf("uniforms %v", d.Uniforms)
	}
	if len(d.Samplers) != 1 {
		t.Fatalf("samplers %v, want the white texture only", d.Samplers)
	}
	// DrawRect's first vertex is its top-left corner.
	if v := d.Vertex(0, vStride); v[0] != 0 || v[1] != 0 || v[2] != 1 {
		t.Fatalf("vertex 0 = %v", v)
	}
	if v := d.Vertex(3, vStride); v[0] != 10 || v[1] != 20 {
		t.Fatalf("vertex 3 = %v", v)
	}
	s := rd.Stats()
	if s.DrawCalls != 1 || s.QuadCount != 2 || s.TotalVertexCount() != 8 || s.TotalIndexCount() != 12 {
		t.Fatalf("stats %+v", s)
	}
}

func TestBatch_FlushSplitsPasses(t *testing.T) {
	rd, rec := newTest(t, 100)
	rd.BeginScene()
	rd.SetUniform("uMode", int32(0))
	rd.DrawRect(0, 0, 1, 1, colors.White)
	rd.Flush()
	rd.SetUniform("uMode", int32(1))
	rd.DrawPolygon4([4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}, colors.Green)
	rd.EndScene()

	if len(rec.Draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(rec.Draws))
	}
	if rec.Draws[0].Uniforms["uMode"] != int32(0) || rec.Draws[1].Uniforms["uMode"] != int32(1) {
		t.Fatalf("modes %v / %v", rec.Draws[0].Uniforms, rec.Draws[1].Uniforms)
	}
	// Polygon corners keep their winding order.
	d := rec.Draws[1]
	if v := d.Vertex(2, vStride); v[0] != 1 || v[1] != 1 {
		t.Fatalf("polygon vertex 2 = %v", v)
	}
	if got := d.Indices; got[0] != 0 || got[1] != 1 || got[2] != 2 || got[5] != 3 {
		t.Fatalf("indices %v", got)
	}

	rd.SetUniform("uMode", nil)
	rd.BeginScene()
	rd.DrawRect(0, 0, 1, 1, colors.White)
	rd.EndScene()
	if _, ok := rec.Draws[2].Uniforms["uMode"]; ok {
		t.Fatal("removed uniform still sent")
	}
}

func TestBatch_FlushesWhenFull(t *testing.T) {
	rd, rec := newTest(t, 3)
	rd.BeginScene()
	for i := 0; i < 7; i++ {
		rd.DrawQuad(float32(i), 0, 1, 1, colors.White, 0)
	}
	rd.EndScene()
	if len(rec.Draws) != 3 {
		t.Fatalf("draws = %d, want 3", len(rec.Draws))
	}
	if q := rec.Draws[2].Quads(); q != 1 {
		t.Fatalf("last batch %d quads, want 1", q)
	}
	if s := rd.Stats(); s.QuadCount != 7 || s.DrawCalls != 3 {
		t.Fatalf("stats %+v", s)
	}
}

func TestBatch_TexturedQuadsBindSlots(t *testing.T) {
	rd, rec := newTest(t, 100)
	tex, _ := rec.CreateTexture(gfxtestTex(8, 8))
	sub := FromPixels(tex, 2, 4, 2, 2, 8, 8)
	if sub.U0 != 0.25 || sub.V0 != 0.5 || sub.U1 != 0.5 || sub.V1 != 0.75 {
		t.Fatalf("sub uv %+v", sub)
	}

	rd.BeginScene()
	rd.DrawSubTexQuad(10, 10, 2, 2, sub, colors.White, 0)
	rd.DrawRect(0, 0, 1, 1, colors.Black)
	rd.EndScene()

	d := rec.Draws[0]
	if d.Samplers["uTex[1]"] != tex.TextureID() {
		t.Fatalf("samplers %v", d.Samplers)
	}
	if v := d.Vertex(0, vStride); v[6] != 0.25 || v[7] != 0.5 || v[8] != 1 {
		t.Fatalf("textured vertex %v", v)
	}
	if v := d.Vertex(4, vStride); v[8] != 0 {
		t.Fatalf("solid quad tex index %v, want white slot 0", v[8])
	}
	if s := rd.Stats(); s.TextureCount != 2 {
		t.Fatalf("texture count %d", s.TextureCount)
	}
}

func gfxtestTex(w, h int) core.TextureDesc {
	return core.TextureDesc{Width: w, Height: h, Format: core.TextureRGBA8, Pixels: make([]byte, w*h*4)}
}
