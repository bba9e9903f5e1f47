package main

import (
	"testing"

	"github.com/hubastard/isomap/engine/gfx/gfxtest"
)

func TestMapLayer_ResizeReleasesOldTexture(t *testing.T) {
	rec := &gfxtest.Recorder{}
	l := &MapLayer{}
	sizes := [][2]int{{800, 600}, {1024, 768}, {640, 480}}
	for _, s := range sizes {
		if err := l.resizeTexture(rec, s[0], s[1]); err != nil {
			t.Fatal(err)
		}
	}
	if len(rec.Textures) != 1 {
		t.Fatalf("live textures = %d after %d resizes, want 1", len(rec.Textures), len(sizes))
	}
	live := rec.Textures[0]
	if l.tex != live {
		t.Fatalf("layer holds texture %v, live one is %v", l.tex, live)
	}
	if live.Desc.Width != 640 || live.Desc.Height != 480 {
		t.Fatalf("live texture %dx%d, want 640x480", live.Desc.Width, live.Desc.Height)
	}
}
