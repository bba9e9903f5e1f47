package main

import (
	"image"
	"log"

	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/gfx/renderer2d"
	"github.com/hubastard/isomap/engine/minimap"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/world"
)

// MinimapLayer keeps the overview in the bottom-right corner of the window.
type MinimapLayer struct {
	cfg     minimap.Config
	margin  int
	world   *world.World
	camera  *scene.Camera
	sprites *renderer2d.Renderer2D

	mm     *minimap.Minimap
	tex    core.Texture
	hidden bool
	seen   [2]int // minimap redraw counters at the last upload
}

func (l *MinimapLayer) OnAttach(e *core.Engine) {
	var err error
	if l.mm, err = minimap.New(l.cfg, l.camera, l.world); err != nil {
		log.Fatal(err)
	}
	l.tex, err = e.Renderer.CreateTexture(core.TextureDesc{
		Width:     l.cfg.Width,
		Height:    l.cfg.Height,
		Format:    core.TextureRGBA8,
		MinFilter: "linear",
		MagFilter: "linear",
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
	if err != nil {
		log.Fatal(err)
	}
	w, h := e.Window.FramebufferSize()
	l.place(w, h)
}

func (l *MinimapLayer) OnDetach(e *core.Engine) {}

func (l *MinimapLayer) Close() {
	if l.mm != nil {
		l.mm.Close()
	}
}

func (l *MinimapLayer) OnUpdate(e *core.Engine, dt float64) {}

func (l *MinimapLayer) OnRender(e *core.Engine, alpha float64) {
	if l.hidden {
		return
	}
	img := l.mm.Render()
	rasters, overlays := l.mm.Stats()
	if seen := [2]int{rasters, overlays}; seen != l.seen {
		if err := e.Renderer.UpdateTexture(l.tex, img.Pix); err != nil {
			log.Printf("minimap upload: %v", err)
			return
		}
		l.seen = seen
	}
	blit(l.sprites, l.tex, l.mm.Rect(), l.camera.Snapshot())
}

func (l *MinimapLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		l.place(v.W, v.H)
		return false
	case core.EventKey:
		if !v.Down {
			return false
		}
		layers := l.mm.Config().Layers
		switch v.Key {
		case core.KeyM:
			l.hidden = !l.hidden
			return true
		case core.KeyB:
			layers.Biomes = !layers.Biomes
		case core.KeyT:
			layers.Territory = !layers.Territory
		case core.KeyG:
			layers.Structures = !layers.Structures
		default:
			return false
		}
		l.mm.SetLayers(layers)
		return true
	}
	if l.hidden {
		return false
	}
	return l.mm.HandleEvent(ev)
}

func (l *MinimapLayer) place(w, h int) {
	l.mm.SetOrigin(image.Pt(w-l.cfg.Width-l.margin, h-l.cfg.Height-l.margin))
}
