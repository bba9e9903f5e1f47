package main

import (
	"fmt"
	"image"
	"log"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/gfx/isogpu"
	"github.com/hubastard/isomap/engine/gfx/raster"
	"github.com/hubastard/isomap/engine/gfx/renderer2d"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/settings"
	"github.com/hubastard/isomap/engine/world"
)

// MapLayer draws the primary view with the GPU backend when its program builds,
// otherwise with the raster backend blitted through a texture.
type MapLayer struct {
	settings settings.Settings
	world    *world.World
	camera   *scene.Camera
	selector *scene.Selector
	sprites  *renderer2d.Renderer2D
	ctrl     *scene.PointerController

	backend string
	gpu     *isogpu.Renderer
	raster  *raster.Renderer
	tex     core.Texture

	placed []string
	serial int
}

func (l *MapLayer) OnAttach(e *core.Engine) {
	w, h := e.Window.FramebufferSize()
	l.camera.SetViewport(float64(w), float64(h))
	l.camera.FocusOn(float64(l.world.Size-1)/2, float64(l.world.Size-1)/2)
	l.ctrl = scene.NewPointerController(l.camera, l.world, l.selector, l.settings.ControllerConfig())

	l.backend = l.settings.Render.Backend
	if l.backend == settings.BackendGPU {
		g, err := isogpu.New(e.Renderer, l.camera, l.world, l.selector)
		if err != nil {
			log.Printf("GPU map renderer unavailable, falling back to raster: %v", err)
			l.backend = settings.BackendRaster
		} else {
			g.Options = l.settings.GPUOptions()
			l.gpu = g
		}
	}
	if l.backend == settings.BackendRaster {
		l.raster = raster.New(image.NewRGBA(image.Rect(0, 0, w, h)), l.camera, l.world, l.selector)
		l.raster.Options = l.settings.RasterOptions()
		if err := l.resizeTexture(e.Renderer, w, h); err != nil {
			log.Fatal(err)
		}
	}
	log.Printf("map backend: %s", l.backend)
}

func (l *MapLayer) OnDetach(e *core.Engine) {}

func (l *MapLayer) OnUpdate(e *core.Engine, dt float64) {
	l.ctrl.Update(e.Input, dt)
}

func (l *MapLayer) OnRender(e *core.Engine, alpha float64) {
	if l.gpu != nil {
		l.gpu.RenderFrame()
		return
	}
	l.raster.RenderFrame()
	img := l.raster.Target()
	if err := e.Renderer.UpdateTexture(l.tex, img.Pix); err != nil {
		log.Printf("map upload: %v", err)
		return
	}
	blit(l.sprites, l.tex, image.Rectangle{Max: img.Bounds().Size()}, l.camera.Snapshot())
}

func (l *MapLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		if v.W < 1 || v.H < 1 {
			return false
		}
		// Keep the world point at the centre of the window where it was.
		cx, cy := l.camera.CenterWorld()
		l.camera.SetViewport(float64(v.W), float64(v.H))
		l.camera.FocusOn(cx, cy)
		if l.raster != nil {
			l.raster.SetTarget(image.NewRGBA(image.Rect(0, 0, v.W, v.H)))
			if err := l.resizeTexture(e.Renderer, v.W, v.H); err != nil {
				log.Printf("map resize: %v", err)
			}
		}
		return false
	case core.EventKey:
		if v.Down && v.Key == core.KeyP {
			l.place()
			return true
		}
		if v.Down && v.Key == core.KeyDelete {
			l.removeLast()
			return true
		}
	}
	return l.ctrl.HandleEvent(ev)
}

// Backend names the renderer in use.
func (l *MapLayer) Backend() string { return l.backend }

// DrawStats summarises the last frame for the HUD.
func (l *MapLayer) DrawStats() string {
	if l.gpu != nil {
		s := l.gpu.Stats()
		return fmt.Sprintf("draw calls %d, quads %d, structures %d", s.DrawCalls, s.QuadCount, len(l.gpu.Submitted()))
	}
	s := l.raster.Stats()
	return fmt.Sprintf("tiles %d, structures %d", s.Tiles, len(s.Structures))
}

func (l *MapLayer) resizeTexture(r core.Renderer, w, h int) error {
	tex, err := r.CreateTexture(core.TextureDesc{
		Width:     w,
		Height:    h,
		Format:    core.TextureRGBA8,
		MinFilter: "nearest",
		MagFilter: "nearest",
		WrapU:     "clamp",
		WrapV:     "clamp",
	})
	if err != nil {
		return fmt.Errorf("map texture %dx%d: %w", w, h, err)
	}
	if l.tex != nil {
		r.DeleteTexture(l.tex)
	}
	l.tex = tex
	return nil
}

// place drops a one-tile structure for the first group on the hovered tile.
func (l *MapLayer) place() {
	i, j, ok := l.ctrl.Hover()
	if !ok || len(l.world.Groups) == 0 {
		return
	}
	if _, taken := l.world.StructureAt(i, j); taken {
		return
	}
	g := l.world.Groups[0]
	l.serial++
	s := world.Structure{
		ID:   fmt.Sprintf("%s-%d", g.Name, l.serial),
		Name: "Outpost",
		Rect: world.Rect{X: i, Y: j, W: 1, H: 1},
	}
	if err := l.world.Place(g.Name, s); err != nil {
		log.Printf("place: %v", err)
		return
	}
	l.placed = append(l.placed, s.ID)
}

func (l *MapLayer) removeLast() {
	if len(l.placed) == 0 || len(l.world.Groups) == 0 {
		return
	}
	id := l.placed[len(l.placed)-1]
	l.placed = l.placed[:len(l.placed)-1]
	if sel, ok := l.selector.Current(); ok {
		if s, ok := sel.(world.StructureSelection); ok && s.Structure.ID == id {
			l.selector.Clear()
		}
	}
	l.world.Remove(l.world.Groups[0].Name, id)
}

// blit draws tex over the window rectangle r in screen pixels.
func blit(rd *renderer2d.Renderer2D, tex core.Texture, r image.Rectangle, v scene.View) {
	rd.BeginScene()
	rd.SetUniform("uToClip", iso.ScreenToClip(v.Width, v.Height).Float32())
	w, h := float32(r.Dx()), float32(r.Dy())
	rd.DrawTexturedQuadUV(float32(r.Min.X)+w/2, float32(r.Min.Y)+h/2, w, h, tex, colors.White, 0, 0, 0, 1, 1)
	rd.EndScene()
}
