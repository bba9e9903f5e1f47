package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/gfx/renderer2d"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/text"
)

// HUDLayer prints camera, selection and renderer state in the top-left corner.
type HUDLayer struct {
	app     *App
	sprites *renderer2d.Renderer2D
	font    *text.Font
	visible bool
	frameMS float32
	lines   []string
	mem     runtime.MemStats
}

func (l *HUDLayer) OnAttach(e *core.Engine) {}

func (l *HUDLayer) OnDetach(e *core.Engine) {}

func (l *HUDLayer) OnUpdate(e *core.Engine, dt float64) {}

func (l *HUDLayer) OnRender(e *core.Engine, alpha float64) {
	if !l.visible {
		return
	}
	a := l.app
	v := a.camera.Snapshot()

	l.lines = l.lines[:0]
	l.lines = append(l.lines,
		fmt.Sprintf("frame %d  %.2f ms", a.tick, l.frameMS),
		fmt.Sprintf("scale %.3f  pan %.0f,%.0f", v.Scale, v.X, v.Y),
	)
	if i, j, ok := a.mapLayer.ctrl.Hover(); ok {
		l.lines = append(l.lines, fmt.Sprintf("tile %d,%d  %s", i, j, a.world.BiomeAt(i, j).Name))
	} else {
		l.lines = append(l.lines, "tile -")
	}
	if sel, ok := a.selector.Current(); ok {
		l.lines = append(l.lines, "selected "+sel.String())
	} else {
		l.lines = append(l.lines, "selected -")
	}
	l.lines = append(l.lines,
		"backend "+a.mapLayer.Backend(),
		a.mapLayer.DrawStats(),
	)
	if a.miniLayer != nil {
		p := a.miniLayer.mm.Projection()
		r, o := a.miniLayer.mm.Stats()
		l.lines = append(l.lines, fmt.Sprintf("minimap %.3fx  rasters %d  overlays %d", p.Dynamic, r, o))
	}
	if a.tick%30 == 0 {
		runtime.ReadMemStats(&l.mem)
	}
	l.lines = append(l.lines, fmt.Sprintf("heap %.2f MB  goroutines %d", float64(l.mem.HeapAlloc)/(1<<20), runtime.NumGoroutine()))
	body := strings.Join(l.lines, "\n")

	const pad = 8
	tw, th := text.MeasureText(l.font, body)
	rd := l.sprites
	rd.BeginScene()
	rd.SetUniform("uToClip", iso.ScreenToClip(v.Width, v.Height).Float32())
	rd.DrawRect(pad, pad, pad*3+tw, pad*3+th, colors.Black.WithAlpha(0.5))
	text.DrawText(rd, l.font, pad*2, pad*2, body, colors.White)
	rd.EndScene()
}

func (l *HUDLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyH {
		l.visible = !l.visible
		return true
	}
	return false
}
