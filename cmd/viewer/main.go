package main

import (
	"flag"
	"log"
	"time"

	"github.com/hubastard/isomap/engine/assets"
	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	glbackend "github.com/hubastard/isomap/engine/gfx/gl"
	"github.com/hubastard/isomap/engine/gfx/renderer2d"
	"github.com/hubastard/isomap/engine/platform"
	"github.com/hubastard/isomap/engine/scene"
	"github.com/hubastard/isomap/engine/settings"
	"github.com/hubastard/isomap/engine/text"
	"github.com/hubastard/isomap/engine/world"
)

type App struct {
	settings  settings.Settings
	worldPath string
	world     *world.World
	camera    *scene.Camera
	selector  *scene.Selector
	watcher   *world.Watcher

	sprites   *renderer2d.Renderer2D
	font      *text.Font
	mapLayer  *MapLayer
	miniLayer *MinimapLayer
	hud       *HUDLayer

	lastFrame time.Time
	tick      int
}

func (a *App) OnStart(e *core.Engine) {
	vs, fs, err := assets.LoadProgram("renderer2d")
	if err != nil {
		log.Fatal(err)
	}
	a.sprites, err = renderer2d.New(e.Renderer, vs, fs, 10000)
	if err != nil {
		log.Fatal(err)
	}

	if path := a.settings.HUD.Font; path != "" {
		a.font, err = text.LoadTTF(e.Renderer, path, float32(a.settings.HUD.FontSize))
		if err != nil {
			log.Printf("HUD font %s: %v, using the built-in face", path, err)
		}
	}
	if a.font == nil {
		if a.font, err = text.LoadDefault(e.Renderer); err != nil {
			log.Fatal(err)
		}
	}

	a.mapLayer = &MapLayer{
		settings: a.settings,
		world:    a.world,
		camera:   a.camera,
		selector: a.selector,
		sprites:  a.sprites,
	}
	e.Layers.Push(e, a.mapLayer)

	if a.settings.Minimap.Enabled {
		cfg, err := a.settings.MinimapConfig()
		if err != nil {
			log.Fatal(err)
		}
		a.miniLayer = &MinimapLayer{cfg: cfg, margin: a.settings.Minimap.Margin, world: a.world, camera: a.camera, sprites: a.sprites}
		e.Layers.Push(e, a.miniLayer)
	}

	a.hud = &HUDLayer{
		app:     a,
		sprites: a.sprites,
		font:    a.font,
		visible: a.settings.HUD.Enabled,
	}
	e.Layers.Push(e, a.hud)

	if a.settings.Watch {
		if a.watcher, err = world.NewWatcher(a.worldPath); err != nil {
			log.Printf("world watcher: %v", err)
		}
	}
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.tick++
	now := time.Now()
	if !a.lastFrame.IsZero() {
		a.hud.frameMS = float32(now.Sub(a.lastFrame).Seconds() * 1000)
	}
	a.lastFrame = now

	if a.watcher == nil {
		return
	}
	select {
	case err := <-a.watcher.Errors:
		log.Printf("world watcher: %v", err)
	default:
	}
	if a.watcher.Poll() {
		a.reloadWorld()
	}
}

// reloadWorld swaps in the edited file. A file that fails to load leaves the
// current world in place.
func (a *App) reloadWorld() {
	next, err := world.LoadFile(a.worldPath)
	if err != nil {
		log.Printf("world reload: %v", err)
		return
	}
	a.world.Replace(next)
	a.camera.SetProjection(a.world.Projection())
	a.selector.Clear()
	log.Printf("world reloaded: %s (%dx%d)", a.worldPath, a.world.Size, a.world.Size)
}

func (a *App) OnRender(e *core.Engine, alpha float64) {}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyQ && k.Mods&core.ModCtrl != 0 {
		e.Window.RequestClose()
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.miniLayer != nil {
		a.miniLayer.Close()
	}
	if a.font != nil {
		a.font.Close()
	}
}

func main() {
	configPath := flag.String("config", "", "viewer settings YAML (defaults when empty)")
	worldPath := flag.String("world", "", "world YAML, overrides the settings file")
	backend := flag.String("backend", "", "map renderer: gpu or raster")
	flag.Parse()

	s, err := settings.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *worldPath != "" {
		s.World = *worldPath
	}
	if *backend != "" {
		s.Render.Backend = *backend
		if err := s.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	w, err := world.LoadFile(s.World)
	if err != nil {
		log.Fatal(err)
	}
	cam, err := scene.NewCamera(w.Projection(), s.Camera.MinScale, s.Camera.MaxScale, s.Camera.Scale)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("world %q: %dx%d tiles, %d biome regions, %d groups", w.Name, w.Size, w.Size, len(w.Biomes), len(w.Groups))

	app := &App{
		settings:  s,
		worldPath: s.World,
		world:     w,
		camera:    cam,
		selector:  &scene.Selector{},
	}

	clear := w.Background
	if clear.IsZero() {
		clear = colors.DarkGray
	}
	newWindow := func(cfg core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(cfg, nil)
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(win, cfg)
	}

	if err := core.Run(app, s.Core(clear), newWindow, newRenderer); err != nil {
		log.Fatal(err)
	}
}
