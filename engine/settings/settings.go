// Package settings loads the viewer's YAML configuration. Fields missing from the
// file keep their defaults.
package settings

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/core"
	"github.com/hubastard/isomap/engine/gfx/isogpu"
	"github.com/hubastard/isomap/engine/gfx/raster"
	"github.com/hubastard/isomap/engine/minimap"
	"github.com/hubastard/isomap/engine/scene"
)

var ErrInvalid = errors.New("invalid settings")

const (
	BackendGPU    = "gpu"
	BackendRaster = "raster"
)

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

type Camera struct {
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
	Scale    float64 `yaml:"scale"`
}

// Gesture holds click/drag thresholds and wheel multipliers for one view.
type Gesture struct {
	DragDelayMS   int     `yaml:"drag_delay_ms"`
	DragDistance  float64 `yaml:"drag_distance"`
	ClickDistance float64 `yaml:"click_distance"`
	ZoomIn        float64 `yaml:"zoom_in"`
	ZoomOut       float64 `yaml:"zoom_out"`
}

func (g Gesture) Config() scene.GestureConfig {
	return scene.GestureConfig{
		DragDelay:     time.Duration(g.DragDelayMS) * time.Millisecond,
		DragDistance:  g.DragDistance,
		ClickDistance: g.ClickDistance,
	}
}

type Controls struct {
	Gesture       `yaml:",inline"`
	WheelAtCenter bool    `yaml:"wheel_at_center"`
	KeyPanSpeed   float64 `yaml:"key_pan_speed"`
	KeyZoomStep   float64 `yaml:"key_zoom_step"`
}

type Render struct {
	Backend        string       `yaml:"backend"`
	SelectionColor colors.Color `yaml:"selection_color"`
	SelectionWidth float64      `yaml:"selection_width"`
	BorderWidth    float64      `yaml:"border_width"`
	GridWidth      float64      `yaml:"grid_width"`
	Derivatives    bool         `yaml:"derivatives"`
}

type Layers struct {
	Biomes     bool `yaml:"biomes"`
	Structures bool `yaml:"structures"`
	Territory  bool `yaml:"territory"`
}

type Minimap struct {
	Enabled          bool    `yaml:"enabled"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	Margin           int     `yaml:"margin"`
	Supersample      int     `yaml:"supersample"`
	MaxWorldFraction float64 `yaml:"max_world_fraction"`
	FollowFactor     float64 `yaml:"follow_factor"`
	Easing           string  `yaml:"easing"`
	EasingParam      float64 `yaml:"easing_param"`
	TerritoryStep    int     `yaml:"territory_step"`
	Layers           Layers  `yaml:"layers"`
	Gesture          Gesture `yaml:"gesture"`
}

type HUD struct {
	Enabled  bool    `yaml:"enabled"`
	Font     string  `yaml:"font"` // TTF path; empty uses the built-in bitmap face
	FontSize float64 `yaml:"font_size"`
}

type Settings struct {
	Window   Window   `yaml:"window"`
	World    string   `yaml:"world"`
	Watch    bool     `yaml:"watch"`
	Camera   Camera   `yaml:"camera"`
	Controls Controls `yaml:"controls"`
	Render   Render   `yaml:"render"`
	Minimap  Minimap  `yaml:"minimap"`
	HUD      HUD      `yaml:"hud"`
}

// Defaults returns the settings used when no file is given.
func Defaults() Settings {
	mm := minimap.DefaultConfig
	return Settings{
		Window: Window{Title: "isomap", Width: 1280, Height: 720, VSync: true},
		World:  "assets/world.yaml",
		Watch:  true,
		Camera: Camera{MinScale: 0.1, MaxScale: 4, Scale: 1},
		Controls: Controls{
			Gesture: Gesture{
				DragDelayMS:   80,
				DragDistance:  4,
				ClickDistance: 6,
				ZoomIn:        1.1,
				ZoomOut:       1 / 1.1,
			},
			KeyPanSpeed: 600,
			KeyZoomStep: 1.25,
		},
		Render: Render{
			Backend:        BackendGPU,
			SelectionColor: raster.DefaultOptions.SelectionColor,
			SelectionWidth: raster.DefaultOptions.SelectionWidth,
			BorderWidth:    raster.DefaultOptions.BorderWidth,
			GridWidth:      raster.DefaultOptions.GridWidth,
			Derivatives:    true,
		},
		Minimap: Minimap{
			Enabled:          true,
			Width:            mm.Width,
			Height:           mm.Height,
			Margin:           12,
			Supersample:      mm.Supersample,
			MaxWorldFraction: mm.MaxWorldFraction,
			FollowFactor:     mm.FollowFactor,
			Easing:           "ease-out-quad",
			TerritoryStep:    mm.TerritoryStep,
			Layers:           Layers{Biomes: true, Structures: true, Territory: true},
			Gesture: Gesture{
				DragDistance:  2,
				ClickDistance: 4,
				ZoomIn:        mm.ZoomIn,
				ZoomOut:       mm.ZoomOut,
			},
		},
		HUD: HUD{Enabled: true, FontSize: 14},
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("settings: unmarshal: %w", err)
	}
	s.Render.Backend = strings.ToLower(strings.TrimSpace(s.Render.Backend))
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings: %w", err)
	}
	return s, nil
}

// Load reads path. An empty path yields the defaults.
func Load(path string) (Settings, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s Settings) Validate() error {
	c := s.Camera
	switch {
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, s.Window.Width, s.Window.Height)
	case s.Render.Backend != BackendGPU && s.Render.Backend != BackendRaster:
		return fmt.Errorf("%w: backend %q, want %q or %q", ErrInvalid, s.Render.Backend, BackendGPU, BackendRaster)
	case c.MinScale <= 0 || c.MaxScale < c.MinScale:
		return fmt.Errorf("%w: camera band [%v, %v]", ErrInvalid, c.MinScale, c.MaxScale)
	}
	if err := s.Controls.validate("controls"); err != nil {
		return err
	}
	if s.Controls.KeyZoomStep <= 0 {
		return fmt.Errorf("%w: controls: key zoom step %v", ErrInvalid, s.Controls.KeyZoomStep)
	}
	if err := s.Minimap.Gesture.validate("minimap.gesture"); err != nil {
		return err
	}
	if _, err := s.MinimapConfig(); err != nil {
		return fmt.Errorf("%w: minimap: %w", ErrInvalid, err)
	}
	return nil
}

func (g Gesture) validate(where string) error {
	switch {
	case g.DragDelayMS < 0 || g.DragDistance < 0 || g.ClickDistance < 0:
		return fmt.Errorf("%w: %s: negative threshold", ErrInvalid, where)
	case g.ZoomIn <= 0 || g.ZoomOut <= 0:
		return fmt.Errorf("%w: %s: zoom multipliers must be positive", ErrInvalid, where)
	}
	return nil
}

// Core returns the window configuration, cleared to clear.
func (s Settings) Core(clear colors.Color) core.Config {
	return core.Config{
		Title:      s.Window.Title,
		Width:      s.Window.Width,
		Height:     s.Window.Height,
		VSync:      s.Window.VSync,
		ClearColor: clear,
	}
}

func (s Settings) ControllerConfig() scene.ControllerConfig {
	c := s.Controls
	return scene.ControllerConfig{
		Gesture:       c.Gesture.Config(),
		ZoomIn:        c.ZoomIn,
		ZoomOut:       c.ZoomOut,
		WheelAtCenter: c.WheelAtCenter,
		KeyPanSpeed:   c.KeyPanSpeed,
		KeyZoomStep:   c.KeyZoomStep,
	}
}

func (s Settings) RasterOptions() raster.Options {
	return raster.Options{
		SelectionColor: s.Render.SelectionColor,
		SelectionWidth: s.Render.SelectionWidth,
		BorderWidth:    s.Render.BorderWidth,
		GridWidth:      s.Render.GridWidth,
	}
}

func (s Settings) GPUOptions() isogpu.Options {
	return isogpu.Options{
		SelectionColor: s.Render.SelectionColor,
		SelectionWidth: s.Render.SelectionWidth,
		BorderWidth:    s.Render.BorderWidth,
		GridWidth:      s.Render.GridWidth,
		Derivatives:    s.Render.Derivatives,
	}
}

// MinimapConfig builds and checks the minimap configuration.
func (s Settings) MinimapConfig() (minimap.Config, error) {
	m := s.Minimap
	ease, err := minimap.ParseEasing(m.Easing, m.EasingParam)
	if err != nil {
		return minimap.Config{}, err
	}
	cfg := minimap.DefaultConfig
	cfg.Width, cfg.Height = m.Width, m.Height
	cfg.Supersample = m.Supersample
	cfg.MaxWorldFraction = m.MaxWorldFraction
	cfg.FollowFactor = m.FollowFactor
	cfg.Easing = ease
	cfg.TerritoryStep = m.TerritoryStep
	cfg.Layers = minimap.Layers(m.Layers)
	cfg.Gesture = m.Gesture.Config()
	cfg.ZoomIn, cfg.ZoomOut = m.Gesture.ZoomIn, m.Gesture.ZoomOut
	return cfg, cfg.Validate()
}
