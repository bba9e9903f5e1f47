package settings

import (
	"errors"
	"testing"
	"time"

	"github.com/hubastard/isomap/engine/colors"
)

func TestDefaults_Valid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.Render.Backend != BackendGPU || s.Camera.MaxScale != Defaults().Camera.MaxScale {
		t.Fatalf("got %+v", s)
	}
}

func TestLoad_SampleFile(t *testing.T) {
	s, err := Load("../../assets/viewer.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if s.Window.Width != 1280 || s.Minimap.Easing != "ease-out-quad" {
		t.Fatalf("got %+v", s)
	}
	if s.Render.SelectionColor != colors.Yellow {
		t.Fatalf("selection colour %v", s.Render.SelectionColor)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	s, err := Parse([]byte(`
render:
  backend: " Raster "
minimap:
  easing: pow
  easing_param: 3
  layers:
    territory: false
controls:
  drag_delay_ms: 150
`))
	if err != nil {
		t.Fatal(err)
	}
	if s.Render.Backend != BackendRaster {
		t.Fatalf("backend %q", s.Render.Backend)
	}
	if s.Window.Title != "isomap" || s.Controls.ClickDistance != 6 {
		t.Fatalf("defaults lost: %+v", s)
	}
	l := s.Minimap.Layers
	if !l.Biomes || !l.Structures || l.Territory {
		t.Fatalf("layers %+v", l)
	}

	cc := s.ControllerConfig()
	if cc.Gesture.DragDelay != 150*time.Millisecond || cc.ZoomIn != 1.1 {
		t.Fatalf("controller config %+v", cc)
	}
	mc, err := s.MinimapConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got := mc.Easing(0.5); got != 0.125 {
		t.Fatalf("pow 3 easing at 0.5 = %v", got)
	}
	if mc.Layers.Territory || mc.Gesture.ClickDistance != 4 {
		t.Fatalf("minimap config %+v", mc)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"backend":  "render: {backend: vulkan}",
		"band":     "camera: {min_scale: 2, max_scale: 1}",
		"zero min": "camera: {min_scale: 0}",
		"window":   "window: {width: 0}",
		"easing":   "minimap: {easing: bounce}",
		"fraction": "minimap: {max_world_fraction: 2}",
		"gesture":  "minimap: {gesture: {zoom_in: 0}}",
		"negative": "controls: {click_distance: -1}",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
	if _, err := Parse([]byte("camera: [")); err == nil || errors.Is(err, ErrInvalid) {
		t.Errorf("malformed yaml: err = %v", err)
	}
}

func TestOptions_FromRender(t *testing.T) {
	s := Defaults()
	s.Render.SelectionWidth = 3
	s.Render.Derivatives = false
	if o := s.RasterOptions(); o.SelectionWidth != 3 || o.GridWidth != 1 {
		t.Fatalf("raster options %+v", o)
	}
	if o := s.GPUOptions(); o.SelectionWidth != 3 || o.Derivatives || o.GridWidth != 1 {
		t.Fatalf("gpu options %+v", o)
	}
	if c := s.Core(colors.Black); c.Width != 1280 || c.ClearColor != colors.Black {
		t.Fatalf("core config %+v", c)
	}
}
