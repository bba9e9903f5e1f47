// Package minimap draws a small overview of the world that zooms with the main
// view and can steer it. It reads the primary camera every frame and only
// changes it through the camera's own pan and zoom operations.
package minimap

import (
	"errors"
	"fmt"
	"math"

	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/iso"
	"github.com/hubastard/isomap/engine/scene"
)

var ErrConfig = errors.New("minimap: invalid config")

// Layers toggles what is painted under the viewport indicator.
type Layers struct {
	Biomes     bool
	Structures bool
	Territory  bool
}

type Config struct {
	Width, Height    int
	Supersample      int     // biome raster resolution multiplier
	MaxWorldFraction float64 // share of the world still visible at full primary zoom
	FollowFactor     float64 // 1 keeps the grabbed point under the pointer while dragging
	Easing           Easing
	Layers           Layers
	TerritoryStep    int // mark every n-th territory tile
	MarkerSize       float64

	Gesture         scene.GestureConfig
	ZoomIn, ZoomOut float64

	Background     colors.Color
	ViewportFill   colors.Color
	ViewportStroke colors.Color
	Frame          colors.Color
}

var DefaultConfig = Config{
	Width:            240,
	Height:           180,
	Supersample:      2,
	MaxWorldFraction: 0.1,
	FollowFactor:     1,
	Easing:           EaseOutQuad,
	Layers:           Layers{Biomes: true, Structures: true, Territory: true},
	TerritoryStep:    2,
	MarkerSize:       2,
	ZoomIn:           1.1,
	ZoomOut:          1 / 1.1,
	Background:       colors.Black.WithAlpha(0.6),
	ViewportFill:     colors.White.WithAlpha(0.15),
	ViewportStroke:   colors.White,
	Frame:            colors.Gray,
}

// Validate reports the first unusable field, wrapped in ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size must be positive", ErrConfig)
	case c.Supersample < 1:
		return fmt.Errorf("%w: supersample must be at least 1", ErrConfig)
	case c.MaxWorldFraction <= 0 || c.MaxWorldFraction > 1:
		return fmt.Errorf("%w: max world fraction must be in (0, 1]", ErrConfig)
	case c.FollowFactor <= 0:
		return fmt.Errorf("%w: follow factor must be positive", ErrConfig)
	}
	return nil
}

// Projection is the minimap transform for one frame, derived from the primary
// camera and the canvas size. Equal inputs give equal projections.
type Projection struct {
	Base    float64 // scale at which the whole grid fits the canvas
	Max     float64 // scale at full primary zoom
	Dynamic float64
	ShiftX  float64
	ShiftY  float64
}

// Camera is the projection as an iso camera over the minimap canvas.
func (p Projection) Camera() iso.Camera {
	return iso.Camera{X: p.ShiftX, Y: p.ShiftY, Scale: p.Dynamic}
}

// Compute derives the minimap projection. tiles is the world's projection, n its
// grid size, v the primary view and [lo, hi] the primary zoom band.
func Compute(tiles iso.Projection, n int, v scene.View, lo, hi float64, cfg Config) Projection {
	w, h := float64(cfg.Width), float64(cfg.Height)
	base := math.Min(w/(float64(n)*tiles.TileW()), h/(float64(n)*tiles.TileH()))
	maxScale := base / cfg.MaxWorldFraction

	t := 0.0
	if hi > lo {
		t = math.Max(0, math.Min(1, (v.Scale-lo)/(hi-lo)))
	}
	ease := cfg.Easing
	if ease == nil {
		ease = Linear
	}
	t = ease(t)
	dyn := base*(1-t) + maxScale*t

	cx, cy := tiles.ScreenToWorld(v.Width/2, v.Height/2, v.Camera)
	c := tiles.Centered(cx, cy, dyn, w, h)
	return Projection{Base: base, Max: maxScale, Dynamic: dyn, ShiftX: c.X, ShiftY: c.Y}
}
