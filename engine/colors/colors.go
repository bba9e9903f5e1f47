package colors

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Color is straight (non-premultiplied) RGBA in [0..1], the layout shaders expect.
type Color [4]float32

var (
	White    = Color{1, 1, 1, 1}
	Red      = Color{1, 0, 0, 1}
	Green    = Color{0, 1, 0, 1}
	Blue     = Color{0, 0, 1, 1}
	Black    = Color{0, 0, 0, 1}
	Magenta  = Color{1, 0, 1, 1}
	Cyan     = Color{0, 1, 1, 1}
	Yellow   = Color{1, 1, 0, 1}
	Gray     = Color{0.5, 0.5, 0.5, 1}
	DarkGray = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// IsZero reports an unset colour (fully transparent black).
func (c Color) IsZero() bool { return c == Color{} }

// RGBA converts to a premultiplied 8-bit colour for image/draw targets.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c[3])
	return color.RGBA{
		R: uint8(clamp01(c[0])*a*255 + 0.5),
		G: uint8(clamp01(c[1])*a*255 + 0.5),
		B: uint8(clamp01(c[2])*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// FromRGBA builds a Color from a non-premultiplied 8-bit colour.
func FromRGBA(c color.RGBA) Color {
	return Color{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

// Parse accepts "#rrggbb", "#rrggbbaa" or an SVG colour name such as "forestgreen".
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return FromRGBA(c), nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		ch[i] = uint8(v)
	}
	return FromRGBA(color.RGBA{ch[0], ch[1], ch[2], ch[3]}), nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", value.Line)
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
