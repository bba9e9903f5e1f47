package text

import (
	"github.com/hubastard/isomap/engine/colors"
	"github.com/hubastard/isomap/engine/gfx/renderer2d"
)

// DrawText draws s with its top-left corner at (x, y). Positive Y goes down.
func DrawText(r2d *renderer2d.Renderer2D, font *Font, x, y float32, s string, color colors.Color) {
	penX := x
	baseY := y + font.Ascent // move origin to top left
	var prev rune = -1

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += LineHeight(font)
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			if sp, ok2 := font.Glyphs[' ']; ok2 {
				penX += sp.Advance
			}
			prev = r
			continue
		}

		if prev >= 0 && font.Face != nil {
			penX += float32(font.Face.Kern(prev, r)) / 64.0
		}

		if g.W > 0 && g.H > 0 && g.Sub.Texture != nil {
			left := penX + g.BearingX
			top := baseY - g.BearingY
			r2d.DrawSubTexQuad(left+float32(g.W)*0.5, top+float32(g.H)*0.5, float32(g.W), float32(g.H), g.Sub, color, 0)
		}

		penX += g.Advance
		prev = r
	}
}

// MeasureText returns the size of s when drawn at the atlas size.
func MeasureText(font *Font, s string) (width, height float32) {
	var lineW float32
	var prev rune = -1
	lineH := LineHeight(font)
	height = lineH

	for _, r := range s {
		if r == '\n' {
			width = max(width, lineW)
			lineW = 0
			height += lineH
			prev = -1
			continue
		}

		g, ok := font.Glyphs[r]
		if !ok {
			if sp, ok2 := font.Glyphs[' ']; ok2 {
				lineW += sp.Advance
			}
			prev = r
			continue
		}

		if prev >= 0 && font.Face != nil {
			lineW += float32(font.Face.Kern(prev, r)) / 64.0
		}

		lineW += g.Advance
		prev = r
	}

	return max(width, lineW), height
}

func LineHeight(font *Font) float32 { return font.Ascent - font.Descent + font.LineGap }
