package text

import (
	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
)

// DrawText draws s with its box's top-left corner at (x, y), scaled to size pixels.
// Positive Y goes downward.
func DrawText(r2d *renderer2d.Renderer2D, f *Font, x, y float32, s string, size float32, color colors.Color) {
	scale := size / f.SizePx
	penX := x
	baseY := y + f.Ascent*scale
	prev := rune(-1)

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += f.LineHeight() * scale
			prev = -1
			continue
		}
		g, ok := f.Glyphs[r]
		if !ok {
			g = f.Glyphs['?']
		}
		if prev >= 0 {
			penX += f.kern[[2]rune{prev, r}] * scale
		}
		if g.W > 0 && g.H > 0 {
			r2d.DrawSubTexture(
				penX+g.BearingX*scale, baseY-g.BearingY*scale,
				float32(g.W)*scale, float32(g.H)*scale,
				g.Sub, color,
			)
		}
		penX += g.Advance * scale
		prev = r
	}
}

// MeasureText returns the box DrawText fills for s at size pixels.
func MeasureText(f *Font, s string, size float32) (width, height float32) {
	var lineW float32
	prev := rune(-1)
	height = f.LineHeight()

	for _, r := range s {
		if r == '\n' {
			width = max(width, lineW)
			lineW = 0
			height += f.LineHeight()
			prev = -1
			continue
		}
		g, ok := f.Glyphs[r]
		if !ok {
			g = f.Glyphs['?']
		}
		if prev >= 0 {
			lineW += f.kern[[2]rune{prev, r}]
		}
		lineW += g.Advance
		prev = r
	}
	width = max(width, lineW)
	scale := size / f.SizePx
	return width * scale, height * scale
}

// Truncate shortens s with "..." so it measures at most maxW at size.
func Truncate(f *Font, s string, size, maxW float32) string {
	if w, _ := MeasureText(f, s, size); w <= maxW {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cut := string(runes[:n]) + "..."
		if w, _ := MeasureText(f, cut, size); w <= maxW {
			return cut
		}
	}
	return "..."
}
