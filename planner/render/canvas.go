// Package render paints the board through a Canvas and records the hit regions of what
// it paints. It reads the plan and the geometry and never changes either.
package render

import (
	"image"

	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/ui"
)

// Canvas is the drawing surface. Coordinates are framebuffer pixels, origin top-left.
type Canvas interface {
	FillRect(r ui.Rect, c colors.Color)
	FillRoundRect(r ui.Rect, radius float32, c colors.Color)
	// Text draws one line with its box's top-left corner at (x, y).
	Text(s string, x, y, size float32, c colors.Color)
	MeasureText(s string, size float32) (w, h float32)
	// Image draws img scaled into r. key identifies img across frames.
	Image(key string, img image.Image, r ui.Rect)
	PushClip(r ui.Rect)
	PopClip()
}

// Thumbnails resolves an image ref to a decoded thumbnail. A miss may start a load in
// the background; the next frame asks again.
type Thumbnails interface {
	Resolve(ref string) (image.Image, bool)
}
