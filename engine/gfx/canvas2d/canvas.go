// Package canvas2d is an immediate-mode drawing surface over the batched 2D renderer:
// rects, rounded rects, text, cached image textures and a scissor clip stack.
package canvas2d

import (
	"image"

	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/engine/assets"
	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/core"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
	"github.com/hubastard/gymblocks/engine/scene"
	"github.com/hubastard/gymblocks/engine/text"
	"github.com/hubastard/gymblocks/engine/ui"
)

type cachedTex struct {
	img  image.Image
	tex  core.Texture
	used bool
}

// Canvas draws in framebuffer pixels with the origin at the top-left corner.
type Canvas struct {
	r      core.Renderer
	r2d    *renderer2d.Renderer2D
	font   *text.Font
	cam    *scene.ScreenCamera
	logger *log.Logger

	textures map[string]*cachedTex
	clips    []ui.Rect
}

func New(r core.Renderer, r2d *renderer2d.Renderer2D, font *text.Font, logger *log.Logger) *Canvas {
	return &Canvas{
		r: r, r2d: r2d, font: font, logger: logger,
		cam:      scene.NewScreenCamera(1, 1),
		textures: make(map[string]*cachedTex),
	}
}

// Begin starts a frame covering a w x h framebuffer.
func (c *Canvas) Begin(w, h int) {
	c.cam.SetViewportPixels(w, h)
	c.r2d.BeginScene(c.cam.VP())
	c.clips = c.clips[:0]
	for _, t := range c.textures {
		t.used = false
	}
}

// End flushes the frame and frees textures no image used this frame.
func (c *Canvas) End() {
	c.r2d.EndScene()
	if len(c.clips) > 0 {
		c.logger.Warn("unbalanced clip stack at end of frame", "depth", len(c.clips))
		c.clips = c.clips[:0]
		c.r.SetScissor(0, 0, 0, 0, false)
	}
	for key, t := range c.textures {
		if !t.used {
			c.r.DeleteTexture(t.tex)
			delete(c.textures, key)
		}
	}
}

// Stats reports the renderer batches of the frame in progress.
func (c *Canvas) Stats() renderer2d.Statistics { return c.r2d.Stats() }

// Textures is the number of cached image textures.
func (c *Canvas) Textures() int { return len(c.textures) }

func (c *Canvas) FillRect(r ui.Rect, col colors.Color) {
	c.r2d.FillRect(r.X, r.Y, r.W, r.H, col)
}

func (c *Canvas) FillRoundRect(r ui.Rect, radius float32, col colors.Color) {
	c.r2d.FillRoundRect(r.X, r.Y, r.W, r.H, radius, col)
}

func (c *Canvas) Text(s string, x, y, size float32, col colors.Color) {
	text.DrawText(c.r2d, c.font, x, y, s, size, col)
}

func (c *Canvas) MeasureText(s string, size float32) (float32, float32) {
	return text.MeasureText(c.font, s, size)
}

// Image draws img stretched over r. The texture for key is re-uploaded only when a
// different image arrives under the same key.
func (c *Canvas) Image(key string, img image.Image, r ui.Rect) {
	t, ok := c.textures[key]
	if ok && t.img != img {
		c.r.DeleteTexture(t.tex)
		delete(c.textures, key)
		ok = false
	}
	if !ok {
		rgba := assets.ToRGBA(img)
		tex, err := c.r.CreateTexture(core.TextureDesc{
			Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy(),
			Format:    core.TextureRGBA8,
			Pixels:    rgba.Pix,
			MinFilter: "linear", MagFilter: "linear",
			WrapU: "clamp", WrapV: "clamp",
		})
		if err != nil {
			c.logger.Error("upload image", "key", key, "err", err)
			return
		}
		t = &cachedTex{img: img, tex: tex}
		c.textures[key] = t
	}
	t.used = true
	c.r2d.DrawTexture(r.X, r.Y, r.W, r.H, t.tex, colors.White)
}

// PushClip restricts drawing to r intersected with the current clip.
func (c *Canvas) PushClip(r ui.Rect) {
	if n := len(c.clips); n > 0 {
		r = r.Intersect(c.clips[n-1])
	}
	c.clips = append(c.clips, r)
	c.scissor(r)
}

func (c *Canvas) PopClip() {
	if len(c.clips) == 0 {
		return
	}
	c.clips = c.clips[:len(c.clips)-1]
	if n := len(c.clips); n > 0 {
		c.scissor(c.clips[n-1])
		return
	}
	c.r2d.SetScissor(0, 0, 0, 0, false)
}

func (c *Canvas) scissor(r ui.Rect) {
	x0, y0 := int(r.X), int(r.Y)
	x1, y1 := int(r.Right()+0.999), int(r.Bottom()+0.999)
	c.r2d.SetScissor(x0, y0, x1-x0, y1-y0, true)
}
