package scene

// ScreenCamera maps framebuffer pixels to clip space with the origin at the top-left
// corner and Y growing downward.
type ScreenCamera struct {
	w, h  float32
	vp    [16]float32
	dirty bool
}

func NewScreenCamera(width, height int) *ScreenCamera {
	c := &ScreenCamera{}
	c.SetViewportPixels(width, height)
	return c
}

func (c *ScreenCamera) SetViewportPixels(w, h int) {
	c.w, c.h = float32(max(w, 1)), float32(max(h, 1))
	c.dirty = true
}

func (c *ScreenCamera) Width() float32  { return c.w }
func (c *ScreenCamera) Height() float32 { return c.h }

func (c *ScreenCamera) VP() [16]float32 {
	if c.dirty {
		c.vp = ortho(0, c.w, c.h, 0, -1, 1)
		c.dirty = false
	}
	return c.vp
}

// Project applies VP to a point; useful to check the mapping.
func (c *ScreenCamera) Project(x, y float32) (float32, float32) {
	m := c.VP()
	return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
}

// ---- tiny mat helpers (column-major, GLSL-style) ----

func ortho(l, r, b, t, n, f float32) [16]float32 {
	rl := 1 / (r - l)
	tb := 1 / (t - b)
	fn := 1 / (f - n)
	return [16]float32{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(r + l) * rl, -(t + b) * tb, -(f + n) * fn, 1,
	}
}
