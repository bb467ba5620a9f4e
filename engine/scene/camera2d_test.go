package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenCamera_TopLeftOrigin(t *testing.T) {
	c := NewScreenCamera(800, 600)
	tests := []struct {
		x, y   float32
		cx, cy float32
	}{
		{0, 0, -1, 1},
		{800, 600, 1, -1},
		{400, 300, 0, 0},
		{800, 0, 1, 1},
	}
	for _, tt := range tests {
		cx, cy := c.Project(tt.x, tt.y)
		assert.InDelta(t, tt.cx, cx, 1e-6, "x at (%v,%v)", tt.x, tt.y)
		assert.InDelta(t, tt.cy, cy, 1e-6, "y at (%v,%v)", tt.x, tt.y)
	}
}

func TestScreenCamera_Resize(t *testing.T) {
	c := NewScreenCamera(800, 600)
	_ = c.VP()
	c.SetViewportPixels(400, 200)
	cx, cy := c.Project(400, 200)
	assert.InDelta(t, 1, cx, 1e-6)
	assert.InDelta(t, -1, cy, 1e-6)
	assert.Equal(t, float32(400), c.Width())

	c.SetViewportPixels(0, 0)
	assert.Equal(t, float32(1), c.Height(), "a minimized window never divides by zero")
}
