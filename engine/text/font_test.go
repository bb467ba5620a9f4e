package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gymblocks/engine/core"
)

type fakeTex struct{ w, h int }

func (t *fakeTex) Width() int  { return t.w }
func (t *fakeTex) Height() int { return t.h }

// uploader records texture uploads; the rest of core.Renderer is unused.
type uploader struct {
	core.Renderer
	descs []core.TextureDesc
}

func (u *uploader) CreateTexture(d core.TextureDesc) (core.Texture, error) {
	u.descs = append(u.descs, d)
	return &fakeTex{d.Width, d.Height}, nil
}

func loadFont(t *testing.T) (*Font, *uploader) {
	t.Helper()
	up := &uploader{}
	f, err := LoadDefault(up, 32, false)
	require.NoError(t, err)
	return f, up
}

func TestLoadDefault_BuildsAtlas(t *testing.T) {
	f, up := loadFont(t)
	require.Len(t, up.descs, 1)
	d := up.descs[0]
	assert.Equal(t, d.Width*d.Height*4, len(d.Pixels))
	assert.Equal(t, "linear", d.MinFilter)

	for _, r := range "Az09+•" {
		g, ok := f.Glyphs[r]
		require.True(t, ok, "glyph %q", r)
		assert.Positive(t, g.Advance)
		assert.Positive(t, g.W)
		assert.Less(t, g.Sub.U0, g.Sub.U1)
		assert.Less(t, g.Sub.V0, g.Sub.V1)
	}
	sp := f.Glyphs[' ']
	assert.Zero(t, sp.W, "space has no bitmap")
	assert.Positive(t, sp.Advance)

	// texels are white wherever there is coverage
	for i := 0; i < len(d.Pixels); i += 4 {
		if d.Pixels[i+3] != 0 {
			require.Equal(t, byte(0xFF), d.Pixels[i])
		}
	}
}

func TestMeasureText_Scales(t *testing.T) {
	f, _ := loadFont(t)
	w32, h32 := MeasureText(f, "Bench Press", 32)
	w16, h16 := MeasureText(f, "Bench Press", 16)
	assert.InDelta(t, w32/2, w16, 1e-3)
	assert.InDelta(t, h32/2, h16, 1e-3)

	_, h2 := MeasureText(f, "a\nb", 32)
	assert.InDelta(t, 2*h32, h2, 1e-3)

	wEmpty, _ := MeasureText(f, "", 32)
	assert.Zero(t, wEmpty)
}

func TestTruncate(t *testing.T) {
	f, _ := loadFont(t)
	long := "Romanian Deadlift With Pause"
	w, _ := MeasureText(f, long, 16)
	assert.Equal(t, long, Truncate(f, long, 16, w))

	cut := Truncate(f, long, 16, w/2)
	assert.True(t, len(cut) < len(long))
	assert.Contains(t, cut, "...")
	cw, _ := MeasureText(f, cut, 16)
	assert.LessOrEqual(t, cw, w/2)
}
