package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShader(t *testing.T) {
	for _, name := range []string{"renderer2d.vert", "renderer2d.frag"} {
		src, err := Shader(name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(src, "#version 330 core"))
		assert.True(t, strings.HasSuffix(src, "\x00"))
	}
	_, err := Shader("missing.vert")
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, format, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, _, err = Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 9, 7))
	src.Set(8, 6, color.NRGBA{G: 255, A: 255})

	out := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), out.Bounds())
	assert.Equal(t, 16, out.Stride)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, out.RGBAAt(3, 1))

	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, same, ToRGBA(same))
}

func TestDecodeConfig(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 7, 3))))

	cfg, format, err := DecodeConfig(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 7, cfg.Width)

	_, _, err = DecodeConfig([]byte{1, 2, 3})
	assert.Error(t, err)
}
