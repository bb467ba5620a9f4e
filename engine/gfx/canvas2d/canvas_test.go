package canvas2d

import (
	"image"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/core"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
	"github.com/hubastard/gymblocks/engine/text"
	"github.com/hubastard/gymblocks/engine/ui"
)

type fakeTex struct{ w, h int }

func (t *fakeTex) Width() int  { return t.w }
func (t *fakeTex) Height() int { return t.h }

type scissor struct {
	x, y, w, h int
	on         bool
}

type fakeRenderer struct {
	created  int
	deleted  []core.Texture
	draws    []core.DrawCmd
	scissors []scissor
}

func (f *fakeRenderer) Resize(int, int)                          {}
func (f *fakeRenderer) Clear(float32, float32, float32, float32) {}
func (f *fakeRenderer) CreatePipeline(core.PipelineDesc) (core.Pipeline, error) {
	return new(int), nil
}
func (f *fakeRenderer) CreateTexture(d core.TextureDesc) (core.Texture, error) {
	f.created++
	return &fakeTex{d.Width, d.Height}, nil
}
func (f *fakeRenderer) DeleteTexture(t core.Texture) { f.deleted = append(f.deleted, t) }
func (f *fakeRenderer) CreateMesh(core.MeshDesc) (core.Mesh, error) {
	return new(int), nil
}
func (f *fakeRenderer) UpdateMesh(core.Mesh, []float32, []uint32) error { return nil }
func (f *fakeRenderer) Draw(cmd core.DrawCmd)                           { f.draws = append(f.draws, cmd) }
func (f *fakeRenderer) SetScissor(x, y, w, h int, on bool) {
	f.scissors = append(f.scissors, scissor{x, y, w, h, on})
}
func (f *fakeRenderer) GPUVendor() string   { return "fake" }
func (f *fakeRenderer) GPURenderer() string { return "fake" }
func (f *fakeRenderer) Shutdown()           {}

func newCanvas(t *testing.T) (*Canvas, *fakeRenderer) {
	t.Helper()
	fr := &fakeRenderer{}
	r2d, err := renderer2d.New(fr, "vs", "fs", 64)
	require.NoError(t, err)
	font, err := text.LoadDefault(fr, 24, false)
	require.NoError(t, err)
	fr.created = 0
	return New(fr, r2d, font, log.New(io.Discard)), fr
}

func TestCanvas_ClipStackIntersects(t *testing.T) {
	c, fr := newCanvas(t)
	c.Begin(800, 600)
	c.PushClip(ui.R(0, 100, 800, 400))
	c.PushClip(ui.R(50, 50, 100, 100.5))
	c.PopClip()
	c.PopClip()
	c.End()

	assert.Equal(t, []scissor{
		{0, 100, 800, 400, true},
		{50, 100, 100, 51, true},
		{0, 100, 800, 400, true},
		{0, 0, 0, 0, false},
	}, fr.scissors)
}

func TestCanvas_PopWithoutPushIsIgnored(t *testing.T) {
	c, fr := newCanvas(t)
	c.Begin(100, 100)
	c.PopClip()
	c.End()
	assert.Empty(t, fr.scissors)
}

func TestCanvas_ImageTextureCache(t *testing.T) {
	c, fr := newCanvas(t)
	a := image.NewRGBA(image.Rect(0, 0, 4, 4))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))

	c.Begin(100, 100)
	c.Image("img:a", a, ui.R(0, 0, 10, 10))
	c.Image("img:a", a, ui.R(20, 0, 10, 10))
	c.End()
	assert.Equal(t, 1, fr.created, "same image under the same key uploads once")

	c.Begin(100, 100)
	c.Image("img:a", b, ui.R(0, 0, 10, 10))
	c.End()
	assert.Equal(t, 2, fr.created)
	assert.Len(t, fr.deleted, 1, "replaced image frees the old texture")

	c.Begin(100, 100)
	c.End()
	assert.Len(t, fr.deleted, 2, "unused textures are evicted")
	assert.Zero(t, c.Textures())
}

func TestCanvas_DrawsBatch(t *testing.T) {
	c, fr := newCanvas(t)
	c.Begin(320, 200)
	c.FillRect(ui.R(0, 0, 10, 10), colors.White)
	c.FillRoundRect(ui.R(0, 20, 40, 40), 8, colors.Amber)
	c.Text("Squat", 4, 4, 12, colors.Black)
	c.End()

	require.Len(t, fr.draws, 1)
	assert.Equal(t, 1, c.Stats().DrawCalls)
	assert.Greater(t, c.Stats().QuadCount, 10)

	w, h := c.MeasureText("Squat", 12)
	assert.Positive(t, w)
	assert.Positive(t, h)
}
