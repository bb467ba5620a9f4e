package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSource struct{ mock.Mock }

func (m *mockSource) GetImage(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newCache(t *testing.T, src Source) (*Cache, *atomic.Int32) {
	t.Helper()
	var ready atomic.Int32
	c := NewCache(context.Background(), src, 32, log.New(io.Discard), func() { ready.Add(1) })
	return c, &ready
}

func TestCache_ResolvesStoredImage(t *testing.T) {
	src := &mockSource{}
	src.On("GetImage", mock.Anything, "img:1").Return(pngBytes(t, 64, 40), nil).Once()
	c, ready := newCache(t, src)

	_, ok := c.Resolve("img:1")
	assert.False(t, ok, "first resolve only starts the load")

	require.Eventually(t, func() bool { return ready.Load() == 1 }, time.Second, 5*time.Millisecond)
	img, ok := c.Resolve("img:1")
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	src.AssertExpectations(t)
}

func TestCache_ResolvesPresetWithoutSource(t *testing.T) {
	c, ready := newCache(t, &mockSource{})
	_, ok := c.Resolve(PresetRef("legs"))
	assert.False(t, ok)
	require.Eventually(t, func() bool { return ready.Load() == 1 }, time.Second, 5*time.Millisecond)

	img, ok := c.Resolve(PresetRef("legs"))
	require.True(t, ok)
	assert.Equal(t, 32, img.Bounds().Dx())
}

func TestCache_FailureBacksOff(t *testing.T) {
	src := &mockSource{}
	src.On("GetImage", mock.Anything, "img:bad").Return(nil, errors.New("gone"))
	c, ready := newCache(t, src)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }
	c.after = func(time.Duration, func()) {}

	isFailed := func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.entries["img:bad"].state == failed
	}

	c.Resolve("img:bad")
	require.Eventually(t, isFailed, time.Second, 5*time.Millisecond)

	_, ok := c.Resolve("img:bad")
	assert.False(t, ok)
	src.AssertNumberOfCalls(t, "GetImage", 1)

	now = now.Add(retryAfter)
	c.Resolve("img:bad")
	require.Eventually(t, isFailed, time.Second, 5*time.Millisecond)
	src.AssertNumberOfCalls(t, "GetImage", 2)
	assert.Zero(t, ready.Load(), "a failure does not repaint before the back-off")
}

func TestCache_FailureSchedulesRetryPaint(t *testing.T) {
	src := &mockSource{}
	src.On("GetImage", mock.Anything, "img:bad").Return(nil, errors.New("gone"))
	c, ready := newCache(t, src)

	type timer struct {
		d time.Duration
		f func()
	}
	timers := make(chan timer, 1)
	c.after = func(d time.Duration, f func()) { timers <- timer{d, f} }

	c.Resolve("img:bad")
	var tm timer
	select {
	case tm = <-timers:
	case <-time.After(time.Second):
		t.Fatal("no repaint scheduled after a failed load")
	}
	assert.Equal(t, retryAfter, tm.d)
	assert.Zero(t, ready.Load())

	tm.f()
	assert.Equal(t, int32(1), ready.Load(), "the timer wakes the board so the next paint retries")
}

func TestCache_NoRetryPaintAfterShutdown(t *testing.T) {
	src := &mockSource{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var scheduled atomic.Bool
	c := NewCache(ctx, src, 32, log.New(io.Discard), func() {})
	c.after = func(time.Duration, func()) { scheduled.Store(true) }
	for range cap(c.slots) {
		c.slots <- struct{}{}
	}

	c.Resolve("img:1")
	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.entries["img:1"].state == failed
	}, time.Second, 5*time.Millisecond)
	assert.False(t, scheduled.Load())
	src.AssertNotCalled(t, "GetImage", mock.Anything, mock.Anything)
}

func TestCache_EmptyRefAndForget(t *testing.T) {
	c, ready := newCache(t, &mockSource{})
	_, ok := c.Resolve("")
	assert.False(t, ok)
	assert.Zero(t, c.Len())

	c.Resolve(PresetRef("biceps"))
	require.Eventually(t, func() bool { return ready.Load() == 1 }, time.Second, 5*time.Millisecond)
	c.Forget(PresetRef("biceps"))
	assert.Zero(t, c.Len())
}

func TestThumbnail_CropsCenter(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 40, 20)) // 30x10, center is x 20..30
	for x := 10; x < 40; x++ {
		for y := 10; y < 20; y++ {
			c := color.RGBA{B: 255, A: 255}
			if x >= 20 && x < 30 {
				c = color.RGBA{G: 255, A: 255}
			}
			src.Set(x, y, c)
		}
	}
	th := Thumbnail(src, 8)
	assert.Equal(t, image.Rect(0, 0, 8, 8), th.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, th.RGBAAt(4, 4))
}

func TestPreset(t *testing.T) {
	assert.Equal(t, []string{"biceps", "pullups", "dumbbells", "legs"}, PresetKeys())
	assert.True(t, IsPreset("preset:pullups"))
	assert.False(t, IsPreset("preset:yoga"))
	assert.False(t, IsPreset("img:pullups"))

	img, ok := Preset("preset:dumbbells", 40)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 40, 40), img.Bounds())
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, [3]uint32{0xFFFF, 0xFFFF, 0xFFFF}, [3]uint32{r, g, b}, "white border")

	_, ok = Preset("preset:dumbbells", 0)
	assert.False(t, ok)
}
