package profiler

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime(t *testing.T) {
	s := Runtime()
	assert.Positive(t, s.Goroutines)
	assert.Positive(t, s.CPUs)
	assert.Positive(t, s.HeapAlloc)
}

func TestStartBeforeInitIsHarmless(t *testing.T) {
	end := Start("scope")
	assert.NotPanics(t, func() { end() })
	assert.NotPanics(t, func() { BeginFrame()() })
}

// fakeRecorder returns a recorder on a manual clock and the func that advances it.
func fakeRecorder(frames int) (*Recorder, func(time.Duration)) {
	r := NewRecorder(frames)
	now := time.Unix(100, 0)
	r.epoch, r.now = now, func() time.Time { return now }
	return r, func(d time.Duration) { now = now.Add(d) }
}

// paint records one frame: layout (1ms), then paint (3ms) with a nested hit-test (1ms).
func paint(r *Recorder, tick func(time.Duration)) {
	endFrame := r.BeginFrame()
	end := r.Start("layout")
	tick(time.Millisecond)
	end()
	endPaint := r.Start("paint")
	tick(time.Millisecond)
	endHit := r.Start("hit-test")
	tick(time.Millisecond)
	endHit()
	tick(time.Millisecond)
	endPaint()
	endFrame()
}

func TestRecorder_RecordsNestedSpans(t *testing.T) {
	r, tick := fakeRecorder(8)
	paint(r, tick)

	frames := r.Frames()
	require.Len(t, frames, 1)
	f := frames[0]
	assert.Equal(t, uint64(0), f.Index)
	assert.Equal(t, 4*time.Millisecond, f.End-f.Start)
	assert.Equal(t, []Span{
		{Name: "layout", Depth: 0, Start: 0, End: time.Millisecond},
		{Name: "paint", Depth: 0, Start: time.Millisecond, End: 4 * time.Millisecond},
		{Name: "hit-test", Depth: 1, Start: 2 * time.Millisecond, End: 3 * time.Millisecond},
	}, f.Spans)
}

func TestRecorder_EmptyFramesGiveTheirSlotBack(t *testing.T) {
	r, tick := fakeRecorder(4)
	for range 10 {
		r.BeginFrame()()
	}
	assert.Empty(t, r.Frames())

	paint(r, tick)
	r.BeginFrame()()
	paint(r, tick)
	frames := r.Frames()
	require.Len(t, frames, 2)
	assert.Equal(t, uint64(0), frames[0].Index)
	assert.Equal(t, uint64(1), frames[1].Index)
}

func TestRecorder_KeepsLastFrames(t *testing.T) {
	r, tick := fakeRecorder(3)
	for range 5 {
		paint(r, tick)
	}
	frames := r.Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, []uint64{2, 3, 4}, []uint64{frames[0].Index, frames[1].Index, frames[2].Index})
	for _, f := range frames {
		assert.Len(t, f.Spans, 3, "frame %d reuses its slot without leaking spans", f.Index)
	}
}

func TestRecorder_ScopesOutsideAFrame(t *testing.T) {
	r, tick := fakeRecorder(4)
	r.Start("hit-test")()
	assert.Empty(t, r.Frames())

	// a scope still open when the frame ends is cut at the frame's end
	endFrame := r.BeginFrame()
	late := r.Start("paint")
	tick(2 * time.Millisecond)
	endFrame()
	tick(time.Millisecond)
	late()

	frames := r.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, 2*time.Millisecond, frames[0].Spans[0].End)
}

func TestStages(t *testing.T) {
	r, tick := fakeRecorder(8)
	paint(r, tick)
	paint(r, tick)

	stages := Stages(r.Frames())
	require.Len(t, stages, 3)
	assert.Equal(t, "paint", stages[0].Name, "largest total first")
	assert.Equal(t, 2, stages[0].Calls)
	assert.Equal(t, 3*time.Millisecond, stages[0].Mean())
	assert.Equal(t, 3*time.Millisecond, stages[0].Max)
	assert.Equal(t, time.Duration(0), StageStat{}.Mean())
}

func TestWriteSpeedscope(t *testing.T) {
	r, tick := fakeRecorder(8)
	paint(r, tick)
	paint(r, tick)

	var buf bytes.Buffer
	require.NoError(t, WriteSpeedscope(&buf, r.Frames()))

	var doc ssFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []ssFrame{{"layout"}, {"paint"}, {"hit-test"}}, doc.Shared.Frames)
	require.Len(t, doc.Profiles, 2)
	assert.Equal(t, "frame 1", doc.Profiles[1].Name)
	assert.Equal(t, int64(4000), doc.Profiles[1].StartValue)
	assert.Equal(t, []ssEvent{
		{"O", 0, 0}, {"C", 1000, 0},
		{"O", 1000, 1}, {"O", 2000, 2}, {"C", 3000, 2}, {"C", 4000, 1},
	}, doc.Profiles[0].Events)

	assert.ErrorIs(t, WriteSpeedscope(&buf, nil), errNoFrames)
}
