package profiler

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Span is one timed scope inside a frame. Times are offsets from the recorder's epoch.
type Span struct {
	Name       string
	Depth      int
	Start, End time.Duration
}

// Frame holds the scopes recorded between BeginFrame and its end func.
type Frame struct {
	Index      uint64
	Start, End time.Duration
	Spans      []Span
}

// Recorder keeps the spans of the last N frames that recorded anything. Frames without
// spans give their slot back, so idle ticks never push real frames out.
type Recorder struct {
	mu    sync.Mutex
	epoch time.Time
	now   func() time.Time
	ring  []Frame
	// frames kept so far; the next one goes to slot count % len(ring)
	count uint64
	cur   *Frame
	gen   uint64
	depth int
}

func NewRecorder(frames int) *Recorder {
	if frames <= 0 {
		frames = 240
	}
	r := &Recorder{now: time.Now, ring: make([]Frame, frames)}
	r.epoch = r.now()
	return r
}

func (r *Recorder) since() time.Duration { return r.now().Sub(r.epoch) }

// BeginFrame opens the next frame; an unfinished previous frame is closed first.
func (r *Recorder) BeginFrame() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
	f := &r.ring[r.count%uint64(len(r.ring))]
	*f = Frame{Index: r.count, Start: r.since(), Spans: f.Spans[:0]}
	r.cur, r.depth = f, 0
	r.gen++
	gen := r.gen
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.cur != nil && r.gen == gen {
			r.closeLocked()
		}
	}
}

func (r *Recorder) closeLocked() {
	f := r.cur
	if f == nil {
		return
	}
	r.cur = nil
	if len(f.Spans) == 0 {
		return
	}
	f.End = r.since()
	for i := range f.Spans {
		if f.Spans[i].End == 0 {
			f.Spans[i].End = f.End
		}
	}
	r.count++
}

// Start opens a scope in the current frame and returns its end func. Outside a frame it
// records nothing. Scopes must end in reverse order of starting.
func (r *Recorder) Start(name string) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.cur
	if f == nil {
		return func() {}
	}
	i := len(f.Spans)
	f.Spans = append(f.Spans, Span{Name: name, Depth: r.depth, Start: r.since()})
	r.depth++
	gen := r.gen
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.cur == nil || r.gen != gen {
			return
		}
		f.Spans[i].End = max(f.Spans[i].Start, r.since())
		r.depth--
	}
}

// Frames returns copies of the kept frames, oldest first.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(r.count, uint64(len(r.ring)))
	out := make([]Frame, 0, n)
	for k := r.count - n; k < r.count; k++ {
		f := r.ring[k%uint64(len(r.ring))]
		f.Spans = slices.Clone(f.Spans)
		out = append(out, f)
	}
	return out
}

// StageStat summarizes one scope name over a set of frames.
type StageStat struct {
	Name       string
	Calls      int
	Total, Max time.Duration
}

func (s StageStat) Mean() time.Duration {
	if s.Calls == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Calls)
}

// Stages groups the spans of frames by name, largest total first.
func Stages(frames []Frame) []StageStat {
	at := map[string]int{}
	var out []StageStat
	for _, f := range frames {
		for _, s := range f.Spans {
			i, ok := at[s.Name]
			if !ok {
				i = len(out)
				at[s.Name] = i
				out = append(out, StageStat{Name: s.Name})
			}
			d := s.End - s.Start
			out[i].Calls++
			out[i].Total += d
			out[i].Max = max(out[i].Max, d)
		}
	}
	slices.SortStableFunc(out, func(a, b StageStat) int { return cmp.Compare(b.Total, a.Total) })
	return out
}
