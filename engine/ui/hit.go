package ui

// ===== Per-frame hit regions =====
//
// Immediate mode: nothing survives between frames. BeginFrame drops last
// frame's regions, the paint pass registers new ones in draw order, and
// queries only ever see the current list. Later registrations are drawn on
// top, so QueryTopmost walks the list backwards; there is no z-index.

// Region is one interactive rectangle recorded during a frame.
type Region[T any] struct {
	Rect   Rect // clipped; what hit-testing uses
	Bounds Rect // as registered, before clipping
	Tag    T
}

type HitRegistry[T any] struct {
	regions []Region[T]
	clips   []Rect
}

// NewHitRegistry preallocates room for capacity regions; it still grows if needed.
func NewHitRegistry[T any](capacity int) *HitRegistry[T] {
	return &HitRegistry[T]{
		regions: make([]Region[T], 0, capacity),
		clips:   make([]Rect, 0, 4),
	}
}

// BeginFrame resets the registry. No heap allocations after warm-up.
func (h *HitRegistry[T]) BeginFrame() {
	h.regions = h.regions[:0]
	h.clips = h.clips[:0]
}

// PushClip restricts subsequent registrations to r (intersected with any outer clip).
func (h *HitRegistry[T]) PushClip(r Rect) {
	if n := len(h.clips); n > 0 {
		r = h.clips[n-1].Intersect(r)
	}
	h.clips = append(h.clips, r)
}

func (h *HitRegistry[T]) PopClip() {
	if len(h.clips) > 0 {
		h.clips = h.clips[:len(h.clips)-1]
	}
}

// Register appends a region. Regions fully outside the active clip are dropped.
func (h *HitRegistry[T]) Register(r Rect, tag T) {
	hit := r
	if n := len(h.clips); n > 0 {
		hit = h.clips[n-1].Intersect(r)
		if hit.Empty() {
			return
		}
	}
	h.regions = append(h.regions, Region[T]{Rect: hit, Bounds: r, Tag: tag})
}

// QueryTopmost returns the last-registered region containing (x, y).
func (h *HitRegistry[T]) QueryTopmost(x, y float32) (Region[T], bool) {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return h.regions[i], true
		}
	}
	var zero Region[T]
	return zero, false
}

func (h *HitRegistry[T]) Len() int { return len(h.regions) }

// Regions exposes the current frame's list in registration order. Read-only.
func (h *HitRegistry[T]) Regions() []Region[T] { return h.regions }
