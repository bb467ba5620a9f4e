// Package scroll keeps the vertical scroll offset inside [0, max].
package scroll

// Model is a one-axis scroll offset with its extent.
type Model struct {
	offset  float32
	content float32
	view    float32
}

// SetExtent records the content and viewport heights and re-clamps the offset.
func (m *Model) SetExtent(content, view float32) {
	m.content, m.view = content, view
	m.clamp()
}

// Max is max(0, content - view).
func (m *Model) Max() float32 { return max(0, m.content-m.view) }

func (m *Model) Offset() float32 { return m.offset }

// ScrollTo sets the offset, clamped; it reports whether the offset changed.
func (m *Model) ScrollTo(y float32) bool {
	prev := m.offset
	m.offset = y
	m.clamp()
	return m.offset != prev
}

func (m *Model) ScrollBy(dy float32) bool { return m.ScrollTo(m.offset + dy) }

func (m *Model) clamp() {
	if m.offset > m.Max() {
		m.offset = m.Max()
	}
	if m.offset < 0 || m.offset != m.offset { // NaN
		m.offset = 0
	}
}
