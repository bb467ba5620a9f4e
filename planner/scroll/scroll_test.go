package scroll

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModel_Clamps(t *testing.T) {
	tests := []struct {
		name          string
		content, view float32
		to            float32
		want          float32
	}{
		{"inside", 1000, 400, 250, 250},
		{"past the end", 1000, 400, 900, 600},
		{"negative", 1000, 400, -30, 0},
		{"content fits", 300, 400, 50, 0},
		{"nan", 1000, 400, float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Model
			m.SetExtent(tt.content, tt.view)
			m.ScrollTo(tt.to)
			assert.Equal(t, tt.want, m.Offset())
			assert.GreaterOrEqual(t, m.Offset(), float32(0))
			assert.LessOrEqual(t, m.Offset(), m.Max())
		})
	}
}

func TestModel_ReclampsOnExtentChange(t *testing.T) {
	var m Model
	m.SetExtent(2000, 500)
	assert.True(t, m.ScrollTo(1400))

	m.SetExtent(900, 500) // content shrank
	assert.Equal(t, float32(400), m.Offset())

	m.SetExtent(900, 1200) // window grew
	assert.Zero(t, m.Offset())
	assert.Zero(t, m.Max())
}

func TestModel_ScrollByReportsChange(t *testing.T) {
	var m Model
	m.SetExtent(1000, 400)
	assert.True(t, m.ScrollBy(40))
	assert.True(t, m.ScrollBy(-100))
	assert.Zero(t, m.Offset())
	assert.False(t, m.ScrollBy(-1), "already at the top")
}
