package colors

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is straight (non-premultiplied) RGBA in [0..1].
type Color [4]float32

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{0, 0, 0, 0}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
	Amber       = Color{1, 0.82, 0.4, 1} // drag ghost fill
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Lerp blends from c to o by t in [0..1].
func (c Color) Lerp(o Color, t float32) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return o
	}
	var out Color
	for i := range c {
		out[i] = c[i] + (o[i]-c[i])*t
	}
	return out
}

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func Hex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("colors: bad hex %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("colors: bad hex %q: %w", s, err)
	}
	return Color{
		float32(v>>24&0xff) / 255,
		float32(v>>16&0xff) / 255,
		float32(v>>8&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// MustHex is Hex for package-level palettes.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
