package images

import (
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PresetPrefix marks refs to generated icons.
const PresetPrefix = "preset:"

type presetIcon struct {
	Key   string
	Label string
	Tint  color.RGBA
}

var presetIcons = []presetIcon{
	{Key: "biceps", Label: "BI", Tint: color.RGBA{0xFF, 0x8A, 0x65, 0xFF}},
	{Key: "pullups", Label: "PU", Tint: color.RGBA{0x4F, 0xC3, 0xF7, 0xFF}},
	{Key: "dumbbells", Label: "DB", Tint: color.RGBA{0x81, 0xC7, 0x84, 0xFF}},
	{Key: "legs", Label: "LG", Tint: color.RGBA{0xBA, 0x68, 0xC8, 0xFF}},
}

// PresetKeys lists the icon keys in display order.
func PresetKeys() []string {
	keys := make([]string, len(presetIcons))
	for i, p := range presetIcons {
		keys[i] = p.Key
	}
	return keys
}

// PresetRef returns the image ref for an icon key.
func PresetRef(key string) string { return PresetPrefix + key }

// IsPreset reports whether ref names a known icon.
func IsPreset(ref string) bool {
	_, ok := lookupPreset(ref)
	return ok
}

func lookupPreset(ref string) (presetIcon, bool) {
	key, ok := strings.CutPrefix(ref, PresetPrefix)
	if !ok {
		return presetIcon{}, false
	}
	for _, p := range presetIcons {
		if p.Key == key {
			return p, true
		}
	}
	return presetIcon{}, false
}

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

// Preset draws the icon for ref as a size x size image: a tinted tile on white with a
// two-letter label.
func Preset(ref string, size int) (image.Image, bool) {
	p, ok := lookupPreset(ref)
	if !ok || size <= 0 {
		return nil, false
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	inset := size / 8
	draw.Draw(dst, image.Rect(inset, inset, size-inset, size-inset), image.NewUniform(p.Tint), image.Point{}, draw.Src)

	boldOnce.Do(func() { boldFont, boldErr = opentype.Parse(gobold.TTF) })
	if boldErr != nil {
		return dst, true
	}
	face, err := opentype.NewFace(boldFont, &opentype.FaceOptions{Size: float64(size) * 0.36, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return dst, true
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.Black, Face: face}
	w := d.MeasureString(p.Label)
	m := face.Metrics()
	x := (fixed.I(size) - w) / 2
	y := (fixed.I(size) + m.Ascent - m.Descent) / 2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(p.Label)
	return dst, true
}
