// Package text rasterizes a TrueType face into a glyph atlas and draws strings through
// the 2D renderer.
package text

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/gymblocks/engine/core"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
)

type Glyph struct {
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to glyph top
	W, H     int
	Sub      renderer2d.SubTexture2D
}

// Font is a glyph atlas rasterized at SizePx. Drawing at another size scales the quads.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Texture                  core.Texture
	AtlasW, AtlasH           int
	kern                     map[[2]rune]float32
}

// LineHeight is the baseline-to-baseline distance at the atlas size.
func (f *Font) LineHeight() float32 { return f.Ascent - f.Descent + f.LineGap }

const (
	padding  = 2
	maxAtlas = 4096
)

// LoadDefault builds the Go Regular atlas, or Go Bold when bold is set.
func LoadDefault(r core.Renderer, sizePx float32, bold bool) (*Font, error) {
	data := goregular.TTF
	if bold {
		data = gobold.TTF
	}
	return LoadTTF(r, data, sizePx)
}

// LoadTTF rasterizes Latin-1 into a white RGBA atlas (alpha coverage) and uploads it.
func LoadTTF(r core.Renderer, ttf []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	var measure []meas
	for rr := rune(32); rr <= 255; rr++ {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r:   rr,
			w:   (br.Max.X - br.Min.X).Ceil(),
			h:   (br.Max.Y - br.Min.Y).Ceil(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Floor()),
			by:  float32(-br.Min.Y.Floor()),
		})
	}
	// "•" is used in summaries
	if br, adv, ok := face.GlyphBounds('•'); ok {
		measure = append(measure, meas{
			r: '•', w: (br.Max.X - br.Min.X).Ceil(), h: (br.Max.Y - br.Min.Y).Ceil(),
			adv: float32(adv.Round()), bx: float32(br.Min.X.Floor()), by: float32(-br.Min.Y.Floor()),
		})
	}

	// Shelf packer; grow the square atlas until everything fits.
	atlasSize := 256
	var pos map[rune]image.Point
	for {
		x, y, rowH := padding, padding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))
		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if x+g.w+padding > atlasSize {
				x = padding
				y += rowH + padding
				rowH = 0
			}
			if g.w+2*padding > atlasSize || y+g.h+padding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + padding
			rowH = max(rowH, g.h)
		}
		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > maxAtlas {
			return nil, fmt.Errorf("font atlas too large (>%d)", maxAtlas)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	for _, g := range measure {
		if p, ok := pos[g.r]; ok {
			// the drawer's dot sits on the baseline
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))
		}
	}
	// straight alpha: white texels, coverage in alpha; the color comes from the tint
	for i := 0; i < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] != 0 {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = 0xFF, 0xFF, 0xFF
		}
	}

	tex, err := r.CreateTexture(core.TextureDesc{
		Width: atlasSize, Height: atlasSize,
		Format:    core.TextureRGBA8,
		Pixels:    dst.Pix,
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}

	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gg := Glyph{Advance: g.adv, BearingX: g.bx, BearingY: g.by, W: g.w, H: g.h}
		if p, ok := pos[g.r]; ok {
			gg.Sub = renderer2d.FromPixels(tex, p.X, p.Y, g.w, g.h, atlasSize, atlasSize)
		}
		glyphs[g.r] = gg
	}

	kern := make(map[[2]rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				kern[[2]rune{a.r, b.r}] = float32(dx) / 64
			}
		}
	}

	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Texture: tex,
		AtlasW:  atlasSize, AtlasH: atlasSize,
		kern:    kern,
	}, nil
}
