package render

import "github.com/hubastard/gymblocks/engine/colors"

type Theme struct {
	Name    string
	Bg1     colors.Color // gradient top, panels
	Bg2     colors.Color // gradient bottom
	Accent  colors.Color
	Accent2 colors.Color
	Text    colors.Color
}

var Themes = []Theme{
	{
		Name:    "Neon",
		Bg1:     colors.MustHex("#0b0d10"),
		Bg2:     colors.MustHex("#101F3D"),
		Accent:  colors.MustHex("#6CFFB8"),
		Accent2: colors.MustHex("#6CE5FF"),
		Text:    colors.MustHex("#EAF2F7"),
	},
	{
		Name:    "Sunset",
		Bg1:     colors.MustHex("#301934"),
		Bg2:     colors.MustHex("#FF5F6D"),
		Accent:  colors.MustHex("#FFC371"),
		Accent2: colors.MustHex("#FFE29A"),
		Text:    colors.MustHex("#fff"),
	},
	{
		Name:    "Forest",
		Bg1:     colors.MustHex("#0b2b26"),
		Bg2:     colors.MustHex("#0b8457"),
		Accent:  colors.MustHex("#22d1a9"),
		Accent2: colors.MustHex("#6ef3d6"),
		Text:    colors.MustHex("#eafff7"),
	},
}

// ThemeAt returns Themes[i], falling back to the first theme.
func ThemeAt(i int) Theme {
	if i < 0 || i >= len(Themes) {
		return Themes[0]
	}
	return Themes[i]
}

// Palette alphas, as fractions of 0xFF.
const (
	aPanel = float32(0xAA) / 255
	aCard  = float32(0xEE) / 255
	aShade = float32(0x20) / 255
	aDots  = float32(0x66) / 255
	aTrack = float32(0x55) / 255
	aGhost = 0.8
)
