// Package layout turns the selected week, the viewport and the scroll offset into pixel
// geometry. It is recomputed from scratch every frame and never mutates its input.
package layout

import (
	"math"

	"github.com/hubastard/gymblocks/engine/ui"
	"github.com/hubastard/gymblocks/planner/model"
)

type Input struct {
	Week     *model.Week
	Weeks    int // tab count
	Viewport ui.Rect
	ScrollY  float32
}

type BlockGeom struct {
	Card   ui.Rect
	Handle ui.Rect
	Thumb  ui.Rect
	Upload ui.Rect
	Preset ui.Rect
	Edit   ui.Rect
	Copy   ui.Rect
	Delete ui.Rect
	Sets   []ui.Rect

	TextX, TextY float32 // top-left of the name line
}

type DayGeom struct {
	Section  ui.Rect
	Header   ui.Rect
	Progress ui.Rect
	Blocks   []BlockGeom
	AddBlock ui.Rect

	// Drop is the part of the section that accepts a dropped block, already clipped.
	Drop ui.Rect
	// ListBase is the content-space offset of the first block slot; ListTop is the same
	// point on screen.
	ListBase float32
	ListTop  float32
}

type Geometry struct {
	Viewport    ui.Rect
	Header      ui.Rect
	ThemeButton ui.Rect
	TabRow      ui.Rect
	Tabs        []ui.Rect
	AddWeek     ui.Rect
	Clip        ui.Rect

	ContentHeight float32
	MaxScroll     float32
	ScrollY       float32
	BlockPitch    float32

	Days [model.DaysPerWeek]DayGeom
}

// ContentHeight is the total scrollable height of week.
func ContentHeight(week *model.Week, m Metrics) float32 {
	var h float32
	for d := range week.Days {
		h += m.SectionHeight(len(week.Days[d].Blocks))
	}
	return h
}

// ClipRect is the scrollable region below the header and the week tabs.
func ClipRect(viewport ui.Rect, m Metrics) ui.Rect {
	top := viewport.Y + m.HeaderH + m.TabsH
	return ui.R(viewport.X, top, viewport.W, max(0, viewport.Bottom()-top))
}

// MaxScroll is max(0, content height - clip height).
func MaxScroll(week *model.Week, viewport ui.Rect, m Metrics) float32 {
	return max(0, ContentHeight(week, m)-ClipRect(viewport, m).H)
}

func Compute(in Input, m Metrics) Geometry {
	vp := in.Viewport
	g := Geometry{
		Viewport:   vp,
		Clip:       ClipRect(vp, m),
		ScrollY:    in.ScrollY,
		BlockPitch: m.BlockPitch(),
	}
	g.ContentHeight = ContentHeight(in.Week, m)
	g.MaxScroll = max(0, g.ContentHeight-g.Clip.H)

	g.Header = ui.R(vp.X, vp.Y, vp.W, m.HeaderH)
	g.ThemeButton = ui.R(vp.Right()-m.ThemeBtnW-2*m.SidePad, vp.Y+(m.HeaderH-m.BtnH)/2, m.ThemeBtnW, m.BtnH)

	tabTop := vp.Y + m.HeaderH
	g.TabRow = ui.R(vp.X, tabTop, vp.W, m.TabsH)
	g.AddWeek = ui.R(vp.Right()-m.AddWeekBtnW-m.SidePad, tabTop+(m.TabsH-m.BtnH)/2, m.AddWeekBtnW, m.BtnH)
	g.Tabs = tabs(in.Weeks, vp, tabTop, g.AddWeek.X, m)

	listX := vp.X + m.SidePad
	innerW := max(0, vp.W-2*m.SidePad)
	yBase := g.Clip.Y - in.ScrollY
	var offset float32
	for d := range in.Week.Days {
		blocks := in.Week.Days[d].Blocks
		g.Days[d] = daySection(blocks, listX, innerW, yBase, offset, g.Clip, m)
		offset += m.SectionHeight(len(blocks))
	}
	return g
}

func tabs(n int, vp ui.Rect, top, limit float32, m Metrics) []ui.Rect {
	if n <= 0 {
		return nil
	}
	avail := max(0, limit-m.Gap-(vp.X+m.SidePad))
	tabW := min(m.MaxTabW, avail/float32(max(3, n)))
	out := make([]ui.Rect, n)
	x := vp.X + m.SidePad
	for i := range out {
		out[i] = ui.R(x, top+m.Gap/2, max(0, tabW-m.Gap), m.TabsH-m.Gap)
		x += tabW
	}
	return out
}

func daySection(blocks []model.Block, listX, innerW, yBase, offset float32, clip ui.Rect, m Metrics) DayGeom {
	sectionY := yBase + offset
	dg := DayGeom{
		Section:  ui.R(listX, sectionY, innerW, m.SectionHeight(len(blocks))),
		Header:   ui.R(listX, sectionY+m.Gap, innerW, m.DayTitleH),
		ListBase: offset + m.DayTitleH + m.Gap,
	}
	dg.ListTop = yBase + dg.ListBase
	dg.Progress = ui.R(
		listX+innerW-m.ProgressW-m.Px(16),
		dg.Header.Y+(m.DayTitleH-m.ProgressH)/2,
		m.ProgressW, m.ProgressH,
	)
	dg.Drop = dg.Section.Intersect(clip)

	y := dg.ListTop
	dg.Blocks = make([]BlockGeom, len(blocks))
	for i := range dg.Blocks {
		dg.Blocks[i] = blockGeom(listX, y, innerW, blocks[i].Sets, m)
		y += m.BlockPitch()
	}
	dg.AddBlock = ui.R(listX, y, innerW, m.AddBtnH)
	return dg
}

func blockGeom(x, y, w float32, sets int, m Metrics) BlockGeom {
	bg := BlockGeom{
		Card:   ui.R(x, y, w, m.BlockH),
		Handle: ui.R(x, y, m.HandleW, m.BlockH),
	}
	bg.Thumb = ui.R(x+m.HandleW+m.Px(12), y+(m.BlockH-m.Thumb)/2, m.Thumb, m.Thumb)
	bg.Upload = ui.R(bg.Thumb.Right()+m.Px(10), bg.Thumb.Y, m.ImgBtnW, m.ImgBtnH)
	bg.Preset = ui.R(bg.Upload.X, bg.Upload.Bottom()+m.Px(8), m.ImgBtnW, m.ImgBtnH)

	right := x + w - m.Px(10)
	bg.Delete = ui.R(right-m.ActionW, y+m.BlockH-m.ActionH-m.Px(12), m.ActionW, m.ActionH)
	bg.Edit = ui.R(bg.Delete.X, y+m.Px(12), m.ActionW, m.ActionH)
	bg.Copy = ui.R(bg.Edit.X-m.ActionW-m.Px(8), bg.Edit.Y, m.ActionW, m.ActionH)

	bg.TextX = bg.Upload.Right() + m.Px(12)
	bg.TextY = y + m.Px(14)

	top := bg.Card.Bottom() - m.Px(38)
	bg.Sets = make([]ui.Rect, max(0, sets))
	for s := range bg.Sets {
		bg.Sets[s] = ui.R(bg.TextX+float32(s)*m.SetPitch, top, m.SetBox, m.SetBox)
	}
	return bg
}

// DropAt finds the day whose drop area contains (x, y) and the unclamped slot index
// under the pointer, measured from that day's first block slot.
func (g *Geometry) DropAt(x, y float32) (day, index int, ok bool) {
	for d := range g.Days {
		if dr := g.Days[d].Drop; dr.Empty() || !dr.Contains(x, y) {
			continue
		}
		rel := y - g.Days[d].ListTop
		return d, int(math.Floor(float64(rel / g.BlockPitch))), true
	}
	return 0, 0, false
}

// Ghost is the rect of the floating drag ghost whose top edge is at y.
func (g *Geometry) Ghost(y float32, m Metrics) ui.Rect {
	s := g.Days[0].Section
	return ui.R(s.X, y, s.W, m.BlockH)
}
