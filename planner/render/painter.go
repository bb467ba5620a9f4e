package render

import (
	"fmt"

	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/ui"
	"github.com/hubastard/gymblocks/planner/hit"
	"github.com/hubastard/gymblocks/planner/layout"
	"github.com/hubastard/gymblocks/planner/model"
)

const gradientBands = 24

// Scene is everything one frame paints.
type Scene struct {
	Plan     *model.Plan
	View     model.ViewState
	Geometry *layout.Geometry
	Metrics  layout.Metrics
	PointerY float32 // drives the drag ghost
	Thumbs   Thumbnails
	Toast    string
}

type Painter struct {
	Title string // header caption; "Gym Planner" when empty
}

// Paint draws s and rebuilds reg from scratch.
func (p *Painter) Paint(c Canvas, s *Scene, reg *hit.Registry) {
	reg.BeginFrame()
	th := ThemeAt(s.View.Theme)
	g, m := s.Geometry, s.Metrics

	p.background(c, g.Viewport, th)
	p.header(c, s, th, reg)
	p.tabs(c, s, th, reg)

	c.PushClip(g.Clip)
	reg.PushClip(g.Clip)
	week := &s.Plan.Weeks[s.View.Week]
	for d := range week.Days {
		dg := &g.Days[d]
		if !dg.Section.Overlaps(g.Clip) {
			continue
		}
		p.day(c, s, th, d, &week.Days[d], dg, reg)
	}
	reg.PopClip()
	c.PopClip()

	if s.View.Drag != nil {
		p.ghost(c, s.View.Drag, g.Ghost(s.PointerY-s.View.Drag.YOffset, m), m)
	}
	if s.Toast != "" {
		p.toast(c, s.Toast, g, th, m)
	}
}

func (p *Painter) background(c Canvas, vp ui.Rect, th Theme) {
	band := vp.H / gradientBands
	for i := range gradientBands {
		t := float32(i) / (gradientBands - 1)
		// overlap by a pixel so bands never leave seams
		c.FillRect(ui.R(vp.X, vp.Y+float32(i)*band, vp.W, band+1), th.Bg1.Lerp(th.Bg2, t))
	}
}

func (p *Painter) header(c Canvas, s *Scene, th Theme, reg *hit.Registry) {
	g, m := s.Geometry, s.Metrics
	panel := ui.R(g.Header.X+m.SidePad, g.Header.Y+m.SidePad, g.Header.W-2*m.SidePad, g.Header.H-2*m.SidePad)
	c.FillRoundRect(panel, m.Px(18), th.Bg1.WithAlpha(aPanel))

	title := p.Title
	if title == "" {
		title = "Gym Planner"
	}
	size := m.Px(28)
	_, h := c.MeasureText(title, size)
	c.Text(title, g.Header.X+2*m.SidePad, g.Header.Y+(g.Header.H-h)/2, size, th.Text)

	button(c, g.ThemeButton, "Theme: "+th.Name, m.Px(16), m.Px(22), th.Accent, colors.Black)
	reg.Register(g.ThemeButton, hit.Payload{Kind: hit.KindTheme})
}

func (p *Painter) tabs(c Canvas, s *Scene, th Theme, reg *hit.Registry) {
	g, m := s.Geometry, s.Metrics
	for i, r := range g.Tabs {
		fill, ink := th.Accent.WithAlpha(aPanel), th.Text
		if i == s.View.Week {
			fill, ink = th.Accent2, colors.Black
		}
		button(c, r, s.Plan.Weeks[i].Name, m.Px(16), m.Px(20), fill, ink)
		reg.Register(r, hit.Payload{Kind: hit.KindTab, Week: i})
	}
	button(c, g.AddWeek, "+ Week", m.Px(16), m.Px(22), th.Accent, colors.Black)
	reg.Register(g.AddWeek, hit.Payload{Kind: hit.KindAddWeek})
}

func (p *Painter) day(c Canvas, s *Scene, th Theme, d int, day *model.Day, dg *layout.DayGeom, reg *hit.Registry) {
	m, week := s.Metrics, s.View.Week

	c.FillRoundRect(dg.Header, m.Px(14), th.Bg1.WithAlpha(aPanel))
	size := m.Px(22)
	_, h := c.MeasureText(day.Name, size)
	c.Text(day.Name, dg.Header.X+m.Px(16), dg.Header.Y+(dg.Header.H-h)/2, size, th.Text)

	c.FillRoundRect(dg.Progress, m.Px(6), colors.Black.WithAlpha(aTrack))
	if prog := day.Progress(); prog > 0 {
		bar := dg.Progress
		bar.W *= prog
		c.FillRoundRect(bar, m.Px(6), th.Accent2)
	}

	for i := range day.Blocks {
		if drag := s.View.Drag; drag != nil && drag.From == (model.Location{Week: week, Day: d, Index: i}) {
			continue
		}
		bg := &dg.Blocks[i]
		if !bg.Card.Overlaps(s.Geometry.Clip) {
			continue
		}
		p.block(c, s, th, model.Location{Week: week, Day: d, Index: i}, &day.Blocks[i], bg, reg)
	}

	button(c, dg.AddBlock, "+ Add exercise block", m.Px(16), m.Px(22), th.Accent2, colors.Black)
	reg.Register(dg.AddBlock, hit.Payload{Kind: hit.KindAddBlock, Week: week, Day: d})
}

func (p *Painter) block(c Canvas, s *Scene, th Theme, at model.Location, b *model.Block, bg *layout.BlockGeom, reg *hit.Registry) {
	m := s.Metrics
	tag := func(k hit.Kind) hit.Payload {
		return hit.Payload{Kind: k, Week: at.Week, Day: at.Day, Block: at.Index, BlockID: b.ID}
	}

	c.FillRoundRect(bg.Card, m.Px(18), th.Accent.WithAlpha(aCard))

	c.FillRoundRect(bg.Handle, m.Px(18), colors.Black.WithAlpha(aShade))
	for y := bg.Handle.Y + m.Px(20); y < bg.Handle.Bottom()-m.Px(20); y += m.Px(16) {
		c.FillRect(ui.R(bg.Handle.X+m.Px(16), y, m.Px(4), m.Px(4)), colors.Black.WithAlpha(aDots))
	}
	reg.Register(bg.Handle, tag(hit.KindDragHandle))

	p.thumb(c, s, b, bg.Thumb)

	small := m.Px(18)
	button(c, bg.Upload, "Upload Image", m.Px(10), small, colors.White, colors.Black)
	reg.Register(bg.Upload, tag(hit.KindUploadImage))
	button(c, bg.Preset, "Preset Image", m.Px(10), small, colors.White, colors.Black)
	reg.Register(bg.Preset, tag(hit.KindPresetImage))

	c.Text(b.Name, bg.TextX, bg.TextY, m.Px(22), colors.Black)
	c.Text(Summary(b), bg.TextX, bg.TextY+m.Px(28), small, colors.Black)
	if b.Notes != "" {
		c.Text(b.Notes, bg.TextX, bg.TextY+m.Px(50), small, colors.Black)
	}

	for i, r := range bg.Sets {
		c.FillRoundRect(r, m.Px(6), colors.White)
		if i < len(b.PerSet) && b.PerSet[i] {
			c.FillRoundRect(r.Inset(m.Px(6)), m.Px(3), colors.Black)
		}
		pl := tag(hit.KindToggleSet)
		pl.Set = i
		reg.Register(r, pl)
	}

	button(c, bg.Copy, "Copy", m.Px(10), small, colors.White, colors.Black)
	reg.Register(bg.Copy, tag(hit.KindDuplicateBlock))
	button(c, bg.Edit, "Edit", m.Px(10), small, colors.White, colors.Black)
	reg.Register(bg.Edit, tag(hit.KindEditBlock))
	button(c, bg.Delete, "Del", m.Px(10), small, colors.White, colors.Black)
	reg.Register(bg.Delete, tag(hit.KindDeleteBlock))
}

func (p *Painter) thumb(c Canvas, s *Scene, b *model.Block, r ui.Rect) {
	m := s.Metrics
	c.FillRoundRect(r, m.Px(12), colors.White)
	if b.Image == "" {
		centered(c, "+", r, m.Px(46), colors.Black)
		return
	}
	if s.Thumbs != nil {
		if img, ok := s.Thumbs.Resolve(b.Image); ok {
			c.Image(b.Image, img, r)
			return
		}
	}
	centered(c, "...", r, m.Px(22), colors.Black.WithAlpha(aDots))
}

func (p *Painter) ghost(c Canvas, drag *model.DragTransfer, r ui.Rect, m layout.Metrics) {
	c.FillRoundRect(r, m.Px(18), colors.Amber.WithAlpha(aGhost))
	c.Text(drag.Block.Name, r.X+m.Px(20), r.Y+m.Px(22), m.Px(22), colors.Black)
	c.Text(Summary(&drag.Block), r.X+m.Px(20), r.Y+m.Px(50), m.Px(18), colors.Black)
}

func (p *Painter) toast(c Canvas, msg string, g *layout.Geometry, th Theme, m layout.Metrics) {
	size := m.Px(16)
	w, h := c.MeasureText(msg, size)
	pad := m.Px(14)
	r := ui.R(g.Viewport.Right()-w-2*pad-m.SidePad, g.Clip.Y+m.Px(8), w+2*pad, h+pad)
	c.FillRoundRect(r, r.H/2, th.Accent)
	centered(c, msg, r, size, colors.Black)
}

// Summary is the "sets x reps" line under a block's name.
func Summary(b *model.Block) string {
	s := fmt.Sprintf("%d x %d", b.Sets, b.Reps)
	if b.Weight != "" {
		s += "  • " + b.Weight
	}
	return s
}

func button(c Canvas, r ui.Rect, label string, radius, size float32, fill, ink colors.Color) {
	c.FillRoundRect(r, radius, fill)
	centered(c, label, r, size, ink)
}

func centered(c Canvas, s string, r ui.Rect, size float32, col colors.Color) {
	w, h := c.MeasureText(s, size)
	c.Text(s, r.X+(r.W-w)/2, r.Y+(r.H-h)/2, size, col)
}
