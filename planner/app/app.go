// Package app owns the planner's state and drives one frame at a time: it feeds pointer
// input through the gesture controller, applies actions to the plan, and paints the board.
// Every method except Invalidate and Post must be called on the loop thread.
package app

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/engine/profiler"
	"github.com/hubastard/gymblocks/engine/ui"
	"github.com/hubastard/gymblocks/planner/gesture"
	"github.com/hubastard/gymblocks/planner/hit"
	"github.com/hubastard/gymblocks/planner/images"
	"github.com/hubastard/gymblocks/planner/layout"
	"github.com/hubastard/gymblocks/planner/model"
	"github.com/hubastard/gymblocks/planner/render"
	"github.com/hubastard/gymblocks/planner/scroll"
)

// Saver persists snapshots without blocking; *store.Autosaver implements it.
type Saver interface {
	Save(snap *model.Snapshot)
}

// ImageStore keeps uploaded image bytes; *store.Store implements it.
type ImageStore interface {
	PutImage(ctx context.Context, data []byte) (string, error)
}

type Options struct {
	Title            string
	Scale            float32 // UI scale; 0 means 1
	DefaultWeeks     int
	Presets          []Preset
	PresetImages     []string      // refs offered by the preset image dialog
	ToastFor         time.Duration // 0 means 1.6s
	WheelStep        float32       // pixels per wheel notch at scale 1; 0 means 60
	StrictInvariants bool          // panic on invariant defects instead of logging them
	NewID            func() string
	Now              func() time.Time
}

// Deps are the collaborators. Any of them may be nil; the matching actions then do nothing.
type Deps struct {
	Saver  Saver
	Images ImageStore
	Thumbs render.Thumbnails
	Editor Editor
	Picker images.Picker
	Logger *log.Logger
}

type toast struct {
	text   string
	until  time.Time
	sticky bool // stays until replaced or cleared
}

type Planner struct {
	ctx    context.Context
	opt    Options
	deps   Deps
	logger *log.Logger

	plan     *model.Plan
	view     model.ViewState
	scroll   scroll.Model
	metrics  layout.Metrics
	viewport ui.Rect
	geom     layout.Geometry

	reg      *hit.Registry
	gestures *gesture.Controller
	painter  render.Painter

	inbox chan func()
	dirty atomic.Bool
	saved atomic.Bool

	editing bool
	picking bool
	toast   toast
}

// New restores the planner from snap, which must already be repaired.
func New(ctx context.Context, snap *model.Snapshot, opt Options, deps Deps) *Planner {
	if opt.Scale <= 0 {
		opt.Scale = 1
	}
	if opt.DefaultWeeks <= 0 {
		opt.DefaultWeeks = model.DefaultWeeks
	}
	if opt.ToastFor <= 0 {
		opt.ToastFor = 1600 * time.Millisecond
	}
	if opt.WheelStep <= 0 {
		opt.WheelStep = 60
	}
	if opt.NewID == nil {
		opt.NewID = model.NewID
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}

	p := &Planner{
		ctx:     ctx,
		opt:     opt,
		deps:    deps,
		logger:  deps.Logger.WithPrefix("planner"),
		metrics: layout.Default().Scaled(opt.Scale),
		reg:     hit.NewRegistry(),
		painter: render.Painter{Title: opt.Title},
		inbox:   make(chan func(), 64),
	}
	p.gestures = gesture.New(p)

	p.plan = snap.Plan
	if p.plan == nil || len(p.plan.Weeks) == 0 {
		p.plan = model.NewPlan(opt.DefaultWeeks)
	}
	p.view.Theme = snap.ThemeIndex
	p.view.Week = min(max(snap.WeekIndex, 0), len(p.plan.Weeks)-1)
	// the restored offset is clamped on the first resize, once the viewport is known
	p.scroll.SetExtent(layout.ContentHeight(p.week(), p.metrics), 0)
	if snap.ScrollY != nil {
		p.scroll.ScrollTo(*snap.ScrollY)
	}
	p.view.ScrollY = p.scroll.Offset()
	if err := p.plan.Validate(); err != nil {
		p.defect(err)
	}
	p.Invalidate()
	return p
}

// --- host surface ---

func (p *Planner) OnResize(w, h int) {
	p.viewport = ui.R(0, 0, float32(max(w, 0)), float32(max(h, 0)))
	p.clamp()
	p.Invalidate()
}

// SetScale changes the UI scale, e.g. when the window moves to a HiDPI monitor.
func (p *Planner) SetScale(s float32) {
	if s <= 0 || s == p.opt.Scale {
		return
	}
	p.opt.Scale = s
	p.metrics = layout.Default().Scaled(s)
	p.clamp()
	p.Invalidate()
}

func (p *Planner) OnPointerDown(x, y float32) { p.gestures.Down(x, y) }
func (p *Planner) OnPointerMove(x, y float32) { p.gestures.Move(x, y) }
func (p *Planner) OnPointerUp(x, y float32)   { p.gestures.Up(x, y) }

// OnWheel scrolls by notches; positive dy moves the content down (scrolls up).
func (p *Planner) OnWheel(dy float32) {
	if p.gestures.State() == gesture.Dragging {
		return
	}
	if p.ScrollTo(p.scroll.Offset() - dy*p.metrics.Px(p.opt.WheelStep)) {
		p.Invalidate()
	}
}

// Post queues fn to run on the loop thread at the next Pump. Safe from any goroutine.
func (p *Planner) Post(fn func()) {
	p.inbox <- fn
	p.Invalidate()
}

// Pump runs every queued closure.
func (p *Planner) Pump() {
	if p.saved.Swap(false) {
		p.showToast("Saved", false)
	}
	for {
		select {
		case fn := <-p.inbox:
			fn()
		default:
			return
		}
	}
}

// Tick expires the toast.
func (p *Planner) Tick(now time.Time) {
	if p.toast.text != "" && !p.toast.sticky && !now.Before(p.toast.until) {
		p.toast = toast{}
		p.Invalidate()
	}
}

// Invalidate requests a paint. Safe from any goroutine.
func (p *Planner) Invalidate() { p.dirty.Store(true) }

// NeedsPaint reports and clears the paint request.
func (p *Planner) NeedsPaint() bool { return p.dirty.Swap(false) }

// Frame lays out and paints the board, rebuilding the hit regions.
func (p *Planner) Frame(c render.Canvas) {
	p.clamp()
	end := profiler.Start("paint")
	defer end()
	_, py := p.gestures.Pointer()
	p.painter.Paint(c, &render.Scene{
		Plan:     p.plan,
		View:     p.view,
		Geometry: &p.geom,
		Metrics:  p.metrics,
		PointerY: py,
		Thumbs:   p.deps.Thumbs,
		Toast:    p.toast.text,
	}, p.reg)
}

// NotifySaved shows the "Saved" toast at the next Pump. Safe from any goroutine and
// never blocks.
func (p *Planner) NotifySaved() {
	p.saved.Store(true)
	p.Invalidate()
}

// --- read access ---

func (p *Planner) Plan() *model.Plan         { return p.plan }
func (p *Planner) View() model.ViewState     { return p.view }
func (p *Planner) Geometry() layout.Geometry { return p.geom }
func (p *Planner) Gesture() gesture.State    { return p.gestures.State() }
func (p *Planner) Toast() string             { return p.toast.text }
func (p *Planner) Editing() bool             { return p.editing }
func (p *Planner) Picking() bool             { return p.picking }
func (p *Planner) Snapshot() *model.Snapshot { return p.snapshot() }
func (p *Planner) Metrics() layout.Metrics   { return p.metrics }
func (p *Planner) Regions() []hit.Region     { return p.reg.Regions() }
func (p *Planner) Viewport() ui.Rect         { return p.viewport }

// --- gesture.Target ---

func (p *Planner) HitTest(x, y float32) (hit.Region, bool) {
	end := profiler.Start("hit-test")
	defer end()
	return p.reg.QueryTopmost(x, y)
}

func (p *Planner) ScrollOffset() float32 { return p.scroll.Offset() }

func (p *Planner) ScrollTo(y float32) bool {
	moved := p.scroll.ScrollTo(y)
	p.view.ScrollY = p.scroll.Offset()
	return moved
}

// --- internals ---

func (p *Planner) week() *model.Week { return &p.plan.Weeks[p.view.Week] }

// clamp recomputes the scroll extent and the geometry for the current state.
func (p *Planner) clamp() {
	end := profiler.Start("layout")
	defer end()
	week := p.week()
	if !p.viewport.Empty() {
		p.scroll.SetExtent(layout.ContentHeight(week, p.metrics), layout.ClipRect(p.viewport, p.metrics).H)
	}
	p.view.ScrollY = p.scroll.Offset()
	p.geom = layout.Compute(layout.Input{
		Week:     week,
		Weeks:    len(p.plan.Weeks),
		Viewport: p.viewport,
		ScrollY:  p.view.ScrollY,
	}, p.metrics)
}

func (p *Planner) snapshot() *model.Snapshot {
	scrollY := p.view.ScrollY
	return &model.Snapshot{
		Version:    model.SnapshotVersion,
		ThemeIndex: p.view.Theme,
		WeekIndex:  p.view.Week,
		ScrollY:    &scrollY,
		Plan:       p.plan.Clone(),
	}
}

// commit runs after every mutation: re-clamp, check invariants, persist, repaint.
func (p *Planner) commit(what string, kv ...any) {
	p.clamp()
	if p.opt.StrictInvariants {
		if err := p.plan.Validate(); err != nil {
			p.defect(fmt.Errorf("after %s: %w", what, err))
		}
	}
	if p.deps.Saver != nil {
		p.deps.Saver.Save(p.snapshot())
	}
	p.logger.Debug(what, kv...)
	p.Invalidate()
}

// defect reports a programming error.
func (p *Planner) defect(err error) {
	p.logger.Error("invariant violated", "err", err)
	if p.opt.StrictInvariants {
		panic(err)
	}
}

func (p *Planner) showToast(text string, sticky bool) {
	p.toast = toast{text: text, until: p.opt.Now().Add(p.opt.ToastFor), sticky: sticky}
	p.Invalidate()
}

func (p *Planner) clearToast(text string) {
	if p.toast.text == text {
		p.toast = toast{}
		p.Invalidate()
	}
}
