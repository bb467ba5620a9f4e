package main

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/engine/core"
	"github.com/hubastard/gymblocks/engine/gfx/canvas2d"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
	"github.com/hubastard/gymblocks/engine/profiler"
	"github.com/hubastard/gymblocks/planner/app"
	"github.com/hubastard/gymblocks/planner/images"
)

// PlannerLayer feeds window input to the planner and paints it when it asks.
type PlannerLayer struct {
	planner *app.Planner
	picker  *images.DropPicker
	canvas  *canvas2d.Canvas
	scale   float32 // configured UI scale
	logger  *log.Logger
	stats   *renderer2d.Statistics

	fbW, fbH int
}

func (l *PlannerLayer) OnAttach(e *core.Engine) {
	l.resize(e)
}

func (l *PlannerLayer) OnDetach(e *core.Engine) {}

func (l *PlannerLayer) OnUpdate(e *core.Engine, dt float64) {
	l.planner.Pump()
	l.planner.Tick(time.Now())
	if l.planner.NeedsPaint() {
		e.MarkDirty()
	}
}

func (l *PlannerLayer) OnRender(e *core.Engine, alpha float64) {
	end := profiler.Start("PlannerLayer.OnRender")
	defer end()

	l.canvas.Begin(l.fbW, l.fbH)
	l.planner.Frame(l.canvas)
	*l.stats = l.canvas.Stats()
	l.canvas.End()
}

func (l *PlannerLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		l.resize(e)
	case core.EventMouseButton:
		if v.Button != core.MouseLeft {
			return false
		}
		if v.Down {
			l.planner.OnPointerDown(float32(v.X), float32(v.Y))
		} else {
			l.planner.OnPointerUp(float32(v.X), float32(v.Y))
		}
		return true
	case core.EventMouseMove:
		l.planner.OnPointerMove(float32(v.X), float32(v.Y))
	case core.EventScroll:
		l.planner.OnWheel(float32(v.Yoff))
		return true
	case core.EventDrop:
		paths := v.Paths
		// reading and sniffing the files stays off the loop thread
		go func() {
			if !l.picker.Deliver(paths) {
				l.logger.Info("drop ignored; no image upload is waiting", "files", len(paths))
			}
		}()
		return true
	case core.EventKey:
		if !v.Down {
			return false
		}
		switch {
		case v.Key == core.KeyEscape:
			return l.picker.Cancel()
		case v.Key == core.KeyQ && v.Mods&core.ModCtrl != 0:
			e.Window.RequestClose()
			return true
		}
	}
	return false
}

// resize tracks the framebuffer and derives the UI scale from its density.
func (l *PlannerLayer) resize(e *core.Engine) {
	l.fbW, l.fbH = e.Window.FramebufferSize()
	l.planner.OnResize(l.fbW, l.fbH)
	ww, _ := e.Window.WindowSize()
	density := float32(1)
	if ww > 0 && l.fbW > 0 {
		density = float32(l.fbW) / float32(ww)
	}
	l.planner.SetScale(l.scale * density)
	e.MarkDirty()
}
