package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/core"
	"github.com/hubastard/gymblocks/engine/gfx/canvas2d"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
	"github.com/hubastard/gymblocks/engine/profiler"
	"github.com/hubastard/gymblocks/engine/ui"
)

// DebugLayer draws frame, renderer and runtime counters over the board (Ctrl+D) and dumps
// the profiler (Ctrl+P).
type DebugLayer struct {
	canvas *canvas2d.Canvas
	stats  *renderer2d.Statistics
	logger *log.Logger

	visible   bool
	frames    int
	lastFrame time.Time
	frameMs   float32

	runtime  profiler.RuntimeStats
	stages   []profiler.StageStat
	sampled  time.Time
	gpuLines []string
}

func (l *DebugLayer) OnAttach(e *core.Engine) {
	l.gpuLines = []string{
		"GPU",
		"  Vendor: " + e.Renderer.GPUVendor(),
		"  Renderer: " + e.Renderer.GPURenderer(),
	}
}

func (l *DebugLayer) OnDetach(e *core.Engine) {}

func (l *DebugLayer) OnUpdate(e *core.Engine, dt float64) {
	// ReadMemStats stops the world; twice a second is plenty
	if l.visible && time.Since(l.sampled) > 500*time.Millisecond {
		l.runtime = profiler.Runtime()
		l.stages = profiler.Last()
		l.sampled = time.Now()
		e.MarkDirty()
	}
}

func (l *DebugLayer) OnRender(e *core.Engine, alpha float64) {
	now := time.Now()
	if !l.lastFrame.IsZero() {
		l.frameMs = float32(now.Sub(l.lastFrame).Seconds() * 1000)
	}
	l.lastFrame = now
	l.frames++
	if !l.visible {
		return
	}

	end := profiler.Start("DebugLayer.OnRender")
	defer end()

	lines := []string{
		fmt.Sprintf("Frame: %d", l.frames),
		fmt.Sprintf("  %.2f ms since last paint", l.frameMs),
		"2D Renderer",
		fmt.Sprintf("  Draw Calls: %d", l.stats.DrawCalls),
		fmt.Sprintf("  Quads: %d", l.stats.QuadCount),
		fmt.Sprintf("  Vertices: %d", l.stats.TotalVertexCount()),
		fmt.Sprintf("  Textures: %d", l.stats.TextureCount),
		"Memory",
		fmt.Sprintf("  Heap: %.3f MB", float32(l.runtime.HeapAlloc)/(1<<20)),
		fmt.Sprintf("  Allocs: %d", l.runtime.Mallocs),
		fmt.Sprintf("  Goroutines: %d", l.runtime.Goroutines),
		fmt.Sprintf("  CPUs: %d", l.runtime.CPUs),
	}
	if len(l.stages) > 0 {
		lines = append(lines, fmt.Sprintf("Stages (last %d frames)", stageFrames))
		for _, s := range l.stages[:min(len(l.stages), 5)] {
			lines = append(lines, fmt.Sprintf("  %s: %.3f ms avg, %.3f ms max",
				s.Name, float64(s.Mean().Microseconds())/1000, float64(s.Max.Microseconds())/1000))
		}
	}
	lines = append(lines, l.gpuLines...)

	w, h := e.Window.FramebufferSize()
	const size, pad = 16, 12
	var boxW float32
	for _, s := range lines {
		lw, _ := l.canvas.MeasureText(s, size)
		boxW = max(boxW, lw)
	}
	lineH := float32(size + 4)
	box := ui.R(16, float32(h)/3, boxW+2*pad, float32(len(lines))*lineH+2*pad)

	l.canvas.Begin(w, h)
	l.canvas.FillRoundRect(box, 10, colors.Black.WithAlpha(0.6))
	for i, s := range lines {
		col := colors.White
		if s[0] != ' ' {
			col = colors.Amber
		}
		l.canvas.Text(s, box.X+pad, box.Y+pad+float32(i)*lineH, size, col)
	}
	l.canvas.End()
}

func (l *DebugLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	v, ok := ev.(core.EventKey)
	if !ok || !v.Down || v.Mods&core.ModCtrl == 0 {
		return false
	}
	switch v.Key {
	case core.KeyD:
		l.visible = !l.visible
		l.sampled = time.Time{}
		e.MarkDirty()
		return true
	case core.KeyP:
		if !profiler.Enabled {
			l.logger.Info("profiler not built in; rebuild with -tags profile")
			return true
		}
		if path, err := profiler.Dump(""); err == nil {
			l.logger.Info("speedscope dump", "path", path)
		} else {
			l.logger.Error("profiler dump failed", "err", err)
		}
		return true
	}
	return false
}
