package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hubastard/gymblocks/engine/assets"
	"github.com/hubastard/gymblocks/engine/colors"
	"github.com/hubastard/gymblocks/engine/core"
	"github.com/hubastard/gymblocks/engine/gfx/canvas2d"
	glbackend "github.com/hubastard/gymblocks/engine/gfx/gl"
	"github.com/hubastard/gymblocks/engine/gfx/renderer2d"
	"github.com/hubastard/gymblocks/engine/platform"
	"github.com/hubastard/gymblocks/engine/profiler"
	"github.com/hubastard/gymblocks/engine/text"
	"github.com/hubastard/gymblocks/planner/app"
	"github.com/hubastard/gymblocks/planner/config"
	"github.com/hubastard/gymblocks/planner/editor"
	"github.com/hubastard/gymblocks/planner/images"
	"github.com/hubastard/gymblocks/planner/store"
)

const (
	thumbSize   = 160
	stageFrames = 240
)

// runPlanner opens the window on the calling (main) goroutine. Background work (autosave,
// thumbnail loads, dialogs) lives in an errgroup that is flushed after the window closes.
func runPlanner(ctx context.Context) error {
	cfg := configFromContext(ctx)
	logger := loggerFromContext(ctx)

	st, err := store.Open(ctx, cfg.Storage.Path, logger.WithPrefix("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	snap, err := loadSnapshot(ctx, st, cfg, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	bgCtx, stopBackground := context.WithCancel(gctx)
	defer stopBackground()

	var planner *app.Planner
	saver := store.NewAutosaver(st, cfg.Autosave.Debounce, logger.WithPrefix("autosave"), func() { planner.NotifySaved() })
	thumbs := images.NewCache(bgCtx, st, thumbSize, logger.WithPrefix("images"), func() { planner.Invalidate() })
	picker := images.NewDropPicker()

	planner = app.New(bgCtx, snap, app.Options{
		Title:        cfg.Window.Title,
		Scale:        cfg.Window.Scale,
		DefaultWeeks: cfg.Plan.DefaultWeeks,
		Presets:      presets(cfg),
	}, app.Deps{
		Saver:  saver,
		Images: st,
		Thumbs: thumbs,
		Editor: editor.New(bgCtx, os.Stdin, os.Stdout, logger),
		Picker: picker,
		Logger: logger,
	})
	g.Go(func() error { return saver.Run(bgCtx) })

	shell := &Shell{cfg: cfg, ctx: ctx, logger: logger, planner: planner, picker: picker}
	engineCfg := core.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		VSync:      cfg.Window.VSync,
		ClearColor: colors.DarkGray,
	}
	newWindow := func(c core.Config) (core.Window, error) {
		return platform.NewGLFWWindow(c, logger.WithPrefix("window"))
	}
	newRenderer := func(win core.Window, c core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(win, c)
	}
	runErr := core.Run(shell, engineCfg, newWindow, newRenderer)

	stopBackground()
	if err := g.Wait(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr == nil {
		runErr = shell.err
	}
	logger.Info("bye")
	return runErr
}

// Shell is the core.App: it builds the drawing stack once the GL context exists and
// pushes the planner and debug layers.
type Shell struct {
	cfg     *config.Config
	ctx     context.Context
	logger  *log.Logger
	planner *app.Planner
	picker  *images.DropPicker

	stats renderer2d.Statistics
	err   error
}

func (s *Shell) OnStart(e *core.Engine) {
	profiler.Init(stageFrames)
	s.logger.Info("renderer", "vendor", e.Renderer.GPUVendor(), "gpu", e.Renderer.GPURenderer())

	canvas, overlay, err := s.buildCanvases(e.Renderer)
	if err != nil {
		s.err = err
		s.logger.Error("renderer setup failed", "err", err)
		e.Window.RequestClose()
		return
	}
	e.Layers.Push(e, &PlannerLayer{
		planner: s.planner,
		picker:  s.picker,
		canvas:  canvas,
		scale:   s.cfg.Window.Scale,
		logger:  s.logger,
		stats:   &s.stats,
	})
	e.Layers.Push(e, &DebugLayer{canvas: overlay, stats: &s.stats, logger: s.logger})
}

// buildCanvases returns the board canvas and the overlay canvas. They share one batch
// renderer and font but keep separate image caches.
func (s *Shell) buildCanvases(r core.Renderer) (*canvas2d.Canvas, *canvas2d.Canvas, error) {
	vs, err := assets.Shader("renderer2d.vert")
	if err != nil {
		return nil, nil, err
	}
	fs, err := assets.Shader("renderer2d.frag")
	if err != nil {
		return nil, nil, err
	}
	r2d, err := renderer2d.New(r, vs, fs, 10000)
	if err != nil {
		return nil, nil, err
	}
	font, err := text.LoadDefault(r, 32*s.cfg.Window.Scale, false)
	if err != nil {
		return nil, nil, fmt.Errorf("loading font: %w", err)
	}
	logger := s.logger.WithPrefix("canvas")
	return canvas2d.New(r, r2d, font, logger), canvas2d.New(r, r2d, font, logger), nil
}

func (s *Shell) OnUpdate(e *core.Engine, dt float64) {
	if s.ctx.Err() != nil && !e.Window.ShouldClose() {
		s.logger.Info("interrupted; closing window")
		e.Window.RequestClose()
	}
}

func (s *Shell) OnRender(e *core.Engine, alpha float64) {}
func (s *Shell) OnEvent(e *core.Engine, ev core.Event)  {}
func (s *Shell) OnShutdown(e *core.Engine)              {}
