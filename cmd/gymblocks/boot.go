package main

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/hubastard/gymblocks/planner/app"
	"github.com/hubastard/gymblocks/planner/config"
	"github.com/hubastard/gymblocks/planner/images"
	"github.com/hubastard/gymblocks/planner/model"
	"github.com/hubastard/gymblocks/planner/render"
	"github.com/hubastard/gymblocks/planner/store"
)

func repairOptions(cfg *config.Config) model.RepairOptions {
	return model.RepairOptions{Themes: len(render.Themes), DefaultWeeks: cfg.Plan.DefaultWeeks, NewID: model.NewID}
}

// loadSnapshot returns the saved snapshot, repaired. A first run gets the starter plan;
// an unreadable snapshot is replaced with empty weeks rather than blocking startup.
func loadSnapshot(ctx context.Context, st *store.Store, cfg *config.Config, logger *log.Logger) (*model.Snapshot, error) {
	snap, err := st.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		plan := model.NewPlan(cfg.Plan.DefaultWeeks)
		if cfg.Plan.Starter {
			plan = model.StarterPlan(cfg.Plan.DefaultWeeks, model.NewID)
		}
		logger.Info("no saved plan; starting fresh", "weeks", len(plan.Weeks), "starter", cfg.Plan.Starter)
		snap = &model.Snapshot{Version: model.SnapshotVersion, Plan: plan}
	case errors.Is(err, store.ErrMalformed):
		logger.Error("saved plan is unreadable; starting with empty weeks", "err", err)
		snap = &model.Snapshot{Version: model.SnapshotVersion}
	case err != nil:
		return nil, err
	}

	for _, fix := range snap.Repair(repairOptions(cfg)) {
		logger.Warn("snapshot repaired", "fix", fix)
	}
	return snap, nil
}

// presets turns the configured templates into create-dialog choices.
func presets(cfg *config.Config) []app.Preset {
	out := make([]app.Preset, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		ap := app.Preset{
			Name:   p.Name,
			Fields: model.Fields{Name: p.Name, Sets: p.Sets, Reps: p.Reps, Weight: p.Weight},
		}
		if p.Image != "" {
			ap.Image = images.PresetRef(p.Image)
		}
		out = append(out, ap)
	}
	return out
}
