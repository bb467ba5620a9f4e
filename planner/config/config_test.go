package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
window:
  title: "Leg Day"
  width: 1024
  height: 768
  vsync: false
  scale: 1.5
storage:
  path: "/tmp/plan.db"
autosave:
  debounce: 250ms
plan:
  default_weeks: 6
presets:
  - name: "Hip Thrust"
    sets: 3
    reps: 10
    weight: "80kg"
    image: legs
log:
  level: debug
`

const validTOML = `
[window]
title = "Push Pull"
width = 900
height = 700
scale = 1.0

[storage]
path = "plan.db"

[autosave]
debounce = "1s"

[plan]
default_weeks = 8
starter = false

[[presets]]
name = "Chin-ups"
sets = 3
reps = 6
image = "pullups"
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeTemp(t, "gymblocks.yaml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, "Leg Day", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, float32(1.5), cfg.Window.Scale)
	assert.Equal(t, 250*time.Millisecond, cfg.Autosave.Debounce)
	assert.Equal(t, 6, cfg.Plan.DefaultWeeks)
	assert.True(t, cfg.Plan.Starter, "unset keys keep their defaults")
	assert.Equal(t, []Preset{{Name: "Hip Thrust", Sets: 3, Reps: 10, Weight: "80kg", Image: "legs"}}, cfg.Presets)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
}

func TestLoad_TOML(t *testing.T) {
	cfg, err := Load(writeTemp(t, "gymblocks.toml", validTOML))
	require.NoError(t, err)
	assert.Equal(t, "Push Pull", cfg.Window.Title)
	assert.Equal(t, time.Second, cfg.Autosave.Debounce)
	assert.Equal(t, 8, cfg.Plan.DefaultWeeks)
	assert.False(t, cfg.Plan.Starter)
	require.Len(t, cfg.Presets, 1)
	assert.Equal(t, "Chin-ups", cfg.Presets[0].Name)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Len(t, cfg.Presets, 4)
	assert.Equal(t, 400*time.Millisecond, cfg.Autosave.Debounce)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Plan.DefaultWeeks)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GYMBLOCKS_WINDOW_WIDTH", "1600")
	t.Setenv("GYMBLOCKS_STORAGE_PATH", "/data/plan.db")
	t.Setenv("GYMBLOCKS_AUTOSAVE_DEBOUNCE", "2s")
	t.Setenv("GYMBLOCKS_PLAN_DEFAULT_WEEKS", "12")
	t.Setenv("GYMBLOCKS_LOG_LEVEL", "warn")
	t.Setenv("GYMBLOCKS_WINDOW_HEIGHT", "not-a-number")

	cfg, err := Load(writeTemp(t, "gymblocks.yml", validYAML))
	require.NoError(t, err)
	assert.Equal(t, 1600, cfg.Window.Width)
	assert.Equal(t, 768, cfg.Window.Height, "unparsable override is ignored")
	assert.Equal(t, "/data/plan.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Second, cfg.Autosave.Debounce)
	assert.Equal(t, 12, cfg.Plan.DefaultWeeks)
	assert.Equal(t, log.WarnLevel, cfg.LogLevel())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"tiny window", "c.yaml", "window: {width: 100, height: 100}"},
		{"zero weeks", "c.yaml", "plan: {default_weeks: 0}"},
		{"negative debounce", "c.yaml", "autosave: {debounce: -1s}"},
		{"bad preset sets", "c.yaml", "presets: [{name: Row, sets: 0, reps: 5}]"},
		{"unnamed preset", "c.yaml", "presets: [{sets: 3, reps: 5}]"},
		{"unknown preset image", "c.yaml", "presets: [{name: Row, sets: 3, reps: 5, image: rowing}]"},
		{"bad log level", "c.yaml", "log: {level: loud}"},
		{"bad scale", "c.toml", "[window]\nscale = 9.0"},
		{"unknown extension", "c.json", "{}"},
		{"broken yaml", "c.yaml", "window: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemp(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}
