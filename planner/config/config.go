// Package config loads the planner's settings from YAML or TOML with env overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/hubastard/gymblocks/planner/images"
)

type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window"`
	Storage  StorageConfig  `yaml:"storage" toml:"storage"`
	Autosave AutosaveConfig `yaml:"autosave" toml:"autosave"`
	Plan     PlanConfig     `yaml:"plan" toml:"plan"`
	Presets  []Preset       `yaml:"presets" toml:"presets"`
	Log      LogConfig      `yaml:"log" toml:"log"`
}

type WindowConfig struct {
	Title  string  `yaml:"title" toml:"title"`
	Width  int     `yaml:"width" toml:"width"`
	Height int     `yaml:"height" toml:"height"`
	VSync  bool    `yaml:"vsync" toml:"vsync"`
	Scale  float32 `yaml:"scale" toml:"scale"` // UI scale on top of the framebuffer size
}

type StorageConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type AutosaveConfig struct {
	Debounce time.Duration `yaml:"debounce" toml:"debounce"`
}

type PlanConfig struct {
	DefaultWeeks int  `yaml:"default_weeks" toml:"default_weeks"`
	Starter      bool `yaml:"starter" toml:"starter"` // seed sample blocks on first run
}

// Preset is an exercise template offered when creating a block.
type Preset struct {
	Name   string `yaml:"name" toml:"name"`
	Sets   int    `yaml:"sets" toml:"sets"`
	Reps   int    `yaml:"reps" toml:"reps"`
	Weight string `yaml:"weight" toml:"weight"`
	Image  string `yaml:"image" toml:"image"` // preset icon key
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Window:   WindowConfig{Title: "Gym Planner", Width: 1280, Height: 860, VSync: true, Scale: 1},
		Storage:  StorageConfig{Path: DefaultStoragePath()},
		Autosave: AutosaveConfig{Debounce: 400 * time.Millisecond},
		Plan:     PlanConfig{DefaultWeeks: 4, Starter: true},
		Presets: []Preset{
			{Name: "Biceps Curls", Sets: 4, Reps: 12, Image: "biceps"},
			{Name: "Pull-ups", Sets: 3, Reps: 8, Weight: "BW", Image: "pullups"},
			{Name: "Dumbbell Press", Sets: 4, Reps: 10, Image: "dumbbells"},
			{Name: "Leg Press", Sets: 4, Reps: 12, Image: "legs"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultStoragePath is plan.db under the user config dir, or the working dir when that
// is unknown.
func DefaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gymblocks.db"
	}
	return filepath.Join(dir, "gymblocks", "plan.db")
}

// Load starts from Default, overlays the file at path (YAML or TOML by extension), then
// applies environment variable overrides. A missing file is not an error.
// Env vars use the prefix GYMBLOCKS_:
//
//	GYMBLOCKS_WINDOW_WIDTH, GYMBLOCKS_WINDOW_HEIGHT, GYMBLOCKS_WINDOW_SCALE,
//	GYMBLOCKS_STORAGE_PATH, GYMBLOCKS_AUTOSAVE_DEBOUNCE,
//	GYMBLOCKS_PLAN_DEFAULT_WEEKS, GYMBLOCKS_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	default:
		return fmt.Errorf("unknown config format %q (want .yaml, .yml or .toml)", ext)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GYMBLOCKS_WINDOW_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window.Width = n
		}
	}
	if v := os.Getenv("GYMBLOCKS_WINDOW_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Window.Height = n
		}
	}
	if v := os.Getenv("GYMBLOCKS_WINDOW_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.Window.Scale = float32(f)
		}
	}
	if v := os.Getenv("GYMBLOCKS_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("GYMBLOCKS_AUTOSAVE_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Autosave.Debounce = d
		}
	}
	if v := os.Getenv("GYMBLOCKS_PLAN_DEFAULT_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Plan.DefaultWeeks = n
		}
	}
	if v := os.Getenv("GYMBLOCKS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Window.Width < 320 || c.Window.Height < 240 {
		return fmt.Errorf("window must be at least 320x240, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Window.Scale <= 0 || c.Window.Scale > 4 {
		return fmt.Errorf("window.scale %v out of range (0, 4]", c.Window.Scale)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Autosave.Debounce < 0 || c.Autosave.Debounce > 10*time.Second {
		return fmt.Errorf("autosave.debounce %v out of range [0, 10s]", c.Autosave.Debounce)
	}
	if c.Plan.DefaultWeeks < 1 || c.Plan.DefaultWeeks > 52 {
		return fmt.Errorf("plan.default_weeks %d out of range [1, 52]", c.Plan.DefaultWeeks)
	}
	for i, p := range c.Presets {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("presets[%d].name is required", i)
		}
		if p.Sets <= 0 || p.Reps <= 0 {
			return fmt.Errorf("preset %q: sets and reps must be positive", p.Name)
		}
		if p.Image != "" && !images.IsPreset(images.PresetRef(p.Image)) {
			return fmt.Errorf("preset %q: unknown image %q", p.Name, p.Image)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel is the parsed log.level; validate has already rejected bad values.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
