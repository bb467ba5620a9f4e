package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gymblocks/planner/config"
	"github.com/hubastard/gymblocks/planner/model"
	"github.com/hubastard/gymblocks/planner/store"
)

func quietLogger() *log.Logger { return log.New(io.Discard) }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "plan.db")
	return cfg
}

func openStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	st, err := store.Open(context.Background(), cfg.Storage.Path, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// execute runs the root command against a fresh database and returns stdout.
func execute(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GYMBLOCKS_STORAGE_PATH", dbPath)
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoadSnapshot_FirstRunGetsStarterPlan(t *testing.T) {
	cfg := testConfig(t)
	st := openStore(t, cfg)

	snap, err := loadSnapshot(context.Background(), st, cfg, quietLogger())
	require.NoError(t, err)
	require.Len(t, snap.Plan.Weeks, cfg.Plan.DefaultWeeks)
	assert.NotEmpty(t, snap.Plan.Weeks[0].Days[0].Blocks)
	require.NotNil(t, snap.ScrollY, "repair fills the scroll offset")
	require.NoError(t, snap.Plan.Validate())

	cfg.Plan.Starter = false
	snap, err = loadSnapshot(context.Background(), st, cfg, quietLogger())
	require.NoError(t, err)
	assert.Zero(t, snap.Plan.Weeks[0].BlockCount())
}

func TestLoadSnapshot_RepairsSavedState(t *testing.T) {
	cfg := testConfig(t)
	st := openStore(t, cfg)
	plan := model.NewPlan(2)
	require.NoError(t, st.SaveSnapshot(context.Background(), &model.Snapshot{ThemeIndex: 99, WeekIndex: 7, Plan: plan}))

	snap, err := loadSnapshot(context.Background(), st, cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, snap.ThemeIndex)
	assert.Less(t, snap.WeekIndex, 2)
}

func TestPresetsFromConfig(t *testing.T) {
	cfg := config.Default()
	ps := presets(cfg)
	require.Len(t, ps, len(cfg.Presets))
	assert.Equal(t, "preset:biceps", ps[0].Image)
	assert.Equal(t, model.Fields{Name: "Pull-ups", Sets: 3, Reps: 8, Weight: "BW"}, ps[1].Fields)
}

func TestRenderWeek(t *testing.T) {
	p := model.NewPlan(1)
	b := model.NewBlock("a", model.Fields{Name: "Deadlift", Sets: 3, Reps: 5, Notes: "belt"})
	require.NoError(t, b.ToggleSet(0))
	require.NoError(t, p.AddBlock(0, 2, b))

	out := renderWeek(&p.Weeks[0])
	assert.Contains(t, out, "Week 1")
	assert.Contains(t, out, "Deadlift")
	assert.Contains(t, out, "3 x 5")
	assert.Contains(t, out, "■□□ 1/3")
	assert.Contains(t, out, "belt")
	assert.Equal(t, 6, strings.Count(out, "rest"))
}

func TestShowCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "plan.db")
	out, err := execute(t, db, "show", "--week", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bench Press")

	_, err = execute(t, db, "show", "--week", "40")
	assert.ErrorContains(t, err, "out of range")
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.db")
	backup := filepath.Join(dir, "backup.json")

	cfg := testConfig(t)
	cfg.Storage.Path = src
	st := openStore(t, cfg)
	plan := model.NewPlan(1)
	require.NoError(t, plan.AddBlock(0, 4, model.NewBlock("x", model.Fields{Name: "Farmer Walk", Sets: 2, Reps: 1})))
	require.NoError(t, st.SaveSnapshot(context.Background(), &model.Snapshot{Plan: plan}))

	_, err := execute(t, src, "export", backup)
	require.NoError(t, err)
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Farmer Walk")

	dst := filepath.Join(dir, "dst.db")
	_, err = execute(t, dst, "import", backup)
	require.NoError(t, err)
	out, err := execute(t, dst, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Farmer Walk")
}

func TestImportRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err := execute(t, filepath.Join(dir, "plan.db"), "import", bad)
	assert.ErrorIs(t, err, store.ErrMalformed)
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	l.Debug("hidden")
	assert.Zero(t, buf.Len())
	l.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestContextFallbacks(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, log.Default(), loggerFromContext(ctx))
	assert.Equal(t, config.Default().Window.Title, configFromContext(ctx).Window.Title)

	l := quietLogger()
	assert.Same(t, l, loggerFromContext(withLogger(ctx, l)))
}
