package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepair_FixesRecoverableDefects(t *testing.T) {
	raw := `{
		"themeIndex": 9,
		"weekIndex": 5,
		"plan": {"weeks": [{"name": "", "days": [
			{"name": "Mon", "blocks": [
				{"id": "a", "name": "Bench", "sets": 3, "reps": 5},
				{"id": "a", "name": "Row", "sets": 0, "reps": -2, "perSet": [true, true]},
				{"name": "Curl", "sets": 2, "reps": 12, "perSet": [true, true], "done": false}
			]}
		]}]}
	}`
	s, err := ParseSnapshot([]byte(raw))
	require.NoError(t, err)

	fixes := s.Repair(RepairOptions{Themes: 3, DefaultWeeks: 4, NewID: seqIDs("new")})
	assert.NotEmpty(t, fixes)

	require.NotNil(t, s.ScrollY)
	assert.Zero(t, *s.ScrollY)
	assert.Zero(t, s.ThemeIndex)
	assert.Zero(t, s.WeekIndex)
	assert.Equal(t, SnapshotVersion, s.Version)

	week := s.Plan.Weeks[0]
	assert.Equal(t, "Week 1", week.Name)
	for d, day := range week.Days {
		assert.Equal(t, DayNames[d], day.Name)
		assert.NotNil(t, day.Blocks)
	}

	mon := week.Days[0].Blocks
	require.Len(t, mon, 3)
	assert.Equal(t, []bool{false, false, false}, mon[0].PerSet)
	assert.Equal(t, "new1", mon[1].ID)
	assert.Equal(t, 1, mon[1].Sets)
	assert.Equal(t, 1, mon[1].Reps)
	assert.Equal(t, []bool{true}, mon[1].PerSet)
	assert.True(t, mon[1].Done)
	assert.Equal(t, "new2", mon[2].ID)
	assert.True(t, mon[2].Done)

	require.NoError(t, s.Plan.Validate())
}

func TestRepair_MissingPlan(t *testing.T) {
	s, err := ParseSnapshot([]byte(`{"themeIndex": 1, "scrollY": 40}`))
	require.NoError(t, err)
	s.Repair(RepairOptions{Themes: 3, DefaultWeeks: 2})

	require.Len(t, s.Plan.Weeks, 2)
	assert.Equal(t, 1, s.ThemeIndex)
	assert.InDelta(t, 40, *s.ScrollY, 1e-6)
}

func TestRepair_CleanSnapshotReportsNothing(t *testing.T) {
	var zero float32
	s := &Snapshot{Plan: StarterPlan(2, seqIDs("s")), ScrollY: &zero, WeekIndex: 1, ThemeIndex: 2}
	assert.Empty(t, s.Repair(RepairOptions{Themes: 3}))
}

func TestParseSnapshot_Malformed(t *testing.T) {
	_, err := ParseSnapshot([]byte(`{"plan": [`))
	assert.Error(t, err)
}

func TestSnapshot_RoundTripKeepsPlan(t *testing.T) {
	var scroll float32 = 12
	in := &Snapshot{Version: SnapshotVersion, ThemeIndex: 1, ScrollY: &scroll, Plan: StarterPlan(1, seqIDs("s"))}
	data, err := in.Marshal()
	require.NoError(t, err)

	out, err := ParseSnapshot(data)
	require.NoError(t, err)
	assert.Empty(t, out.Repair(RepairOptions{Themes: 3}))
	assert.Equal(t, in.Plan, out.Plan)
}
