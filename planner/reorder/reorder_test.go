package reorder

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/gymblocks/planner/model"
)

func planWith(t *testing.T, days map[int][]string) *model.Plan {
	t.Helper()
	p := model.NewPlan(2)
	for d, ids := range days {
		for _, id := range ids {
			require.NoError(t, p.AddBlock(0, d, model.NewBlock(id, model.Fields{Name: id, Sets: 3, Reps: 5})))
		}
	}
	return p
}

func ids(p *model.Plan, week, day int) []string {
	out := []string{}
	for _, b := range p.Weeks[week].Days[day].Blocks {
		out = append(out, b.ID)
	}
	return out
}

func loc(day, index int) model.Location { return model.Location{Week: 0, Day: day, Index: index} }

func snapshot(t *testing.T, p *model.Plan, at model.Location) model.Block {
	t.Helper()
	b, err := p.At(at)
	require.NoError(t, err)
	return b.Clone()
}

func TestMove_SameDayUsesPostRemovalIndex(t *testing.T) {
	p := planWith(t, map[int][]string{0: {"A", "B"}})
	require.NoError(t, Move(p, loc(0, 0), loc(0, 1), snapshot(t, p, loc(0, 0))))
	assert.Equal(t, []string{"B", "A"}, ids(p, 0, 0))
}

func TestMove_SameDay(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"down one", 0, 1, []string{"B", "A", "C", "D"}},
		{"to end", 0, 3, []string{"B", "C", "D", "A"}},
		{"up to top", 3, 0, []string{"D", "A", "B", "C"}},
		{"middle up", 2, 1, []string{"A", "C", "B", "D"}},
		{"same slot", 1, 1, []string{"A", "B", "C", "D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := planWith(t, map[int][]string{3: {"A", "B", "C", "D"}})
			require.NoError(t, Move(p, loc(3, tt.from), loc(3, tt.to), snapshot(t, p, loc(3, tt.from))))
			assert.Equal(t, tt.want, ids(p, 0, 3))
			require.NoError(t, p.Validate())
		})
	}
}

func TestMove_CrossDayKeepsRelativeOrder(t *testing.T) {
	p := planWith(t, map[int][]string{0: {"A", "B", "C"}, 4: {"X", "Y"}})
	require.NoError(t, Move(p, loc(0, 1), loc(4, 1), snapshot(t, p, loc(0, 1))))

	assert.Equal(t, []string{"A", "C"}, ids(p, 0, 0))
	assert.Equal(t, []string{"X", "B", "Y"}, ids(p, 0, 4))
	require.NoError(t, p.Validate())
}

func TestMove_IntoEmptyDay(t *testing.T) {
	p := planWith(t, map[int][]string{0: {"A"}})
	require.NoError(t, Move(p, loc(0, 0), loc(6, 0), snapshot(t, p, loc(0, 0))))
	assert.Empty(t, ids(p, 0, 0))
	assert.Equal(t, []string{"A"}, ids(p, 0, 6))
}

func TestMove_CarriesLiveBlock(t *testing.T) {
	p := planWith(t, map[int][]string{0: {"A"}})
	snap := snapshot(t, p, loc(0, 0))
	require.NoError(t, p.SetImage("A", "preset:legs"))

	require.NoError(t, Move(p, loc(0, 0), loc(1, 0), snap))
	assert.Equal(t, "preset:legs", p.Weeks[0].Days[1].Blocks[0].Image)
}

func TestMove_FailuresLeavePlanUntouched(t *testing.T) {
	tests := []struct {
		name    string
		from    model.Location
		to      model.Location
		snapID  string
		wantErr error
	}{
		{"stale source", loc(0, 0), loc(1, 0), "B", ErrStaleSource},
		{"source out of range", loc(0, 5), loc(1, 0), "A", ErrIndexOutOfRange},
		{"bad source day", loc(9, 0), loc(1, 0), "A", ErrIndexOutOfRange},
		{"past the end cross day", loc(0, 0), loc(1, 2), "A", ErrIndexOutOfRange},
		{"past the end same day", loc(0, 0), loc(0, 2), "A", ErrIndexOutOfRange},
		{"negative index", loc(0, 0), loc(1, -1), "A", ErrIndexOutOfRange},
		{"bad week", loc(0, 0), model.Location{Week: 7}, "A", ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := planWith(t, map[int][]string{0: {"A", "B"}, 1: {"X"}})
			before := p.Clone()

			err := Move(p, tt.from, tt.to, model.Block{ID: tt.snapID})
			assert.ErrorIs(t, err, tt.wantErr)
			if diff := cmp.Diff(before, p); diff != "" {
				t.Fatalf("plan changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, ClampIndex(-3, 2))
	assert.Equal(t, 1, ClampIndex(1, 2))
	assert.Equal(t, 2, ClampIndex(9, 2))
	assert.Equal(t, 0, ClampIndex(4, 0))
}

func TestIsNoop(t *testing.T) {
	assert.True(t, IsNoop(loc(2, 1), loc(2, 1)))
	assert.False(t, IsNoop(loc(2, 1), loc(2, 0)))
	assert.False(t, IsNoop(loc(2, 1), loc(3, 1)))
}
