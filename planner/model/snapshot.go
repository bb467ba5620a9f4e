package model

import (
	"encoding/json"
	"fmt"
)

// SnapshotVersion is written into every saved snapshot.
const SnapshotVersion = 1

// Snapshot is the persisted document: the plan plus the view state worth restoring.
type Snapshot struct {
	Version    int      `json:"version"`
	ThemeIndex int      `json:"themeIndex"`
	WeekIndex  int      `json:"weekIndex"`
	ScrollY    *float32 `json:"scrollY,omitempty"`
	Plan       *Plan    `json:"plan"`
}

// ParseSnapshot decodes a snapshot without repairing it.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// RepairOptions bound the indices a snapshot may carry.
type RepairOptions struct {
	Themes       int
	DefaultWeeks int
	NewID        func() string
}

// Repair fixes recoverable defects in place and returns one line per repair.
func (s *Snapshot) Repair(opt RepairOptions) []string {
	if opt.NewID == nil {
		opt.NewID = NewID
	}
	var fixes []string
	fix := func(format string, args ...any) { fixes = append(fixes, fmt.Sprintf(format, args...)) }

	if s.Plan == nil || len(s.Plan.Weeks) == 0 {
		s.Plan = NewPlan(opt.DefaultWeeks)
		fix("plan missing; replaced with %d empty weeks", len(s.Plan.Weeks))
	}
	if s.ScrollY == nil {
		var zero float32
		s.ScrollY = &zero
		fix("scrollY missing; set to 0")
	} else if *s.ScrollY < 0 {
		*s.ScrollY = 0
		fix("scrollY negative; set to 0")
	}
	if opt.Themes > 0 && (s.ThemeIndex < 0 || s.ThemeIndex >= opt.Themes) {
		fix("theme index %d unknown; set to 0", s.ThemeIndex)
		s.ThemeIndex = 0
	}
	if s.WeekIndex < 0 || s.WeekIndex >= len(s.Plan.Weeks) {
		fix("week index %d out of range; set to 0", s.WeekIndex)
		s.WeekIndex = 0
	}
	s.Version = SnapshotVersion

	seen := make(map[string]bool)
	for w := range s.Plan.Weeks {
		week := &s.Plan.Weeks[w]
		if week.Name == "" {
			week.Name = fmt.Sprintf("Week %d", w+1)
			fix("week %d unnamed", w+1)
		}
		for d := range week.Days {
			day := &week.Days[d]
			if day.Name != DayNames[d] {
				fix("week %d day %d named %q; renamed %s", w+1, d, day.Name, DayNames[d])
				day.Name = DayNames[d]
			}
			if day.Blocks == nil {
				day.Blocks = []Block{}
			}
			for i := range day.Blocks {
				repairBlock(&day.Blocks[i], Location{Week: w, Day: d, Index: i}, seen, opt.NewID, fix)
			}
		}
	}
	return fixes
}

func repairBlock(b *Block, loc Location, seen map[string]bool, newID func() string, fix func(string, ...any)) {
	if b.ID == "" || seen[b.ID] {
		old := b.ID
		b.ID = newID()
		fix("block at %s had id %q; assigned %s", loc, old, b.ID)
	}
	seen[b.ID] = true
	if b.Sets <= 0 {
		fix("block %s sets=%d; set to 1", b.ID, b.Sets)
		b.Sets = 1
	}
	if b.Reps <= 0 {
		fix("block %s reps=%d; set to 1", b.ID, b.Reps)
		b.Reps = 1
	}
	switch {
	case b.PerSet == nil:
		b.PerSet = make([]bool, b.Sets)
		fix("block %s per-set record missing; rebuilt", b.ID)
	case len(b.PerSet) != b.Sets:
		fix("block %s has %d set flags for %d sets; resized", b.ID, len(b.PerSet), b.Sets)
	}
	was := b.Done
	b.resize(b.Sets)
	if was != b.Done {
		fix("block %s done=%v disagreed with its sets", b.ID, was)
	}
}
