// Package model holds the workout plan: weeks of seven days, each an ordered list of blocks.
//
// All mutation goes through methods on *Plan so the invariants hold after every call:
// block ids are unique plan-wide, len(PerSet) == Sets, and Done == all(PerSet).
package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// DaysPerWeek is fixed; weekday order never changes.
const DaysPerWeek = 7

// DefaultWeeks is the number of weeks in a fresh plan.
const DefaultWeeks = 4

var DayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var (
	ErrInvariant  = errors.New("plan invariant violated")
	ErrOutOfRange = errors.New("location out of range")
	ErrNotFound   = errors.New("block not found")
)

// NewID returns a fresh block id.
func NewID() string { return uuid.NewString() }

type Block struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Sets   int    `json:"sets"`
	Reps   int    `json:"reps"`
	Weight string `json:"weight,omitempty"`
	Notes  string `json:"notes,omitempty"`
	Image  string `json:"img,omitempty"`
	PerSet []bool `json:"perSet"`
	Done   bool   `json:"done"`
}

// Fields are the user-editable parts of a block.
type Fields struct {
	Name   string
	Sets   int
	Reps   int
	Weight string
	Notes  string
}

// NewBlock builds a block with an all-false per-set record.
func NewBlock(id string, f Fields) Block {
	b := Block{ID: id}
	b.apply(f)
	return b
}

func (b *Block) Fields() Fields {
	return Fields{Name: b.Name, Sets: b.Sets, Reps: b.Reps, Weight: b.Weight, Notes: b.Notes}
}

func (b *Block) apply(f Fields) {
	b.Name, b.Reps, b.Weight, b.Notes = f.Name, f.Reps, f.Weight, f.Notes
	b.resize(f.Sets)
}

func checkFields(f Fields) error {
	if f.Sets <= 0 || f.Reps <= 0 {
		return fmt.Errorf("sets=%d reps=%d: %w", f.Sets, f.Reps, ErrInvariant)
	}
	return nil
}

// resize keeps the leading per-set entries and pads with false.
func (b *Block) resize(sets int) {
	b.Sets = sets
	switch {
	case len(b.PerSet) > sets:
		b.PerSet = b.PerSet[:sets:sets]
	case len(b.PerSet) < sets:
		b.PerSet = append(b.PerSet, make([]bool, sets-len(b.PerSet))...)
	}
	b.syncDone()
}

func (b *Block) syncDone() {
	b.Done = len(b.PerSet) > 0
	for _, v := range b.PerSet {
		if !v {
			b.Done = false
			return
		}
	}
}

// ToggleSet flips one set's completion and keeps Done in sync.
func (b *Block) ToggleSet(i int) error {
	if i < 0 || i >= len(b.PerSet) {
		return fmt.Errorf("toggle set %d of %d: %w", i, len(b.PerSet), ErrOutOfRange)
	}
	b.PerSet[i] = !b.PerSet[i]
	b.syncDone()
	return nil
}

// CompletedSets counts the sets marked done.
func (b *Block) CompletedSets() int {
	n := 0
	for _, v := range b.PerSet {
		if v {
			n++
		}
	}
	return n
}

func (b Block) Clone() Block {
	b.PerSet = append([]bool(nil), b.PerSet...)
	return b
}

type Day struct {
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks"`
}

// Progress is the share of done blocks, in [0,1].
func (d *Day) Progress() float32 {
	if len(d.Blocks) == 0 {
		return 0
	}
	done := 0
	for i := range d.Blocks {
		if d.Blocks[i].Done {
			done++
		}
	}
	return float32(done) / float32(len(d.Blocks))
}

type Week struct {
	Name string           `json:"name"`
	Days [DaysPerWeek]Day `json:"days"`
}

func newWeek(n int) Week {
	w := Week{Name: fmt.Sprintf("Week %d", n)}
	for d := range w.Days {
		w.Days[d] = Day{Name: DayNames[d], Blocks: []Block{}}
	}
	return w
}

// BlockCount is the number of blocks across all days of the week.
func (w *Week) BlockCount() int {
	n := 0
	for d := range w.Days {
		n += len(w.Days[d].Blocks)
	}
	return n
}

type Plan struct {
	Weeks []Week `json:"weeks"`
}

// Location addresses one block slot.
type Location struct {
	Week  int `json:"week"`
	Day   int `json:"day"`
	Index int `json:"index"`
}

func (l Location) String() string { return fmt.Sprintf("w%d/%s/#%d", l.Week, dayName(l.Day), l.Index) }

func dayName(d int) string {
	if d < 0 || d >= DaysPerWeek {
		return fmt.Sprintf("day%d", d)
	}
	return DayNames[d]
}

// NewPlan returns weeks empty weeks named "Week 1".."Week n".
func NewPlan(weeks int) *Plan {
	if weeks <= 0 {
		weeks = DefaultWeeks
	}
	p := &Plan{Weeks: make([]Week, 0, weeks)}
	for range weeks {
		p.AddWeek()
	}
	return p
}

// AddWeek appends an empty week and returns its index.
func (p *Plan) AddWeek() int {
	p.Weeks = append(p.Weeks, newWeek(len(p.Weeks)+1))
	return len(p.Weeks) - 1
}

// Day returns the day at (week, day).
func (p *Plan) Day(week, day int) (*Day, error) {
	if week < 0 || week >= len(p.Weeks) || day < 0 || day >= DaysPerWeek {
		return nil, fmt.Errorf("day w%d/%d: %w", week, day, ErrOutOfRange)
	}
	return &p.Weeks[week].Days[day], nil
}

// At returns the block at loc.
func (p *Plan) At(loc Location) (*Block, error) {
	d, err := p.Day(loc.Week, loc.Day)
	if err != nil {
		return nil, err
	}
	if loc.Index < 0 || loc.Index >= len(d.Blocks) {
		return nil, fmt.Errorf("block %s: %w", loc, ErrOutOfRange)
	}
	return &d.Blocks[loc.Index], nil
}

// AddBlock appends b to the end of the day.
func (p *Plan) AddBlock(week, day int, b Block) error {
	d, err := p.Day(week, day)
	if err != nil {
		return err
	}
	if _, dup := p.Locate(b.ID); dup {
		return fmt.Errorf("add block %q: duplicate id: %w", b.ID, ErrInvariant)
	}
	if err := checkFields(b.Fields()); err != nil {
		return fmt.Errorf("add block %q: %w", b.ID, err)
	}
	b = b.Clone()
	b.resize(b.Sets)
	d.Blocks = append(d.Blocks, b)
	return nil
}

// DeleteBlock removes and returns the block at (week, day, index).
func (p *Plan) DeleteBlock(week, day, index int) (Block, error) {
	loc := Location{Week: week, Day: day, Index: index}
	b, err := p.At(loc)
	if err != nil {
		return Block{}, err
	}
	removed := *b
	d := &p.Weeks[week].Days[day]
	out := make([]Block, 0, len(d.Blocks)-1)
	out = append(out, d.Blocks[:index]...)
	d.Blocks = append(out, d.Blocks[index+1:]...)
	return removed, nil
}

// DuplicateBlock inserts a copy right after the original with completion reset.
func (p *Plan) DuplicateBlock(week, day, index int, newID string) (Block, error) {
	b, err := p.At(Location{Week: week, Day: day, Index: index})
	if err != nil {
		return Block{}, err
	}
	if _, dup := p.Locate(newID); dup {
		return Block{}, fmt.Errorf("duplicate block: id %q in use: %w", newID, ErrInvariant)
	}
	cp := NewBlock(newID, b.Fields())
	cp.Image = b.Image

	d := &p.Weeks[week].Days[day]
	out := make([]Block, 0, len(d.Blocks)+1)
	out = append(out, d.Blocks[:index+1]...)
	out = append(out, cp)
	out = append(out, d.Blocks[index+1:]...)
	d.Blocks = out
	return cp, nil
}

// UpdateBlock rewrites the editable fields of the block with id.
func (p *Plan) UpdateBlock(id string, f Fields) error {
	b, ok := p.Block(id)
	if !ok {
		return fmt.Errorf("update block %q: %w", id, ErrNotFound)
	}
	if err := checkFields(f); err != nil {
		return fmt.Errorf("update block %q: %w", id, err)
	}
	b.apply(f)
	return nil
}

// SetImage points the block's thumbnail at ref; empty clears it.
func (p *Plan) SetImage(id, ref string) error {
	b, ok := p.Block(id)
	if !ok {
		return fmt.Errorf("set image on %q: %w", id, ErrNotFound)
	}
	b.Image = ref
	return nil
}

// Block finds a block by id anywhere in the plan.
func (p *Plan) Block(id string) (*Block, bool) {
	loc, ok := p.Locate(id)
	if !ok {
		return nil, false
	}
	return &p.Weeks[loc.Week].Days[loc.Day].Blocks[loc.Index], true
}

// Locate returns where the block with id lives.
func (p *Plan) Locate(id string) (Location, bool) {
	if id == "" {
		return Location{}, false
	}
	for w := range p.Weeks {
		for d := range p.Weeks[w].Days {
			for i := range p.Weeks[w].Days[d].Blocks {
				if p.Weeks[w].Days[d].Blocks[i].ID == id {
					return Location{Week: w, Day: d, Index: i}, true
				}
			}
		}
	}
	return Location{}, false
}

// Clone deep-copies the plan.
func (p *Plan) Clone() *Plan {
	out := &Plan{Weeks: make([]Week, len(p.Weeks))}
	for w := range p.Weeks {
		out.Weeks[w].Name = p.Weeks[w].Name
		for d := range p.Weeks[w].Days {
			src := p.Weeks[w].Days[d]
			blocks := make([]Block, len(src.Blocks))
			for i := range src.Blocks {
				blocks[i] = src.Blocks[i].Clone()
			}
			out.Weeks[w].Days[d] = Day{Name: src.Name, Blocks: blocks}
		}
	}
	return out
}

// Validate reports the first broken invariant, wrapped in ErrInvariant.
func (p *Plan) Validate() error {
	seen := make(map[string]Location)
	for w := range p.Weeks {
		for d := range p.Weeks[w].Days {
			for i, b := range p.Weeks[w].Days[d].Blocks {
				loc := Location{Week: w, Day: d, Index: i}
				if b.ID == "" {
					return fmt.Errorf("block at %s has no id: %w", loc, ErrInvariant)
				}
				if prev, dup := seen[b.ID]; dup {
					return fmt.Errorf("block %q at %s and %s: %w", b.ID, prev, loc, ErrInvariant)
				}
				seen[b.ID] = loc
				if b.Sets <= 0 || b.Reps <= 0 {
					return fmt.Errorf("block %q sets=%d reps=%d: %w", b.ID, b.Sets, b.Reps, ErrInvariant)
				}
				if len(b.PerSet) != b.Sets {
					return fmt.Errorf("block %q has %d set flags for %d sets: %w", b.ID, len(b.PerSet), b.Sets, ErrInvariant)
				}
				want := b
				want.syncDone()
				if want.Done != b.Done {
					return fmt.Errorf("block %q done=%v disagrees with its sets: %w", b.ID, b.Done, ErrInvariant)
				}
			}
		}
	}
	return nil
}

// StarterPlan is the plan shown on first run.
func StarterPlan(weeks int, newID func() string) *Plan {
	p := NewPlan(weeks)
	seed := []struct {
		day        int
		name       string
		sets, reps int
	}{
		{0, "Bench Press", 4, 8},
		{0, "Incline DB Press", 3, 12},
		{2, "Deadlift", 5, 5},
		{2, "Lat Pulldown", 4, 10},
		{4, "Back Squat", 5, 5},
	}
	for _, s := range seed {
		b := NewBlock(newID(), Fields{Name: s.name, Sets: s.sets, Reps: s.reps})
		_ = p.AddBlock(0, s.day, b)
	}
	return p
}
