// Package reorder moves a block between day lists as a single step.
package reorder

import (
	"errors"
	"fmt"

	"github.com/hubastard/gymblocks/planner/model"
)

var (
	ErrStaleSource     = errors.New("source slot does not hold the dragged block")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Move takes the block at from out of its day and inserts it at to.Index of the destination
// day. to.Index counts slots in the destination list after the removal, so moving within one
// day never has to correct for the gap the block leaves behind.
//
// snap is the copy taken when the drag started; it must still name the block at from.
// The block carried over is the live one, so edits that landed during the drag survive.
// On error the plan is unchanged.
func Move(p *model.Plan, from, to model.Location, snap model.Block) error {
	src, err := p.Day(from.Week, from.Day)
	if err != nil {
		return fmt.Errorf("move from %s: %w", from, ErrIndexOutOfRange)
	}
	if from.Index < 0 || from.Index >= len(src.Blocks) {
		return fmt.Errorf("move from %s: %w", from, ErrIndexOutOfRange)
	}
	moving := src.Blocks[from.Index]
	if moving.ID != snap.ID {
		return fmt.Errorf("move %q from %s found %q: %w", snap.ID, from, moving.ID, ErrStaleSource)
	}

	dst, err := p.Day(to.Week, to.Day)
	if err != nil {
		return fmt.Errorf("move to %s: %w", to, ErrIndexOutOfRange)
	}
	same := src == dst
	if n := PostRemovalLen(len(dst.Blocks), same); to.Index < 0 || to.Index > n {
		return fmt.Errorf("move to %s of %d slots: %w", to, n, ErrIndexOutOfRange)
	}

	rest := make([]model.Block, 0, len(src.Blocks)-1)
	rest = append(rest, src.Blocks[:from.Index]...)
	rest = append(rest, src.Blocks[from.Index+1:]...)
	if same {
		src.Blocks = insert(rest, to.Index, moving)
		return nil
	}
	moved := insert(dst.Blocks, to.Index, moving)
	src.Blocks, dst.Blocks = rest, moved
	return nil
}

// IsNoop reports whether dropping at to puts the block back where it came from.
func IsNoop(from, to model.Location) bool { return from == to }

// PostRemovalLen is the destination length once the dragged block has left its day.
func PostRemovalLen(n int, sameDay bool) int {
	if sameDay {
		return n - 1
	}
	return n
}

// ClampIndex bounds a raw slot index to [0, n].
func ClampIndex(i, n int) int { return max(0, min(i, n)) }

func insert(list []model.Block, at int, b model.Block) []model.Block {
	out := make([]model.Block, 0, len(list)+1)
	out = append(out, list[:at]...)
	out = append(out, b)
	return append(out, list[at:]...)
}
