package app

import (
	"github.com/hubastard/gymblocks/planner/hit"
	"github.com/hubastard/gymblocks/planner/model"
	"github.com/hubastard/gymblocks/planner/reorder"
)

// BeginDrag lifts the block under a handle. The plan is not touched until the drop.
func (p *Planner) BeginDrag(pl hit.Payload, yOffset float32) bool {
	from := model.Location{Week: pl.Week, Day: pl.Day, Index: pl.Block}
	b, err := p.plan.At(from)
	if err != nil || b.ID != pl.BlockID {
		p.logger.Debug("drag refused; handle is stale", "at", from, "id", pl.BlockID)
		return false
	}
	p.view.Drag = &model.DragTransfer{Block: b.Clone(), From: from, YOffset: yOffset}
	p.logger.Debug("drag start", "id", b.ID, "from", from)
	return true
}

// EndDrag drops the carried block at (x, y). Dropping outside every day, or back onto the
// slot it came from, changes nothing.
func (p *Planner) EndDrag(x, y float32) {
	drag := p.view.Drag
	if drag == nil {
		return
	}
	p.view.Drag = nil
	// the source slot is visible again; measure drop slots against that layout
	p.clamp()

	day, index, ok := p.geom.DropAt(x, y)
	if !ok {
		p.logger.Debug("drop outside the days", "id", drag.Block.ID)
		return
	}
	// a dialog reply may have removed or shifted the block mid-drag
	if b, err := p.plan.At(drag.From); err != nil || b.ID != drag.Block.ID {
		p.logger.Warn("drop abandoned; source slot changed during the drag", "id", drag.Block.ID, "from", drag.From)
		return
	}
	to := model.Location{Week: drag.From.Week, Day: day}
	dst := &p.plan.Weeks[to.Week].Days[day]
	n := reorder.PostRemovalLen(len(dst.Blocks), day == drag.From.Day)
	to.Index = reorder.ClampIndex(index, n)
	if reorder.IsNoop(drag.From, to) {
		return
	}

	if err := reorder.Move(p.plan, drag.From, to, drag.Block); err != nil {
		p.defect(err)
		return
	}
	p.commit("move block", "id", drag.Block.ID, "from", drag.From, "to", to)
}
