package app

import (
	"errors"

	"github.com/hubastard/gymblocks/planner/hit"
	"github.com/hubastard/gymblocks/planner/images"
	"github.com/hubastard/gymblocks/planner/model"
	"github.com/hubastard/gymblocks/planner/render"
)

const pickPrompt = "Drop an image onto the window (Esc cancels)"

// Activate performs the direct action of a pressed region.
func (p *Planner) Activate(pl hit.Payload) {
	switch pl.Kind {
	case hit.KindTab:
		p.selectWeek(pl.Week)
	case hit.KindTheme:
		p.view.Theme = (p.view.Theme + 1) % len(render.Themes)
		p.commit("theme", "name", render.ThemeAt(p.view.Theme).Name)
	case hit.KindAddWeek:
		i := p.plan.AddWeek()
		p.commit("add week", "week", i)
	case hit.KindAddBlock:
		p.addBlock(pl.Week, pl.Day)
	case hit.KindUploadImage:
		p.uploadImage(pl.BlockID)
	case hit.KindPresetImage:
		p.presetImage(pl.BlockID)
	case hit.KindDeleteBlock:
		p.deleteBlock(pl.BlockID)
	case hit.KindToggleSet:
		p.toggleSet(pl.BlockID, pl.Set)
	case hit.KindEditBlock:
		p.editBlock(pl.BlockID)
	case hit.KindDuplicateBlock:
		p.duplicateBlock(pl.BlockID)
	default:
		p.logger.Debug("no action", "kind", pl.Kind)
	}
}

func (p *Planner) selectWeek(w int) {
	if w < 0 || w >= len(p.plan.Weeks) {
		p.defect(errors.New("tab for a week that does not exist"))
		return
	}
	p.view.Week = w
	p.scroll.SetExtent(0, 0)
	p.ScrollTo(0)
	p.commit("select week", "week", w)
}

// request opens a dialog unless one is already open. done runs on the loop thread.
func (p *Planner) request(req EditRequest, done func(EditResult)) {
	if p.editing {
		p.logger.Debug("dialog already open", "kind", req.Kind)
		return
	}
	p.editing = true
	p.deps.Editor.Request(req, func(res EditResult) {
		p.Post(func() {
			p.editing = false
			if res.OK {
				done(res)
			}
		})
	})
}

func (p *Planner) addBlock(week, day int) {
	add := func(f model.Fields, img string) {
		b := model.NewBlock(p.opt.NewID(), normalizeFields(f))
		b.Image = img
		if err := p.plan.AddBlock(week, day, b); err != nil {
			p.defect(err)
			return
		}
		p.commit("add block", "id", b.ID, "at", model.Location{Week: week, Day: day, Index: len(p.plan.Weeks[week].Days[day].Blocks) - 1})
	}
	if p.deps.Editor == nil {
		add(model.Fields{}, "")
		return
	}
	p.request(EditRequest{Kind: EditCreate, Week: week, Day: day, Presets: p.opt.Presets}, func(res EditResult) {
		if _, err := p.plan.Day(week, day); err != nil {
			p.logger.Debug("day gone; dropping new block", "week", week, "day", day)
			return
		}
		add(res.Fields, res.Image)
	})
}

func (p *Planner) editBlock(id string) {
	b, ok := p.plan.Block(id)
	if !ok || p.deps.Editor == nil {
		return
	}
	p.request(EditRequest{Kind: EditUpdate, BlockID: id, Current: b.Fields()}, func(res EditResult) {
		if err := p.plan.UpdateBlock(id, normalizeFields(res.Fields)); err != nil {
			p.logger.Debug("edit dropped", "id", id, "err", err)
			return
		}
		p.commit("edit block", "id", id)
	})
}

func (p *Planner) deleteBlock(id string) {
	b, ok := p.plan.Block(id)
	if !ok {
		return
	}
	del := func() {
		loc, ok := p.plan.Locate(id)
		if !ok {
			p.logger.Debug("delete dropped; block gone", "id", id)
			return
		}
		if _, err := p.plan.DeleteBlock(loc.Week, loc.Day, loc.Index); err != nil {
			p.defect(err)
			return
		}
		p.commit("delete block", "id", id, "at", loc)
	}
	if p.deps.Editor == nil {
		del()
		return
	}
	p.request(EditRequest{Kind: EditConfirmDelete, BlockID: id, Current: b.Fields()}, func(EditResult) { del() })
}

func (p *Planner) duplicateBlock(id string) {
	loc, ok := p.plan.Locate(id)
	if !ok {
		return
	}
	cp, err := p.plan.DuplicateBlock(loc.Week, loc.Day, loc.Index, p.opt.NewID())
	if err != nil {
		p.defect(err)
		return
	}
	p.commit("duplicate block", "id", id, "copy", cp.ID)
}

func (p *Planner) toggleSet(id string, set int) {
	b, ok := p.plan.Block(id)
	if !ok {
		return
	}
	if err := b.ToggleSet(set); err != nil {
		p.defect(err)
		return
	}
	p.commit("toggle set", "id", id, "set", set, "done", b.Done)
}

func (p *Planner) presetImage(id string) {
	if _, ok := p.plan.Block(id); !ok || p.deps.Editor == nil {
		return
	}
	refs := p.opt.PresetImages
	if len(refs) == 0 {
		for _, k := range images.PresetKeys() {
			refs = append(refs, images.PresetRef(k))
		}
	}
	p.request(EditRequest{Kind: EditChoosePresetImage, BlockID: id, Images: refs}, func(res EditResult) {
		p.setImage(id, res.Image)
	})
}

// uploadImage waits for the picker off the loop thread, stores the bytes, then points the
// block at the stored image.
func (p *Planner) uploadImage(id string) {
	if p.deps.Picker == nil || p.deps.Images == nil || p.picking {
		return
	}
	if _, ok := p.plan.Block(id); !ok {
		return
	}
	p.picking = true
	p.showToast(pickPrompt, true)

	go func() {
		data, err := p.deps.Picker.Pick(p.ctx)
		var ref string
		if err == nil {
			ref, err = p.deps.Images.PutImage(p.ctx, data)
		}
		p.Post(func() {
			p.picking = false
			p.clearToast(pickPrompt)
			switch {
			case errors.Is(err, images.ErrCancelled):
				p.logger.Debug("image pick cancelled", "id", id)
			case err != nil:
				p.logger.Warn("image upload failed", "id", id, "err", err)
				p.showToast("Image upload failed", false)
			default:
				p.setImage(id, ref)
			}
		})
	}()
}

func (p *Planner) setImage(id, ref string) {
	if err := p.plan.SetImage(id, ref); err != nil {
		p.logger.Debug("image dropped; block gone", "id", id, "ref", ref)
		return
	}
	p.commit("set image", "id", id, "ref", ref)
}
