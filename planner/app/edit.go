package app

import (
	"strings"

	"github.com/hubastard/gymblocks/planner/model"
)

type EditKind int

const (
	// EditCreate asks for a new block: a preset or custom fields.
	EditCreate EditKind = iota
	// EditUpdate asks for new fields for an existing block.
	EditUpdate
	// EditConfirmDelete asks whether to delete a block.
	EditConfirmDelete
	// EditChoosePresetImage asks for one of the preset icons.
	EditChoosePresetImage
)

func (k EditKind) String() string {
	switch k {
	case EditCreate:
		return "create"
	case EditUpdate:
		return "update"
	case EditConfirmDelete:
		return "confirmDelete"
	case EditChoosePresetImage:
		return "choosePresetImage"
	}
	return "unknown"
}

// Preset is an exercise template offered by EditCreate.
type Preset struct {
	Name   string
	Fields model.Fields
	Image  string // image ref, may be empty
}

// EditRequest describes one dialog. Fields a kind doesn't use stay zero.
type EditRequest struct {
	Kind    EditKind
	Week    int
	Day     int
	BlockID string
	Current model.Fields // EditUpdate, EditConfirmDelete
	Presets []Preset     // EditCreate
	Images  []string     // EditChoosePresetImage: selectable refs
}

// EditResult is the user's answer. OK false means cancelled.
type EditResult struct {
	OK     bool
	Fields model.Fields // EditCreate, EditUpdate
	Image  string       // EditCreate (from a preset), EditChoosePresetImage
}

// Editor runs dialogs outside the frame loop. reply may be called from any goroutine,
// exactly once per request.
type Editor interface {
	Request(req EditRequest, reply func(EditResult))
}

const (
	defaultName = "Custom Exercise"
	defaultSets = 4
	defaultReps = 10
)

// normalizeFields fills what a dialog left empty or invalid.
func normalizeFields(f model.Fields) model.Fields {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		f.Name = defaultName
	}
	if f.Sets <= 0 {
		f.Sets = defaultSets
	}
	if f.Reps <= 0 {
		f.Reps = defaultReps
	}
	f.Weight = strings.TrimSpace(f.Weight)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}
