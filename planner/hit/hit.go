// Package hit names the interactive regions of the board and what each one carries.
package hit

import (
	"fmt"

	"github.com/hubastard/gymblocks/engine/ui"
)

type Kind int

const (
	KindNone Kind = iota
	KindTab
	KindTheme
	KindAddWeek
	KindAddBlock
	KindUploadImage
	KindPresetImage
	KindDeleteBlock
	KindToggleSet
	KindDragHandle
	KindEditBlock
	KindDuplicateBlock
)

var kindNames = [...]string{
	KindNone:           "none",
	KindTab:            "tab",
	KindTheme:          "theme",
	KindAddWeek:        "addWeek",
	KindAddBlock:       "addBlock",
	KindUploadImage:    "uploadImage",
	KindPresetImage:    "presetImage",
	KindDeleteBlock:    "deleteBlock",
	KindToggleSet:      "toggleSet",
	KindDragHandle:     "dragHandle",
	KindEditBlock:      "editBlock",
	KindDuplicateBlock: "duplicateBlock",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Payload identifies the target of a region. Fields a kind doesn't use stay zero.
type Payload struct {
	Kind    Kind
	Week    int
	Day     int
	Block   int
	Set     int
	BlockID string
}

type (
	Registry = ui.HitRegistry[Payload]
	Region   = ui.Region[Payload]
)

// NewRegistry sizes the registry for a typical week.
func NewRegistry() *Registry { return ui.NewHitRegistry[Payload](256) }
