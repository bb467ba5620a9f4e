package model

// DragTransfer exists only while a block is being dragged.
type DragTransfer struct {
	Block   Block    // deep copy taken at pickup
	From    Location // slot the block was lifted from
	YOffset float32  // pointer y minus the handle's top edge at pickup
}

// ViewState is the per-session presentation state.
type ViewState struct {
	Theme   int
	Week    int
	ScrollY float32
	Drag    *DragTransfer
}
