// Package gesture turns raw pointer input into one of three gestures: a button press,
// a vertical scroll, or a drag of a block by its handle.
package gesture

import "github.com/hubastard/gymblocks/planner/hit"

type State int

const (
	Idle State = iota
	Scrolling
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scrolling:
		return "scrolling"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Target is the state the controller acts on. Every method runs on the loop thread and
// must return without blocking.
type Target interface {
	HitTest(x, y float32) (hit.Region, bool)
	// Activate performs a direct action.
	Activate(p hit.Payload)
	ScrollOffset() float32
	// ScrollTo clamps and applies a new offset; it reports whether anything moved.
	ScrollTo(y float32) bool
	// BeginDrag lifts the block named by p. It returns false if the block is gone.
	BeginDrag(p hit.Payload, yOffset float32) bool
	// EndDrag drops the carried block at (x, y), or abandons it when no day is there,
	// and always discards the drag.
	EndDrag(x, y float32)
	Invalidate()
}

type Controller struct {
	target Target
	state  State

	held         bool
	downY        float32
	scrollAtDown float32
	x, y         float32
}

func New(t Target) *Controller { return &Controller{target: t} }

func (c *Controller) State() State { return c.state }

// Pointer is the last known pointer position.
func (c *Controller) Pointer() (x, y float32) { return c.x, c.y }

func (c *Controller) Down(x, y float32) {
	if c.state == Dragging {
		return
	}
	c.x, c.y = x, y
	c.held = true
	c.downY = y
	c.scrollAtDown = c.target.ScrollOffset()
	c.state = Idle

	r, ok := c.target.HitTest(x, y)
	if !ok {
		return
	}
	if r.Tag.Kind == hit.KindDragHandle {
		// Bounds, not the clipped rect: a handle half under the tabs keeps its true top.
		if c.target.BeginDrag(r.Tag, y-r.Bounds.Y) {
			c.state = Dragging
			c.target.Invalidate()
		}
		return
	}
	c.target.Activate(r.Tag)
}

func (c *Controller) Move(x, y float32) {
	c.x, c.y = x, y
	switch {
	case c.state == Dragging:
		c.target.Invalidate()
	case c.held:
		c.state = Scrolling
		if c.target.ScrollTo(c.scrollAtDown + (c.downY - y)) {
			c.target.Invalidate()
		}
	}
}

func (c *Controller) Up(x, y float32) {
	c.x, c.y = x, y
	if c.state == Dragging {
		c.target.EndDrag(x, y)
		c.target.Invalidate()
	}
	c.held = false
	c.state = Idle
}
