package network

import "choopy/core"

// Event is an input to the reducer. Positional events carry container-local
// pixel coordinates; the UI layer converts mouse or touch input into a
// single point before dispatching.
type Event interface {
	event()
}

// Loaded replaces the node list once the data set arrives.
type Loaded struct {
	Nodes []core.Node
}

// Resized records a new container measurement. A zero size means the
// container could not be measured.
type Resized struct {
	Bounds core.Size
}

// Grab starts dragging the node with the given id.
type Grab struct {
	ID int
	At core.Point
}

// Press starts dragging whichever node lies under the pointer.
type Press struct {
	At core.Point
}

// Move reports the pointer's new position while it may be dragging.
type Move struct {
	At core.Point
}

// Release ends the drag (pointer up, pointer leave, touch end).
type Release struct{}

// Settle runs the auto-link scan for the given node. It is normally
// dispatched by the settle timer, not by the UI.
type Settle struct {
	ID int
}

// Unbind severs every link of the given node.
type Unbind struct {
	ID int
}

// DoubleClick unbinds whichever node lies under the pointer.
type DoubleClick struct {
	At core.Point
}

// HoverNode sets the hovered node; core.NoNode clears it.
type HoverNode struct {
	ID int
}

// Hover sets the hovered node to whichever node lies under the pointer.
type Hover struct {
	At core.Point
}

// Refresh changes nothing; it asks the owner to redraw.
type Refresh struct{}

func (Loaded) event()      {}
func (Resized) event()     {}
func (Grab) event()        {}
func (Press) event()       {}
func (Move) event()        {}
func (Release) event()     {}
func (Settle) event()      {}
func (Unbind) event()      {}
func (DoubleClick) event() {}
func (HoverNode) event()   {}
func (Hover) event()       {}
func (Refresh) event()     {}
