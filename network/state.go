// Package network is the bubble simulation: an immutable State advanced by a
// pure reducer, and a Controller that owns the settle timer and serializes
// events onto a single loop.
package network

import (
	"choopy/connections"
	"choopy/core"
	"choopy/geometry"
)

// Params are the fixed bubble dimensions used by every pass.
type Params struct {
	Radius     float64 // bubble radius; overlapping pairs are pushed to 2*Radius
	Size       float64 // bubble box edge used for clamping and hit-testing
	LinkFactor float64 // auto-link threshold as a multiple of Radius
}

// DefaultParams returns the 30px radius / 60px box bubbles.
func DefaultParams() Params {
	return Params{Radius: 30, Size: 60, LinkFactor: 3}
}

// LinkThreshold returns the auto-link distance.
func (p Params) LinkThreshold() float64 {
	return p.Radius * p.LinkFactor
}

// State is a snapshot of the simulation. Transitions never edit a State in
// place; Nodes and Links are replaced wholesale, so a snapshot handed to the
// renderer stays consistent.
type State struct {
	Params Params

	Nodes []core.Node
	Links connections.Graph

	Mode        Mode
	Dragged     int        // core.NoNode unless dragging
	LastPointer core.Point // valid only while dragging

	Hovered int // core.NoNode when nothing is hovered

	Bounds core.Size // container measurement, zero when unavailable
}

// NewState returns an empty, idle simulation.
func NewState(params Params) State {
	return State{
		Params:  params,
		Links:   connections.Graph{},
		Mode:    ModeIdle,
		Dragged: core.NoNode,
		Hovered: core.NoNode,
	}
}

// NodeAt returns the id of the topmost node whose bubble contains p. Later
// nodes are drawn over earlier ones, so the search runs back to front.
func (s State) NodeAt(p core.Point) int {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		if s.Nodes[i].Contains(p, s.Params.Size) {
			return s.Nodes[i].ID
		}
	}
	return core.NoNode
}

// Node returns the node with the given id.
func (s State) Node(id int) (core.Node, bool) {
	i := core.FindNode(s.Nodes, id)
	if i < 0 {
		return core.Node{}, false
	}
	return s.Nodes[i], true
}

// Reduce applies one event and returns the next state together with any
// side effect the owner must carry out.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case Loaded:
		s.Nodes = core.CloneNodes(ev.Nodes)
		return s, EffectNone

	case Resized:
		s.Bounds = ev.Bounds
		return s, EffectNone

	case Press:
		id := s.NodeAt(ev.At)
		if id == core.NoNode {
			return s, EffectNone
		}
		return Reduce(s, Grab{ID: id, At: ev.At})

	case Grab:
		if _, ok := s.Node(ev.ID); !ok {
			return s, EffectNone
		}
		s.Mode = ModeDragging
		s.Dragged = ev.ID
		s.LastPointer = ev.At
		return s, EffectArmSettle

	case Move:
		return move(s, ev.At)

	case Release:
		s.Mode = ModeIdle
		s.Dragged = core.NoNode
		s.LastPointer = core.Point{}
		return s, EffectNone

	case Settle:
		s.Links, _ = connections.AutoLink(s.Links, s.Nodes, ev.ID, s.Params.LinkThreshold())
		return s, EffectNone

	case Unbind:
		s.Links = connections.Unlink(s.Links, ev.ID)
		return s, EffectNone

	case DoubleClick:
		id := s.NodeAt(ev.At)
		if id == core.NoNode {
			return s, EffectNone
		}
		return Reduce(s, Unbind{ID: id})

	case HoverNode:
		s.Hovered = ev.ID
		return s, EffectNone

	case Hover:
		s.Hovered = s.NodeAt(ev.At)
		return s, EffectNone
	}

	return s, EffectNone
}

// move applies a pointer delta to the dragged node and carries its linked
// assembly along, then runs the overlap and boundary passes.
func move(s State, at core.Point) (State, Effect) {
	if s.Mode != ModeDragging {
		return s, EffectNone
	}
	idx := core.FindNode(s.Nodes, s.Dragged)
	if idx < 0 {
		return s, EffectNone
	}

	delta := at.Sub(s.LastPointer)
	nodes := core.CloneNodes(s.Nodes)
	nodes[idx].Pos = nodes[idx].Pos.Add(delta)
	nodes = connections.Propagate(nodes, s.Links, s.Dragged)

	s.Nodes = geometry.Settle(nodes, s.Bounds, s.Params.Radius, s.Params.Size)
	s.LastPointer = at
	return s, EffectArmSettle
}
