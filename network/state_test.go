package network

import (
	"testing"

	"choopy/connections"
	"choopy/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedState(points ...core.Point) State {
	nodes := make([]core.Node, len(points))
	for i, p := range points {
		nodes[i] = core.Node{ID: i, Paper: core.Paper{Name: "p"}, Pos: p}
	}
	s, _ := Reduce(NewState(DefaultParams()), Loaded{Nodes: nodes})
	return s
}

func apply(t *testing.T, s State, events ...Event) State {
	t.Helper()
	for _, ev := range events {
		s, _ = Reduce(s, ev)
	}
	return s
}

func TestGrabAndRelease(t *testing.T) {
	s := loadedState(core.Point{X: 10, Y: 10})

	s, effect := Reduce(s, Grab{ID: 0, At: core.Point{X: 20, Y: 20}})
	assert.Equal(t, EffectArmSettle, effect)
	assert.Equal(t, ModeDragging, s.Mode)
	assert.Equal(t, 0, s.Dragged)
	assert.Equal(t, core.Point{X: 20, Y: 20}, s.LastPointer)

	s, effect = Reduce(s, Release{})
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, ModeIdle, s.Mode)
	assert.Equal(t, core.NoNode, s.Dragged)
}

func TestGrabUnknownNodeStaysIdle(t *testing.T) {
	s := loadedState(core.Point{})
	s, effect := Reduce(s, Grab{ID: 42})
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, ModeIdle, s.Mode)
}

func TestPressHitTestsTopmost(t *testing.T) {
	s := loadedState(core.Point{X: 0, Y: 0}, core.Point{X: 30, Y: 0})

	s, _ = Reduce(s, Press{At: core.Point{X: 40, Y: 10}})
	assert.Equal(t, 1, s.Dragged, "later node is drawn on top")

	s = apply(t, s, Release{}, Press{At: core.Point{X: 500, Y: 500}})
	assert.Equal(t, ModeIdle, s.Mode, "press on empty space grabs nothing")
}

func TestMoveAppliesDelta(t *testing.T) {
	s := loadedState(core.Point{X: 100, Y: 100}, core.Point{X: 400, Y: 400})
	s = apply(t, s, Grab{ID: 0, At: core.Point{X: 110, Y: 110}})

	s, effect := Reduce(s, Move{At: core.Point{X: 125, Y: 90}})

	assert.Equal(t, EffectArmSettle, effect)
	assert.Equal(t, core.Point{X: 115, Y: 80}, s.Nodes[0].Pos)
	assert.Equal(t, core.Point{X: 400, Y: 400}, s.Nodes[1].Pos)
	assert.Equal(t, core.Point{X: 125, Y: 90}, s.LastPointer)
}

func TestMoveWhileIdleIsIgnored(t *testing.T) {
	s := loadedState(core.Point{X: 100, Y: 100})
	next, effect := Reduce(s, Move{At: core.Point{X: 0, Y: 0}})
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, s.Nodes, next.Nodes)
	assert.Equal(t, s.LastPointer, next.LastPointer)
}

func TestMoveRigidPropagation(t *testing.T) {
	s := loadedState(core.Point{X: 100, Y: 100}, core.Point{X: 200, Y: 100})
	// linked at +(80,0); B has drifted to (200,100) since
	s.Links = connections.Graph{}.Link(0, 1, core.Offset{X: 80})

	s = apply(t, s,
		Grab{ID: 0, At: core.Point{X: 110, Y: 110}},
		Move{At: core.Point{X: 130, Y: 120}},
	)

	assert.Equal(t, core.Point{X: 120, Y: 110}, s.Nodes[0].Pos)
	assert.Equal(t, core.Point{X: 200, Y: 110}, s.Nodes[1].Pos, "follower sits at anchor + recorded offset")
	assert.NotEqual(t, core.Point{X: 220, Y: 110}, s.Nodes[1].Pos)
}

func TestMoveClampsToBounds(t *testing.T) {
	s := loadedState(core.Point{X: 10, Y: 10})
	s = apply(t, s,
		Resized{Bounds: core.Size{W: 300, H: 200}},
		Grab{ID: 0, At: core.Point{X: 20, Y: 20}},
		Move{At: core.Point{X: 900, Y: -50}},
	)
	assert.Equal(t, core.Point{X: 240, Y: 0}, s.Nodes[0].Pos)
}

func TestMoveStaleDraggedIDIsNoop(t *testing.T) {
	s := loadedState(core.Point{X: 10, Y: 10})
	s = apply(t, s, Grab{ID: 0, At: core.Point{}})
	s, _ = Reduce(s, Loaded{Nodes: []core.Node{{ID: 5, Pos: core.Point{X: 1, Y: 1}}}})

	next, effect := Reduce(s, Move{At: core.Point{X: 50, Y: 50}})

	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, s.Nodes, next.Nodes)
	assert.Equal(t, core.Point{}, next.LastPointer, "pointer stays at the grab")
}

func TestSettleLinksNearbyNodes(t *testing.T) {
	s := loadedState(core.Point{X: 0, Y: 0}, core.Point{X: 70, Y: 0}, core.Point{X: 300, Y: 0})

	s = apply(t, s, Settle{ID: 0})

	require.True(t, s.Links.Linked(0, 1))
	require.True(t, s.Links.Linked(1, 0))
	assert.Equal(t, s.Links[0][1].Neg(), s.Links[1][0])
	assert.False(t, s.Links.Has(2))
}

func TestDoubleClickUnbinds(t *testing.T) {
	s := loadedState(core.Point{X: 0, Y: 0}, core.Point{X: 70, Y: 0})
	s = apply(t, s, Settle{ID: 0})
	require.True(t, s.Links.Has(0))

	s = apply(t, s, DoubleClick{At: core.Point{X: 5, Y: 5}})

	assert.False(t, s.Links.Has(0))
	assert.False(t, s.Links.Has(1))
}

func TestHover(t *testing.T) {
	s := loadedState(core.Point{X: 0, Y: 0}, core.Point{X: 200, Y: 0})

	s = apply(t, s, Hover{At: core.Point{X: 210, Y: 10}})
	assert.Equal(t, 1, s.Hovered)

	s = apply(t, s, Hover{At: core.Point{X: 150, Y: 150}})
	assert.Equal(t, core.NoNode, s.Hovered)

	s = apply(t, s, HoverNode{ID: 0})
	assert.Equal(t, 0, s.Hovered)
}

func TestReduceDoesNotMutatePreviousState(t *testing.T) {
	before := loadedState(core.Point{X: 100, Y: 100}, core.Point{X: 170, Y: 100})
	before = apply(t, before, Settle{ID: 0}, Grab{ID: 0, At: core.Point{}})
	nodes := core.CloneNodes(before.Nodes)
	links := before.Links.Clone()

	_ = apply(t, before, Move{At: core.Point{X: 30, Y: 30}}, Unbind{ID: 0})

	assert.Equal(t, nodes, before.Nodes)
	assert.Equal(t, links, before.Links)
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "IDLE", ModeIdle.String())
	assert.Equal(t, "DRAGGING", ModeDragging.String())
	assert.Equal(t, "UNKNOWN", Mode(9).String())
}
