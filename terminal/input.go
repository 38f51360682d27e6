package terminal

import (
	"time"

	"choopy/core"
	"choopy/geometry"
	"choopy/network"
	"choopy/render"

	"github.com/gdamore/tcell/v2"
)

// DefaultDoubleClick is the longest gap between the two presses of a
// double click.
const DefaultDoubleClick = 400 * time.Millisecond

// clickTracker recognizes two presses on the same node close in time and
// space.
type clickTracker struct {
	window time.Duration
	last   time.Time
	id     int
	x, y   int
	primed bool
}

// press records a press on node id at cell (x, y) and reports whether it
// completes a double click.
func (c *clickTracker) press(now time.Time, id, x, y int) bool {
	double := c.primed &&
		id == c.id &&
		now.Sub(c.last) <= c.window &&
		geometry.ManhattanDistance(c.x, c.y, x, y) <= 1
	if double {
		c.primed = false
		return true
	}
	c.last, c.id, c.x, c.y, c.primed = now, id, x, y, true
	return false
}

// snapshot is what the input side needs from the last drawn frame.
type snapshot struct {
	frame   render.Frame
	nodes   []core.Node
	hovered int
}

func (s *snapshot) nodeAt(x, y int) int {
	if s == nil {
		return core.NoNode
	}
	return s.frame.NodeAt(s.nodes, x, y)
}

// translator turns tcell mouse and focus events into network events. Hit
// tests run against the last drawn frame so a press lands on what the user
// sees.
type translator struct {
	viewport render.Viewport
	clicks   clickTracker
	held     bool
	lastX    int
	lastY    int
}

func newTranslator(v render.Viewport, doubleClick time.Duration) *translator {
	if doubleClick <= 0 {
		doubleClick = DefaultDoubleClick
	}
	return &translator{viewport: v, clicks: clickTracker{window: doubleClick}}
}

func (t *translator) mouse(ev *tcell.EventMouse, snap *snapshot) []network.Event {
	x, y := ev.Position()
	at := t.viewport.ToPixel(x, y)
	down := ev.Buttons()&tcell.Button1 != 0

	switch {
	case down && !t.held:
		t.held = true
		t.lastX, t.lastY = x, y
		id := snap.nodeAt(x, y)
		if id == core.NoNode {
			return nil
		}
		evs := []network.Event{network.Grab{ID: id, At: at}}
		if t.clicks.press(ev.When(), id, x, y) {
			evs = append(evs, network.Unbind{ID: id})
		}
		return evs

	case down:
		if x == t.lastX && y == t.lastY {
			return nil
		}
		t.lastX, t.lastY = x, y
		evs := []network.Event{network.Move{At: at}}
		// hover follows the pointer during a drag too
		if snap != nil {
			if id := snap.nodeAt(x, y); id != snap.hovered {
				evs = append(evs, network.HoverNode{ID: id})
			}
		}
		return evs

	case t.held:
		t.held = false
		return []network.Event{network.Release{}}

	default:
		if snap == nil {
			return nil
		}
		id := snap.nodeAt(x, y)
		if id == snap.hovered {
			return nil
		}
		return []network.Event{network.HoverNode{ID: id}}
	}
}

// focus handles the terminal losing focus like a pointer leaving the
// window: a held drag is released.
func (t *translator) focus(ev *tcell.EventFocus) []network.Event {
	if ev.Focused || !t.held {
		return nil
	}
	t.held = false
	return []network.Event{network.Release{}}
}
