package render

import (
	"choopy/core"
	"choopy/network"
)

// Opacities of hover lines.
const (
	LinkedOpacity   = 0.8
	UnlinkedOpacity = 0.4
)

// Line joins the hovered bubble to another one.
type Line struct {
	From, To int
	A, B     core.Point // measured centers in pixels
	Linked   bool
	Opacity  float64
}

// HoverLines returns one line from the hovered node to every other node
// that has a measured center. Endpoints come from centers, the geometry
// actually rendered, rather than from the model. Nothing is hovered, or
// the hovered node was not rendered: no lines.
func HoverLines(s network.State, centers map[int]core.Point) []Line {
	if s.Hovered == core.NoNode {
		return nil
	}
	from, ok := centers[s.Hovered]
	if !ok {
		return nil
	}

	var lines []Line
	for _, n := range s.Nodes {
		if n.ID == s.Hovered {
			continue
		}
		to, ok := centers[n.ID]
		if !ok {
			continue
		}
		linked := s.Links.Linked(s.Hovered, n.ID)
		opacity := UnlinkedOpacity
		if linked {
			opacity = LinkedOpacity
		}
		lines = append(lines, Line{
			From:    s.Hovered,
			To:      n.ID,
			A:       from,
			B:       to,
			Linked:  linked,
			Opacity: opacity,
		})
	}
	return lines
}

// ModelCenters returns bubble centers straight from the position model, for
// outputs that have no rendered geometry to measure.
func ModelCenters(s network.State) map[int]core.Point {
	centers := make(map[int]core.Point, len(s.Nodes))
	for _, n := range s.Nodes {
		centers[n.ID] = n.Center(s.Params.Size)
	}
	return centers
}
