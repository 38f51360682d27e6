// Package layout provides the initial placement of bubbles in 2D space.
package layout

import (
	"math"
	"math/rand"

	"choopy/core"
)

// Viewport fractions used when the container cannot be measured yet.
const (
	FallbackWidthFraction  = 0.9
	FallbackHeightFraction = 0.85
)

// Area returns the placement area: the measured container when known,
// otherwise a fraction of the viewport.
func Area(bounds, viewport core.Size) core.Size {
	if bounds.Known() {
		return bounds
	}
	return viewport.Scale(FallbackWidthFraction, FallbackHeightFraction)
}

// Scatter turns papers into nodes, ids taken from their index, each placed
// uniformly at random so its box fits inside the placement area.
func Scatter(papers []core.Paper, bounds, viewport core.Size, size float64, rng *rand.Rand) []core.Node {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	area := Area(bounds, viewport)
	spanX := math.Max(0, area.W-size)
	spanY := math.Max(0, area.H-size)

	nodes := make([]core.Node, len(papers))
	for i, p := range papers {
		nodes[i] = core.Node{
			ID:    i,
			Paper: p,
			Pos:   core.Point{X: rng.Float64() * spanX, Y: rng.Float64() * spanY},
		}
	}
	return nodes
}
