// Package geometry holds the pure position passes run after every move:
// pairwise overlap resolution followed by boundary clamping.
package geometry

import "choopy/core"

// ResolveOverlap pushes apart every pair of bubbles closer than twice the
// radius. Pairs are visited once, in index order, on a working copy, so a
// later pair sees the pushes applied by earlier ones. Coincident pairs have
// no axis to push along and are left as they are.
func ResolveOverlap(nodes []core.Node, radius float64) []core.Node {
	out := core.CloneNodes(nodes)
	minDist := radius * 2

	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			d := out[i].Pos.Sub(out[j].Pos)
			dist := d.Len()
			if dist <= 0 || dist >= minDist {
				continue
			}
			push := d.Scale((minDist - dist) / dist / 2)
			out[i].Pos = out[i].Pos.Add(push)
			out[j].Pos = out[j].Pos.Sub(push)
		}
	}

	return out
}

// ClampToBounds keeps every bubble box inside the container. An unmeasured
// container leaves positions untouched.
func ClampToBounds(nodes []core.Node, bounds core.Size, size float64) []core.Node {
	if !bounds.Known() {
		return nodes
	}
	maxX := bounds.W - size
	maxY := bounds.H - size

	out := core.CloneNodes(nodes)
	for i := range out {
		out[i].Pos.X = Clamp(out[i].Pos.X, 0, maxX)
		out[i].Pos.Y = Clamp(out[i].Pos.Y, 0, maxY)
	}
	return out
}

// Settle runs overlap resolution and then boundary clamping.
func Settle(nodes []core.Node, bounds core.Size, radius, size float64) []core.Node {
	return ClampToBounds(ResolveOverlap(nodes, radius), bounds, size)
}
