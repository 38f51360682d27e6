// Package connections records which bubbles are linked and the fixed offset
// each link was formed at.
package connections

import (
	"sort"

	"choopy/core"
)

// Graph maps a node id to its link partners. links[a][b] is the offset b-a
// recorded when the link formed, and links[b][a] holds its negation.
//
// A Graph is treated as immutable: every mutating operation returns a fresh
// graph and leaves the receiver untouched.
type Graph map[int]map[int]core.Offset

// Pair is an undirected link between two node ids, with A < B.
type Pair struct {
	A      int         `json:"a"`
	B      int         `json:"b"`
	Offset core.Offset `json:"offset"` // position of B relative to A
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := make(Graph, len(g))
	for id, partners := range g {
		m := make(map[int]core.Offset, len(partners))
		for p, off := range partners {
			m[p] = off
		}
		out[id] = m
	}
	return out
}

// Has reports whether the node has a link entry.
func (g Graph) Has(id int) bool {
	_, ok := g[id]
	return ok
}

// Linked reports whether a has a recorded link to b.
func (g Graph) Linked(a, b int) bool {
	_, ok := g[a][b]
	return ok
}

// Offset returns the offset recorded from a to b.
func (g Graph) Offset(a, b int) (core.Offset, bool) {
	off, ok := g[a][b]
	return off, ok
}

// Partners returns the ids linked from id in ascending order.
func (g Graph) Partners(id int) []int {
	partners := make([]int, 0, len(g[id]))
	for p := range g[id] {
		partners = append(partners, p)
	}
	sort.Ints(partners)
	return partners
}

// Pairs returns every undirected link once, sorted by endpoints.
// Half-links left behind by an unlink are reported from their owning side.
func (g Graph) Pairs() []Pair {
	seen := make(map[[2]int]bool)
	var pairs []Pair

	for a, partners := range g {
		for b, off := range partners {
			lo, hi, o := a, b, off
			if b < a {
				lo, hi, o = b, a, off.Neg()
			}
			key := [2]int{lo, hi}
			if seen[key] {
				continue
			}
			seen[key] = true
			pairs = append(pairs, Pair{A: lo, B: hi, Offset: o})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return pairs
}

// Link records a mirrored link between a and b where b sits at off from a.
// An existing offset for the pair is overwritten.
func (g Graph) Link(a, b int, off core.Offset) Graph {
	out := g.Clone()
	if out[a] == nil {
		out[a] = make(map[int]core.Offset)
	}
	if out[b] == nil {
		out[b] = make(map[int]core.Offset)
	}
	out[a][b] = off
	out[b][a] = off.Neg()
	return out
}

// AutoLink links the dragged node to every other node whose position lies
// closer than threshold. Links to nodes outside the threshold are kept.
// It returns the new graph and the partners linked in this pass.
func AutoLink(g Graph, nodes []core.Node, dragged int, threshold float64) (Graph, []int) {
	idx := core.FindNode(nodes, dragged)
	if idx < 0 {
		return g, nil
	}
	origin := nodes[idx].Pos

	out := g.Clone()
	var linked []int
	for _, n := range nodes {
		if n.ID == dragged {
			continue
		}
		off := n.Pos.Sub(origin)
		if off.Len() >= threshold {
			continue
		}
		if out[dragged] == nil {
			out[dragged] = make(map[int]core.Offset)
		}
		if out[n.ID] == nil {
			out[n.ID] = make(map[int]core.Offset)
		}
		out[dragged][n.ID] = off
		out[n.ID][dragged] = off.Neg()
		linked = append(linked, n.ID)
	}

	if len(linked) == 0 {
		return g, nil
	}
	return out, linked
}

// Unlink severs every link of id. A partner whose only link was id loses its
// entry altogether; other partners lose just the reverse edge.
func Unlink(g Graph, id int) Graph {
	partners, ok := g[id]
	if !ok {
		return g
	}

	out := g.Clone()
	for p := range partners {
		reverse, ok := out[p]
		if !ok {
			continue
		}
		if _, back := reverse[id]; back && len(reverse) == 1 {
			delete(out, p)
			continue
		}
		delete(reverse, id)
	}
	delete(out, id)
	return out
}
