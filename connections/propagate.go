package connections

import "choopy/core"

// Propagate moves every node transitively linked to anchor so that the
// linked set follows it as a rigid assembly. Each follower is placed at its
// anchor's current position plus the offset recorded when the link formed,
// breadth first from anchor. Unknown ids are skipped.
func Propagate(nodes []core.Node, g Graph, anchor int) []core.Node {
	if !g.Has(anchor) || core.FindNode(nodes, anchor) < 0 {
		return nodes
	}

	out := core.CloneNodes(nodes)
	visited := make(map[int]bool)
	queue := []int{anchor}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		ci := core.FindNode(out, current)
		if ci < 0 {
			continue
		}
		for _, target := range g.Partners(current) {
			if visited[target] {
				continue
			}
			ti := core.FindNode(out, target)
			if ti < 0 {
				continue
			}
			out[ti].Pos = out[ci].Pos.Add(g[current][target])
			visited[current] = true
			visited[target] = true
			queue = append(queue, target)
		}
	}

	return out
}
