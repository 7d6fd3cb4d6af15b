package layout

import (
	"slices"

	"github.com/matzehuels/flowgrid/pkg/graph"
)

// orderingPasses is the fixed number of alternating barycenter sweeps.
// Two downward and two upward passes settle terminal-sized diagrams; the
// heuristic makes no optimality claim.
const orderingPasses = 4

// OrderRanks orders the nodes of each rank left to right. The initial
// order is declaration order; alternating barycenter sweeps then pull
// nodes toward the average position of their neighbors in the adjacent
// rank. Ties and neighborless nodes keep their previous relative order,
// so the result is deterministic.
func OrderRanks(g *graph.Graph, r Ranks) map[int][]string {
	order := make(map[int][]string, r.Max+1)
	for _, n := range g.Nodes {
		rank := r.ByNode[n.ID]
		order[rank] = append(order[rank], n.ID)
	}

	// Neighbor lists restricted to the adjacent rank, forward edges only.
	parents := make(map[string][]string)
	children := make(map[string][]string)
	for i, e := range g.Edges {
		if r.Feedback[i] {
			continue
		}
		if r.ByNode[e.To] == r.ByNode[e.From]+1 {
			parents[e.To] = append(parents[e.To], e.From)
			children[e.From] = append(children[e.From], e.To)
		}
	}

	for pass := 0; pass < orderingPasses; pass++ {
		if pass%2 == 0 {
			for rank := 1; rank <= r.Max; rank++ {
				reorderByBarycenter(order[rank], order[rank-1], parents)
			}
		} else {
			for rank := r.Max - 1; rank >= 0; rank-- {
				reorderByBarycenter(order[rank], order[rank+1], children)
			}
		}
	}
	return order
}

// reorderByBarycenter stably sorts row by the average position of each
// node's neighbors in adj. Nodes without neighbors keep their current
// position as the sort key.
func reorderByBarycenter(row, adj []string, neighbors map[string][]string) {
	if len(row) < 2 {
		return
	}
	adjPos := posMap(adj)

	keys := make(map[string]float64, len(row))
	for i, id := range row {
		sum, count := 0, 0
		for _, nb := range neighbors[id] {
			if p, ok := adjPos[nb]; ok {
				sum += p
				count++
			}
		}
		if count == 0 {
			keys[id] = float64(i)
		} else {
			keys[id] = float64(sum) / float64(count)
		}
	}

	slices.SortStableFunc(row, func(a, b string) int {
		switch {
		case keys[a] < keys[b]:
			return -1
		case keys[a] > keys[b]:
			return 1
		}
		return 0
	})
}

// posMap maps each ID to its index in the slice.
func posMap(ids []string) map[string]int {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	return pos
}
