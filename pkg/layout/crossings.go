package layout

import (
	"maps"
	"slices"

	"github.com/matzehuels/flowgrid/pkg/graph"
)

// CountCrossings returns the total number of edge crossings for the given
// rank orderings, summed over each pair of consecutive ranks.
func CountCrossings(g *graph.Graph, order map[int][]string) int {
	ranks := slices.Sorted(maps.Keys(order))
	crossings := 0
	for i := 0; i < len(ranks)-1; i++ {
		r := ranks[i]
		crossings += CountLayerCrossings(g, order[r], order[r+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent ranks
// using a Fenwick tree for O(E log V) inversion counting. Two edges
// (u1,v1) and (u2,v2) cross exactly when pos(u1) < pos(u2) and
// pos(v1) > pos(v2). Edges whose target is not in the lower rank are
// ignored.
func CountLayerCrossings(g *graph.Graph, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := posMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, id := range upper {
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Count edges seen so far with target <= e.lower; the rest cross.
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}
