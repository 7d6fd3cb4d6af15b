package layout

import "github.com/matzehuels/flowgrid/pkg/graph"

// Ranks is the result of rank assignment: every node's rank, the set of
// feedback edges (identified by index into the graph's edge list), and the
// highest rank in use.
type Ranks struct {
	ByNode   map[string]int
	Feedback map[int]bool
	Max      int
}

// RankDelta returns rank(to) - rank(from) for an edge.
func (r Ranks) RankDelta(e graph.Edge) int {
	return r.ByNode[e.To] - r.ByNode[e.From]
}

// AssignRanks classifies feedback edges with a three-color DFS and assigns
// every node a rank via longest-path layering over the remaining forward
// edges. Sources sit at rank 0; every forward edge ends at a strictly
// higher rank. Terminates on any input, cycles included.
func AssignRanks(g *graph.Graph) (Ranks, error) {
	if len(g.Nodes) == 0 {
		return Ranks{}, graph.ErrEmptyGraph
	}

	out := make(map[string][]int, len(g.Nodes)) // node -> outgoing edge indices
	inDegree := make(map[string]int, len(g.Nodes))
	for i, e := range g.Edges {
		out[e.From] = append(out[e.From], i)
		inDegree[e.To]++
	}

	feedback := classifyFeedback(g, out, inDegree)

	// Longest-path layering over forward edges (Kahn).
	forwardIn := make(map[string]int, len(g.Nodes))
	for i, e := range g.Edges {
		if !feedback[i] {
			forwardIn[e.To]++
		}
	}

	ranks := make(map[string]int, len(g.Nodes))
	queue := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if forwardIn[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, ei := range out[curr] {
			if feedback[ei] {
				continue
			}
			child := g.Edges[ei].To
			if rank := ranks[curr] + 1; rank > ranks[child] {
				ranks[child] = rank
			}
			forwardIn[child]--
			if forwardIn[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	maxRank := 0
	for _, r := range ranks {
		if r > maxRank {
			maxRank = r
		}
	}
	return Ranks{ByNode: ranks, Feedback: feedback, Max: maxRank}, nil
}

// classifyFeedback marks back edges found by a white/gray/black DFS.
// Roots are visited sources-first, then every remaining node, both in
// declaration order, so the classification is deterministic. Self-loops
// are always feedback.
func classifyFeedback(g *graph.Graph, out map[string][]int, inDegree map[string]int) map[int]bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.Nodes))
	feedback := make(map[int]bool)

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, ei := range out[node] {
			e := g.Edges[ei]
			if e.To == e.From {
				feedback[ei] = true
				continue
			}
			switch color[e.To] {
			case white:
				dfs(e.To)
			case gray:
				feedback[ei] = true
			}
		}
		color[node] = black
	}

	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 && color[n.ID] == white {
			dfs(n.ID)
		}
	}
	for _, n := range g.Nodes {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}
	return feedback
}
